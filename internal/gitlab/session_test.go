package gitlab

import (
	"context"
	"testing"

	"github.com/stateops/gitlab-state/internal/gitlabtest"
	"github.com/stateops/gitlab-state/internal/models"
)

func newTestSession(t *testing.T, srv *gitlabtest.Server) *Session {
	t.Helper()
	sess, err := NewSession(srv.Connection())
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	return sess
}

func TestNewSession_RequiresURL(t *testing.T) {
	_, err := NewSession(&models.Connection{Token: "x"})
	if err == nil {
		t.Fatal("expected error for missing URL, got nil")
	}
	if !IsValidation(err) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestSession_Ping(t *testing.T) {
	srv := gitlabtest.NewServer()
	defer srv.Close()
	sess := newTestSession(t, srv)

	version, err := sess.Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
	if version == "" {
		t.Error("Ping returned empty version")
	}
}

func TestSession_TokenAuth(t *testing.T) {
	srv := gitlabtest.NewServer()
	defer srv.Close()
	srv.Token = "s3cret"

	// Token wins over user/password when both are supplied.
	conn := &models.Connection{
		URL:      srv.URL,
		User:     "admin",
		Password: "adminpass",
		Token:    "s3cret",
	}
	sess, err := NewSession(conn)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	if _, err := sess.Ping(context.Background()); err != nil {
		t.Fatalf("Ping with token returned error: %v", err)
	}

	wrong := &models.Connection{URL: srv.URL, Token: "bogus"}
	sess, err = NewSession(wrong)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	if _, err := sess.Ping(context.Background()); err == nil {
		t.Fatal("Ping with wrong token should fail")
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		key string
		id  int
		ok  bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"team/app", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		id, ok := parseID(tc.key)
		if id != tc.id || ok != tc.ok {
			t.Errorf("parseID(%q) = (%d, %v), want (%d, %v)", tc.key, id, ok, tc.id, tc.ok)
		}
	}
}

func TestPathHelpers(t *testing.T) {
	if got := leafPath("team/app"); got != "app" {
		t.Errorf("leafPath(team/app) = %q, want app", got)
	}
	if got := leafPath("app"); got != "app" {
		t.Errorf("leafPath(app) = %q, want app", got)
	}
	if got := parentPath("group/sub/app"); got != "group/sub" {
		t.Errorf("parentPath(group/sub/app) = %q, want group/sub", got)
	}
	if got := parentPath("app"); got != "" {
		t.Errorf("parentPath(app) = %q, want empty", got)
	}
}
