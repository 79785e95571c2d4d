package state

import (
	"context"
	"net/http"
	"testing"

	"github.com/stateops/gitlab-state/internal/gitlabtest"
	"github.com/stateops/gitlab-state/internal/models"
)

func TestUserPresent_CreatesThenNoops(t *testing.T) {
	srv := gitlabtest.NewServer()
	defer srv.Close()
	rec := newTestReconciler(t, srv)

	spec := models.UserSpec{
		Username: "jdoe",
		Name:     strPtr("Jane Doe"),
		Email:    strPtr("jdoe@example.com"),
		Password: strPtr("s3cret-pass"),
	}

	res := rec.UserPresent(context.Background(), spec)
	if res.Err != nil {
		t.Fatalf("first present failed: %v", res.Err)
	}
	if !res.Changed || res.Comment != "added" {
		t.Errorf("first present = %+v, want changed with comment added", res)
	}

	res = rec.UserPresent(context.Background(), spec)
	if res.Err != nil {
		t.Fatalf("second present failed: %v", res.Err)
	}
	// Password is write-only so it is re-applied every run.
	if !res.Changed {
		t.Errorf("second present = %+v, want changed for password re-apply", res)
	}
	if res.Diff["password"] != "(changed)" {
		t.Errorf("password diff = %v, want masked marker", res.Diff["password"])
	}
	if n := srv.CountRequests(http.MethodPost, "/api/v4/users"); n != 1 {
		t.Errorf("POST /users called %d times, want exactly 1", n)
	}
}

func TestUserPresent_NoopWithoutPassword(t *testing.T) {
	srv := gitlabtest.NewServer()
	defer srv.Close()
	rec := newTestReconciler(t, srv)
	srv.SeedUser(models.User{Username: "jdoe", Name: "Jane Doe", Email: "jdoe@example.com"})

	res := rec.UserPresent(context.Background(), models.UserSpec{
		Username: "jdoe",
		Name:     strPtr("Jane Doe"),
	})
	if res.Err != nil {
		t.Fatalf("present failed: %v", res.Err)
	}
	if res.Changed || res.Comment != "already exists" {
		t.Errorf("result = %+v, want unchanged already exists", res)
	}
}

func TestUserPresent_ReconcilesAdminFlag(t *testing.T) {
	srv := gitlabtest.NewServer()
	defer srv.Close()
	rec := newTestReconciler(t, srv)
	srv.SeedUser(models.User{Username: "jdoe", Name: "Jane Doe", Email: "jdoe@example.com"})

	res := rec.UserPresent(context.Background(), models.UserSpec{
		Username: "jdoe",
		Admin:    boolPtr(true),
	})
	if res.Err != nil {
		t.Fatalf("present failed: %v", res.Err)
	}
	if !res.Changed || res.Diff["admin"] != true {
		t.Errorf("result = %+v, want admin flag in diff", res)
	}
	if len(res.Diff) != 1 {
		t.Errorf("diff = %v, want admin only", res.Diff)
	}
}

func TestUserAbsent_Idempotent(t *testing.T) {
	srv := gitlabtest.NewServer()
	defer srv.Close()
	rec := newTestReconciler(t, srv)
	srv.SeedUser(models.User{Username: "jdoe", Name: "Jane Doe", Email: "jdoe@example.com"})

	spec := models.UserSpec{Username: "jdoe"}

	res := rec.UserAbsent(context.Background(), spec)
	if res.Err != nil {
		t.Fatalf("absent failed: %v", res.Err)
	}
	if !res.Changed || res.Comment != "deleted" {
		t.Errorf("first absent = %+v, want changed deleted", res)
	}

	res = rec.UserAbsent(context.Background(), spec)
	if res.Err != nil {
		t.Fatalf("second absent failed: %v", res.Err)
	}
	if res.Changed || res.Comment != "already absent" {
		t.Errorf("second absent = %+v, want unchanged already absent", res)
	}
}
