package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stateops/gitlab-state/internal/models"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadFile_ProfileAndProfiles(t *testing.T) {
	path := writeTempFile(t, "config.yaml", `
profile: prod
profiles:
  prod:
    url: https://gitlab.example.com
    token: prod-token
  staging:
    url: https://staging.example.com
    user: admin
    password: hunter2
`)

	c := &Config{}
	if err := c.loadFile(path); err != nil {
		t.Fatalf("loadFile failed: %v", err)
	}
	if c.Profile != "prod" {
		t.Errorf("Profile = %q, want prod", c.Profile)
	}
	if got := c.Profiles["staging"].User; got != "admin" {
		t.Errorf("staging user = %q, want admin", got)
	}
}

func TestLoadFile_FlagProfileWins(t *testing.T) {
	path := writeTempFile(t, "config.yaml", `
profile: prod
profiles:
  prod:
    url: https://gitlab.example.com
  staging:
    url: https://staging.example.com
`)

	c := &Config{Profile: "staging"}
	if err := c.loadFile(path); err != nil {
		t.Fatalf("loadFile failed: %v", err)
	}
	if c.Profile != "staging" {
		t.Errorf("Profile = %q, want staging (flag wins over file)", c.Profile)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	c := &Config{}
	if err := c.loadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestConnection_FlagsOverrideProfile(t *testing.T) {
	c := &Config{
		Profile: "prod",
		Profiles: map[string]models.Connection{
			"prod": {URL: "https://gitlab.example.com", Token: "prod-token"},
		},
		Token: "flag-token",
	}
	conn, err := c.Connection()
	if err != nil {
		t.Fatalf("Connection failed: %v", err)
	}
	if conn.URL != "https://gitlab.example.com" {
		t.Errorf("URL = %q, want profile URL", conn.URL)
	}
	if conn.Token != "flag-token" {
		t.Errorf("Token = %q, want flag value to win", conn.Token)
	}
}

func TestConnection_UnknownProfile(t *testing.T) {
	c := &Config{Profile: "ghost", Profiles: map[string]models.Connection{}}
	_, err := c.Connection()
	if err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Fatalf("err = %v, want unknown profile error naming ghost", err)
	}
}

func TestConnection_RequiresURL(t *testing.T) {
	c := &Config{Token: "tok"}
	if _, err := c.Connection(); err == nil {
		t.Fatal("expected error when no URL is configured")
	}
}

func TestConnection_FlagsOnly(t *testing.T) {
	c := &Config{URL: "https://gitlab.example.com", User: "root", Password: "pw", Insecure: true}
	conn, err := c.Connection()
	if err != nil {
		t.Fatalf("Connection failed: %v", err)
	}
	if conn.User != "root" || conn.Password != "pw" || !conn.Insecure {
		t.Errorf("conn = %+v, want flag values carried through", conn)
	}
}
