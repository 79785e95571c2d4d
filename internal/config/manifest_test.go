package config

import (
	"strings"
	"testing"
)

func TestLoadManifest_DefaultsStateToPresent(t *testing.T) {
	path := writeTempFile(t, "manifest.yaml", `
projects:
  - path: team/app
    description: main service
users:
  - username: jdoe
    state: absent
deploy_keys:
  - project: team/app
    title: ci-deploy
    key: ssh-ed25519 AAAA deploy@example
`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if got := m.Projects[0].State; got != StatePresent {
		t.Errorf("project state = %q, want default present", got)
	}
	if got := m.Users[0].State; got != StateAbsent {
		t.Errorf("user state = %q, want absent", got)
	}
	if got := m.DeployKeys[0].State; got != StatePresent {
		t.Errorf("deploy key state = %q, want default present", got)
	}
}

func TestLoadManifest_InlineSpecFields(t *testing.T) {
	path := writeTempFile(t, "manifest.yaml", `
hooks:
  - project: team/app
    url: https://ci.example.com/hook
    push_events: true
    merge_requests_events: false
branches:
  - project: team/app
    name: release
    ref: main
`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	h := m.Hooks[0]
	if h.URL != "https://ci.example.com/hook" {
		t.Errorf("hook url = %q", h.URL)
	}
	if h.PushEvents == nil || !*h.PushEvents {
		t.Error("push_events not decoded as true")
	}
	if h.MergeRequestsEvents == nil || *h.MergeRequestsEvents {
		t.Error("merge_requests_events not decoded as false")
	}
	if h.TagPushEvents != nil {
		t.Error("tag_push_events should stay nil when omitted")
	}
	if b := m.Branches[0]; b.Ref != "main" {
		t.Errorf("branch ref = %q, want main", b.Ref)
	}
}

func TestLoadManifest_RejectsInvalidState(t *testing.T) {
	path := writeTempFile(t, "manifest.yaml", `
projects:
  - path: team/app
    state: ensure
`)

	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "ensure") {
		t.Fatalf("err = %v, want invalid state error naming ensure", err)
	}
}

func TestLoadManifest_MissingFile(t *testing.T) {
	if _, err := LoadManifest("/nonexistent/manifest.yaml"); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
