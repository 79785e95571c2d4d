package state

import (
	"context"
	"net/http"
	"testing"

	"github.com/stateops/gitlab-state/internal/gitlabtest"
	"github.com/stateops/gitlab-state/internal/models"
)

func TestHookPresent_AddsMissingHook(t *testing.T) {
	srv := gitlabtest.NewServer()
	defer srv.Close()
	rec := newTestReconciler(t, srv)
	srv.SeedProject(models.Project{
		Name: "app", Path: "app", PathWithNamespace: "team/app", Enabled: true,
	})

	spec := models.HookSpec{
		Project:    "team/app",
		URL:        "https://ci.example/hook",
		PushEvents: boolPtr(true),
	}

	res := rec.HookPresent(context.Background(), spec)
	if res.Err != nil {
		t.Fatalf("present failed: %v", res.Err)
	}
	if !res.Changed || res.Comment != "added" {
		t.Errorf("result = %+v, want changed with comment added", res)
	}

	res = rec.HookPresent(context.Background(), spec)
	if res.Changed || res.Comment != "already exists" {
		t.Errorf("second present = %+v, want unchanged already exists", res)
	}
}

func TestHookPresent_ReconcilesEventFlags(t *testing.T) {
	srv := gitlabtest.NewServer()
	defer srv.Close()
	rec := newTestReconciler(t, srv)
	p := srv.SeedProject(models.Project{
		Name: "app", Path: "app", PathWithNamespace: "team/app", Enabled: true,
	})
	srv.SeedHook(p.ID, models.Hook{URL: "https://ci.example/hook", PushEvents: true})

	res := rec.HookPresent(context.Background(), models.HookSpec{
		Project:             "team/app",
		URL:                 "https://ci.example/hook",
		PushEvents:          boolPtr(true),
		MergeRequestsEvents: boolPtr(true),
	})
	if res.Err != nil {
		t.Fatalf("present failed: %v", res.Err)
	}
	if !res.Changed || res.Comment != "updated" {
		t.Errorf("result = %+v, want changed with comment updated", res)
	}
	if len(res.Diff) != 1 || res.Diff["merge_requests_events"] != true {
		t.Errorf("Diff = %v, want exactly {merge_requests_events: true}", res.Diff)
	}
}

func TestHookPresent_ProjectUnresolvedFails(t *testing.T) {
	srv := gitlabtest.NewServer()
	defer srv.Close()
	rec := newTestReconciler(t, srv)

	res := rec.HookPresent(context.Background(), models.HookSpec{
		Project: "no/such",
		URL:     "https://ci.example/hook",
	})
	if res.Err == nil {
		t.Fatal("expected failed result for unresolved project")
	}
}

func TestHookAbsent_Idempotent(t *testing.T) {
	srv := gitlabtest.NewServer()
	defer srv.Close()
	rec := newTestReconciler(t, srv)
	p := srv.SeedProject(models.Project{
		Name: "app", Path: "app", PathWithNamespace: "team/app", Enabled: true,
	})
	srv.SeedHook(p.ID, models.Hook{URL: "https://ci.example/hook"})

	spec := models.HookSpec{Project: "team/app", URL: "https://ci.example/hook"}

	res := rec.HookAbsent(context.Background(), spec)
	if !res.Changed || res.Comment != "deleted" {
		t.Errorf("first absent = %+v, want changed with comment deleted", res)
	}
	res = rec.HookAbsent(context.Background(), spec)
	if res.Changed || res.Comment != "already absent" {
		t.Errorf("second absent = %+v, want unchanged already absent", res)
	}
	// Only the first call may issue a remote delete.
	deletes := 0
	for _, req := range srv.Requests() {
		if req.Method == http.MethodDelete {
			deletes++
		}
	}
	if deletes != 1 {
		t.Errorf("remote DELETE issued %d times, want 1", deletes)
	}
}
