package state

import (
	"context"

	"github.com/stateops/gitlab-state/internal/gitlab"
	"github.com/stateops/gitlab-state/internal/models"
)

// HookPresent ensures the spec's project carries a webhook for the
// spec's URL with the desired event flags.
func (r *Reconciler) HookPresent(ctx context.Context, spec models.HookSpec) models.Result {
	observed, err := gitlab.ResolveHook(ctx, r.sess, spec.Project, spec.URL)
	if gitlab.IsNotFound(err) {
		if _, err := gitlab.CreateHook(ctx, r.sess, spec); err != nil {
			return r.finish("hook", failed(spec.URL, err))
		}
		return r.finish("hook", changed(spec.URL, "added", hookCreateDiff(spec)))
	}
	if err != nil {
		return r.finish("hook", failed(spec.URL, err))
	}

	diff := map[string]any{}
	up := gitlab.HookUpdate{}
	if spec.PushEvents != nil && *spec.PushEvents != observed.PushEvents {
		diff["push_events"] = *spec.PushEvents
		up.PushEvents = spec.PushEvents
	}
	if spec.IssuesEvents != nil && *spec.IssuesEvents != observed.IssuesEvents {
		diff["issues_events"] = *spec.IssuesEvents
		up.IssuesEvents = spec.IssuesEvents
	}
	if spec.MergeRequestsEvents != nil && *spec.MergeRequestsEvents != observed.MergeRequestsEvents {
		diff["merge_requests_events"] = *spec.MergeRequestsEvents
		up.MergeRequestsEvents = spec.MergeRequestsEvents
	}
	if spec.TagPushEvents != nil && *spec.TagPushEvents != observed.TagPushEvents {
		diff["tag_push_events"] = *spec.TagPushEvents
		up.TagPushEvents = spec.TagPushEvents
	}
	if len(diff) == 0 {
		return r.finish("hook", unchanged(spec.URL, "already exists"))
	}
	if _, err := gitlab.UpdateHook(ctx, r.sess, observed.ProjectID, observed.ID, up); err != nil {
		return r.finish("hook", failed(spec.URL, err))
	}
	return r.finish("hook", changed(spec.URL, "updated", diff))
}

// HookAbsent ensures the spec's project has no webhook for the URL.
func (r *Reconciler) HookAbsent(ctx context.Context, spec models.HookSpec) models.Result {
	observed, err := gitlab.ResolveHook(ctx, r.sess, spec.Project, spec.URL)
	if gitlab.IsNotFound(err) {
		return r.finish("hook", unchanged(spec.URL, "already absent"))
	}
	if err != nil {
		return r.finish("hook", failed(spec.URL, err))
	}
	if err := gitlab.DeleteHook(ctx, r.sess, observed.ProjectID, observed.ID); err != nil {
		return r.finish("hook", failed(spec.URL, err))
	}
	return r.finish("hook", changed(spec.URL, "deleted", nil))
}

func hookCreateDiff(spec models.HookSpec) map[string]any {
	diff := map[string]any{"url": spec.URL}
	if spec.PushEvents != nil {
		diff["push_events"] = *spec.PushEvents
	}
	if spec.IssuesEvents != nil {
		diff["issues_events"] = *spec.IssuesEvents
	}
	if spec.MergeRequestsEvents != nil {
		diff["merge_requests_events"] = *spec.MergeRequestsEvents
	}
	if spec.TagPushEvents != nil {
		diff["tag_push_events"] = *spec.TagPushEvents
	}
	return diff
}
