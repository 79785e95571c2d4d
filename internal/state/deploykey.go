package state

import (
	"context"
	"strconv"

	"github.com/stateops/gitlab-state/internal/gitlab"
	"github.com/stateops/gitlab-state/internal/models"
)

// resolveProjectID resolves the owning project once so the remaining
// calls can address it by ID instead of rescanning the listing.
func resolveProjectID(ctx context.Context, sess *gitlab.Session, project string) (int, error) {
	p, err := gitlab.ResolveProject(ctx, sess, project)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

// DeployKeyPresent ensures the spec's project carries a deploy key with
// the spec's title. Key material is immutable: an existing key is never
// replaced, only its push flag is reconciled.
func (r *Reconciler) DeployKeyPresent(ctx context.Context, spec models.DeployKeySpec) models.Result {
	projectID, err := resolveProjectID(ctx, r.sess, spec.Project)
	if err != nil {
		return r.finish("deploy key", failed(spec.Title, err))
	}
	pid := strconv.Itoa(projectID)

	observed, err := gitlab.ResolveDeployKey(ctx, r.sess, pid, spec.Title)
	if gitlab.IsNotFound(err) {
		create := spec
		create.Project = pid
		if _, err := gitlab.CreateDeployKey(ctx, r.sess, create); err != nil {
			return r.finish("deploy key", failed(spec.Title, err))
		}
		diff := map[string]any{"title": spec.Title}
		if spec.CanPush != nil {
			diff["can_push"] = *spec.CanPush
		}
		return r.finish("deploy key", changed(spec.Title, "added", diff))
	}
	if err != nil {
		return r.finish("deploy key", failed(spec.Title, err))
	}

	if spec.CanPush != nil && *spec.CanPush != observed.CanPush {
		up := gitlab.DeployKeyUpdate{CanPush: spec.CanPush}
		if _, err := gitlab.UpdateDeployKey(ctx, r.sess, projectID, observed.ID, up); err != nil {
			return r.finish("deploy key", failed(spec.Title, err))
		}
		return r.finish("deploy key", changed(spec.Title, "updated", map[string]any{"can_push": *spec.CanPush}))
	}
	return r.finish("deploy key", unchanged(spec.Title, "already exists"))
}

// DeployKeyAbsent ensures the spec's project has no deploy key with the
// spec's title. When the key is already gone no remote delete is issued.
func (r *Reconciler) DeployKeyAbsent(ctx context.Context, spec models.DeployKeySpec) models.Result {
	projectID, err := resolveProjectID(ctx, r.sess, spec.Project)
	if err != nil {
		return r.finish("deploy key", failed(spec.Title, err))
	}

	observed, err := gitlab.ResolveDeployKey(ctx, r.sess, strconv.Itoa(projectID), spec.Title)
	if gitlab.IsNotFound(err) {
		return r.finish("deploy key", unchanged(spec.Title, "already absent"))
	}
	if err != nil {
		return r.finish("deploy key", failed(spec.Title, err))
	}
	if err := gitlab.DeleteDeployKey(ctx, r.sess, projectID, observed.ID); err != nil {
		return r.finish("deploy key", failed(spec.Title, err))
	}
	return r.finish("deploy key", changed(spec.Title, "deleted", map[string]any{"id": observed.ID}))
}
