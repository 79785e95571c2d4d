package state

import (
	"context"

	"github.com/stateops/gitlab-state/internal/gitlab"
	"github.com/stateops/gitlab-state/internal/models"
)

// ProjectPresent ensures a project exists with the spec's tracked
// fields. Fields left nil in the spec are never touched.
func (r *Reconciler) ProjectPresent(ctx context.Context, spec models.ProjectSpec) models.Result {
	observed, err := gitlab.ResolveProject(ctx, r.sess, spec.Path)
	if gitlab.IsNotFound(err) {
		if _, err := gitlab.CreateProject(ctx, r.sess, spec); err != nil {
			return r.finish("project", failed(spec.Path, err))
		}
		return r.finish("project", changed(spec.Path, "added", projectCreateDiff(spec)))
	}
	if err != nil {
		return r.finish("project", failed(spec.Path, err))
	}

	diff := map[string]any{}
	up := gitlab.ProjectUpdate{}
	if spec.Name != "" && spec.Name != observed.Name {
		diff["name"] = spec.Name
		up.Name = &spec.Name
	}
	if spec.Description != nil && *spec.Description != observed.Description {
		diff["description"] = *spec.Description
		up.Description = spec.Description
	}
	if spec.Enabled != nil && *spec.Enabled != observed.Enabled {
		diff["enabled"] = *spec.Enabled
		up.Enabled = spec.Enabled
	}
	if len(diff) == 0 {
		return r.finish("project", unchanged(spec.Path, "already exists"))
	}
	if _, err := gitlab.UpdateProject(ctx, r.sess, observed.ID, up); err != nil {
		return r.finish("project", failed(spec.Path, err))
	}
	return r.finish("project", changed(spec.Path, "updated", diff))
}

// ProjectAbsent ensures no project matches the spec's path.
func (r *Reconciler) ProjectAbsent(ctx context.Context, spec models.ProjectSpec) models.Result {
	observed, err := gitlab.ResolveProject(ctx, r.sess, spec.Path)
	if gitlab.IsNotFound(err) {
		return r.finish("project", unchanged(spec.Path, "already absent"))
	}
	if err != nil {
		return r.finish("project", failed(spec.Path, err))
	}
	if err := gitlab.DeleteProject(ctx, r.sess, observed.ID); err != nil {
		return r.finish("project", failed(spec.Path, err))
	}
	return r.finish("project", changed(spec.Path, "deleted", nil))
}

func projectCreateDiff(spec models.ProjectSpec) map[string]any {
	diff := map[string]any{"path": spec.Path}
	if spec.Name != "" {
		diff["name"] = spec.Name
	}
	if spec.Description != nil {
		diff["description"] = *spec.Description
	}
	if spec.Enabled != nil {
		diff["enabled"] = *spec.Enabled
	}
	return diff
}
