package state

import (
	"context"
	"strconv"

	"github.com/stateops/gitlab-state/internal/gitlab"
	"github.com/stateops/gitlab-state/internal/models"
)

// BranchPresent ensures the spec's project has a branch with the spec's
// name. Branches are existence-only: the ref is used at creation time
// and an existing branch is never re-pointed.
func (r *Reconciler) BranchPresent(ctx context.Context, spec models.BranchSpec) models.Result {
	projectID, err := resolveProjectID(ctx, r.sess, spec.Project)
	if err != nil {
		return r.finish("branch", failed(spec.Name, err))
	}
	pid := strconv.Itoa(projectID)

	_, err = gitlab.ResolveBranch(ctx, r.sess, pid, spec.Name)
	if gitlab.IsNotFound(err) {
		create := spec
		create.Project = pid
		if _, err := gitlab.CreateBranch(ctx, r.sess, create); err != nil {
			return r.finish("branch", failed(spec.Name, err))
		}
		return r.finish("branch", changed(spec.Name, "added", map[string]any{"name": spec.Name, "ref": spec.Ref}))
	}
	if err != nil {
		return r.finish("branch", failed(spec.Name, err))
	}
	return r.finish("branch", unchanged(spec.Name, "already exists"))
}

// BranchAbsent ensures the spec's project has no branch with the spec's
// name.
func (r *Reconciler) BranchAbsent(ctx context.Context, spec models.BranchSpec) models.Result {
	projectID, err := resolveProjectID(ctx, r.sess, spec.Project)
	if err != nil {
		return r.finish("branch", failed(spec.Name, err))
	}

	_, err = gitlab.ResolveBranch(ctx, r.sess, strconv.Itoa(projectID), spec.Name)
	if gitlab.IsNotFound(err) {
		return r.finish("branch", unchanged(spec.Name, "already absent"))
	}
	if err != nil {
		return r.finish("branch", failed(spec.Name, err))
	}
	if err := gitlab.DeleteBranch(ctx, r.sess, projectID, spec.Name); err != nil {
		return r.finish("branch", failed(spec.Name, err))
	}
	return r.finish("branch", changed(spec.Name, "deleted", nil))
}
