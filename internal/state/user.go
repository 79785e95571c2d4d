package state

import (
	"context"

	"github.com/stateops/gitlab-state/internal/gitlab"
	"github.com/stateops/gitlab-state/internal/models"
)

// UserPresent ensures a user account exists with the spec's tracked
// fields. Passwords cannot be read back, so a set password is always
// forwarded and reported in the diff without echoing the value.
func (r *Reconciler) UserPresent(ctx context.Context, spec models.UserSpec) models.Result {
	observed, err := gitlab.ResolveUser(ctx, r.sess, spec.Username)
	if gitlab.IsNotFound(err) {
		if _, err := gitlab.CreateUser(ctx, r.sess, spec); err != nil {
			return r.finish("user", failed(spec.Username, err))
		}
		return r.finish("user", changed(spec.Username, "added", userCreateDiff(spec)))
	}
	if err != nil {
		return r.finish("user", failed(spec.Username, err))
	}

	diff := map[string]any{}
	up := gitlab.UserUpdate{}
	if spec.Name != nil && *spec.Name != observed.Name {
		diff["name"] = *spec.Name
		up.Name = spec.Name
	}
	if spec.Email != nil && *spec.Email != observed.Email {
		diff["email"] = *spec.Email
		up.Email = spec.Email
	}
	if spec.Admin != nil && *spec.Admin != observed.Admin {
		diff["admin"] = *spec.Admin
		up.Admin = spec.Admin
	}
	if spec.CanCreateGroup != nil && *spec.CanCreateGroup != observed.CanCreateGroup {
		diff["can_create_group"] = *spec.CanCreateGroup
		up.CanCreateGroup = spec.CanCreateGroup
	}
	if spec.Password != nil && *spec.Password != "" {
		diff["password"] = "(changed)"
		up.Password = spec.Password
	}
	if len(diff) == 0 {
		return r.finish("user", unchanged(spec.Username, "already exists"))
	}
	if _, err := gitlab.UpdateUser(ctx, r.sess, observed.ID, up); err != nil {
		return r.finish("user", failed(spec.Username, err))
	}
	return r.finish("user", changed(spec.Username, "updated", diff))
}

// UserAbsent ensures no user account matches the spec's username.
func (r *Reconciler) UserAbsent(ctx context.Context, spec models.UserSpec) models.Result {
	observed, err := gitlab.ResolveUser(ctx, r.sess, spec.Username)
	if gitlab.IsNotFound(err) {
		return r.finish("user", unchanged(spec.Username, "already absent"))
	}
	if err != nil {
		return r.finish("user", failed(spec.Username, err))
	}
	if err := gitlab.DeleteUser(ctx, r.sess, observed.ID); err != nil {
		return r.finish("user", failed(spec.Username, err))
	}
	return r.finish("user", changed(spec.Username, "deleted", nil))
}

func userCreateDiff(spec models.UserSpec) map[string]any {
	diff := map[string]any{"username": spec.Username}
	if spec.Name != nil {
		diff["name"] = *spec.Name
	}
	if spec.Email != nil {
		diff["email"] = *spec.Email
	}
	if spec.Admin != nil {
		diff["admin"] = *spec.Admin
	}
	if spec.CanCreateGroup != nil {
		diff["can_create_group"] = *spec.CanCreateGroup
	}
	if spec.Password != nil && *spec.Password != "" {
		diff["password"] = "(set)"
	}
	return diff
}
