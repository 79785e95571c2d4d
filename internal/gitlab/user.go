package gitlab

import (
	"context"

	api "gitlab.com/gitlab-org/api/client-go"

	"github.com/stateops/gitlab-state/internal/models"
)

// UserUpdate carries a partial user update. Nil fields are left
// untouched on the remote.
type UserUpdate struct {
	Name           *string
	Email          *string
	Password       *string
	Admin          *bool
	CanCreateGroup *bool
}

func toUser(u *api.User) *models.User {
	return &models.User{
		ID:             u.ID,
		Username:       u.Username,
		Name:           u.Name,
		Email:          u.Email,
		Admin:          u.IsAdmin,
		CanCreateGroup: u.CanCreateGroup,
	}
}

// ListUsers returns every user visible to the session.
func ListUsers(ctx context.Context, s *Session) ([]*models.User, error) {
	var all []*models.User
	opt := &api.ListUsersOptions{
		ListOptions: api.ListOptions{PerPage: listPageSize},
	}
	for {
		users, resp, err := s.client.Users.ListUsers(opt, api.WithContext(ctx))
		if err != nil {
			return nil, &RemoteError{Op: "list users", Err: err}
		}
		for _, u := range users {
			all = append(all, toUser(u))
		}
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return all, nil
}

// ResolveUser looks a user up by numeric ID or by username. Username
// resolution scans the full listing; the first exact match wins.
func ResolveUser(ctx context.Context, s *Session, key string) (*models.User, error) {
	if id, ok := parseID(key); ok {
		u, resp, err := s.client.Users.GetUser(id, api.GetUsersOptions{}, api.WithContext(ctx))
		if err != nil {
			if isNotFound(resp) {
				return nil, &NotFoundError{Kind: "user", Key: key}
			}
			return nil, &RemoteError{Op: "get user", Err: err}
		}
		return toUser(u), nil
	}

	users, err := ListUsers(ctx, s)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == key {
			return u, nil
		}
	}
	return nil, &NotFoundError{Kind: "user", Key: key}
}

// CreateUser creates a user account and returns it via a second read.
// can_create_group defaults to false unless the spec says otherwise.
func CreateUser(ctx context.Context, s *Session, spec models.UserSpec) (*models.User, error) {
	if spec.Username == "" {
		return nil, &ValidationError{Field: "username", Reason: "is required"}
	}
	if spec.Email == nil || *spec.Email == "" {
		return nil, &ValidationError{Field: "email", Reason: "is required to create a user"}
	}
	if spec.Name == nil || *spec.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "is required to create a user"}
	}
	canCreateGroup := false
	if spec.CanCreateGroup != nil {
		canCreateGroup = *spec.CanCreateGroup
	}
	opt := &api.CreateUserOptions{
		Username:       api.Ptr(spec.Username),
		Email:          spec.Email,
		Name:           spec.Name,
		Password:       spec.Password,
		Admin:          spec.Admin,
		CanCreateGroup: api.Ptr(canCreateGroup),
	}
	created, _, err := s.client.Users.CreateUser(opt, api.WithContext(ctx))
	if err != nil {
		return nil, &RemoteError{Op: "create user", Err: err}
	}
	return ResolveUser(ctx, s, itoa(created.ID))
}

// UpdateUser applies a partial update and returns the re-read user.
func UpdateUser(ctx context.Context, s *Session, id int, up UserUpdate) (*models.User, error) {
	opt := &api.ModifyUserOptions{
		Name:           up.Name,
		Email:          up.Email,
		Password:       up.Password,
		Admin:          up.Admin,
		CanCreateGroup: up.CanCreateGroup,
	}
	if _, _, err := s.client.Users.ModifyUser(id, opt, api.WithContext(ctx)); err != nil {
		return nil, &RemoteError{Op: "update user", Err: err}
	}
	return ResolveUser(ctx, s, itoa(id))
}

// DeleteUser removes a user account by ID.
func DeleteUser(ctx context.Context, s *Session, id int) error {
	resp, err := s.client.Users.DeleteUser(id, api.WithContext(ctx))
	if err != nil {
		if isNotFound(resp) {
			return &NotFoundError{Kind: "user", Key: itoa(id)}
		}
		return &RemoteError{Op: "delete user", Err: err}
	}
	return nil
}
