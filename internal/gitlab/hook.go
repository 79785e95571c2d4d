package gitlab

import (
	"context"

	api "gitlab.com/gitlab-org/api/client-go"

	"github.com/stateops/gitlab-state/internal/models"
)

// HookUpdate carries a partial webhook update. URL is the identity of a
// hook and is never rewritten.
type HookUpdate struct {
	PushEvents          *bool
	IssuesEvents        *bool
	MergeRequestsEvents *bool
	TagPushEvents       *bool
}

func toHook(h *api.ProjectHook) *models.Hook {
	return &models.Hook{
		ID:                  h.ID,
		ProjectID:           h.ProjectID,
		URL:                 h.URL,
		PushEvents:          h.PushEvents,
		IssuesEvents:        h.IssuesEvents,
		MergeRequestsEvents: h.MergeRequestsEvents,
		TagPushEvents:       h.TagPushEvents,
	}
}

// ListHooks returns all webhooks of the project given by ID or
// namespace/path.
func ListHooks(ctx context.Context, s *Session, project string) ([]*models.Hook, error) {
	p, err := ResolveProject(ctx, s, project)
	if err != nil {
		return nil, err
	}
	return listProjectHooks(ctx, s, p.ID)
}

func listProjectHooks(ctx context.Context, s *Session, projectID int) ([]*models.Hook, error) {
	var all []*models.Hook
	opt := &api.ListProjectHooksOptions{PerPage: listPageSize}
	for {
		hooks, resp, err := s.client.Projects.ListProjectHooks(projectID, opt, api.WithContext(ctx))
		if err != nil {
			return nil, &RemoteError{Op: "list hooks", Err: err}
		}
		for _, h := range hooks {
			all = append(all, toHook(h))
		}
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return all, nil
}

// ResolveHook finds a webhook by URL within a project. The first exact
// match in listing order wins.
func ResolveHook(ctx context.Context, s *Session, project, url string) (*models.Hook, error) {
	hooks, err := ListHooks(ctx, s, project)
	if err != nil {
		return nil, err
	}
	for _, h := range hooks {
		if h.URL == url {
			return h, nil
		}
	}
	return nil, &NotFoundError{Kind: "hook", Key: url}
}

// CreateHook adds a webhook to the spec's project and returns it via a
// second read. Event flags default to off.
func CreateHook(ctx context.Context, s *Session, spec models.HookSpec) (*models.Hook, error) {
	if spec.URL == "" {
		return nil, &ValidationError{Field: "url", Reason: "is required"}
	}
	p, err := ResolveProject(ctx, s, spec.Project)
	if err != nil {
		return nil, err
	}
	opt := &api.AddProjectHookOptions{
		URL:                 api.Ptr(spec.URL),
		PushEvents:          spec.PushEvents,
		IssuesEvents:        spec.IssuesEvents,
		MergeRequestsEvents: spec.MergeRequestsEvents,
		TagPushEvents:       spec.TagPushEvents,
	}
	if _, _, err := s.client.Projects.AddProjectHook(p.ID, opt, api.WithContext(ctx)); err != nil {
		return nil, &RemoteError{Op: "create hook", Err: err}
	}
	return ResolveHook(ctx, s, itoa(p.ID), spec.URL)
}

// UpdateHook applies a partial update to a webhook's event flags and
// returns the re-read hook.
func UpdateHook(ctx context.Context, s *Session, projectID, hookID int, up HookUpdate) (*models.Hook, error) {
	opt := &api.EditProjectHookOptions{
		PushEvents:          up.PushEvents,
		IssuesEvents:        up.IssuesEvents,
		MergeRequestsEvents: up.MergeRequestsEvents,
		TagPushEvents:       up.TagPushEvents,
	}
	h, resp, err := s.client.Projects.GetProjectHook(projectID, hookID, api.WithContext(ctx))
	if err != nil {
		if isNotFound(resp) {
			return nil, &NotFoundError{Kind: "hook", Key: itoa(hookID)}
		}
		return nil, &RemoteError{Op: "get hook", Err: err}
	}
	// Edit requires the URL even when it is unchanged.
	opt.URL = api.Ptr(h.URL)
	if _, _, err := s.client.Projects.EditProjectHook(projectID, hookID, opt, api.WithContext(ctx)); err != nil {
		return nil, &RemoteError{Op: "update hook", Err: err}
	}
	return ResolveHook(ctx, s, itoa(projectID), h.URL)
}

// DeleteHook removes a webhook by ID from a project.
func DeleteHook(ctx context.Context, s *Session, projectID, hookID int) error {
	resp, err := s.client.Projects.DeleteProjectHook(projectID, hookID, api.WithContext(ctx))
	if err != nil {
		if isNotFound(resp) {
			return &NotFoundError{Kind: "hook", Key: itoa(hookID)}
		}
		return &RemoteError{Op: "delete hook", Err: err}
	}
	return nil
}
