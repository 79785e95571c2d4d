package gitlab

import (
	"context"

	api "gitlab.com/gitlab-org/api/client-go"

	"github.com/stateops/gitlab-state/internal/models"
)

// DeployKeyUpdate carries a partial deploy key update. Key material is
// immutable on the remote, so only the push flag (and title) can change.
type DeployKeyUpdate struct {
	Title   *string
	CanPush *bool
}

func toDeployKey(k *api.ProjectDeployKey) *models.DeployKey {
	return &models.DeployKey{
		ID:      k.ID,
		Title:   k.Title,
		Key:     k.Key,
		CanPush: k.CanPush,
	}
}

// ListDeployKeys returns all deploy keys of the project given by ID or
// namespace/path.
func ListDeployKeys(ctx context.Context, s *Session, project string) ([]*models.DeployKey, error) {
	p, err := ResolveProject(ctx, s, project)
	if err != nil {
		return nil, err
	}
	return listProjectDeployKeys(ctx, s, p.ID)
}

func listProjectDeployKeys(ctx context.Context, s *Session, projectID int) ([]*models.DeployKey, error) {
	var all []*models.DeployKey
	opt := &api.ListProjectDeployKeysOptions{PerPage: listPageSize}
	for {
		keys, resp, err := s.client.DeployKeys.ListProjectDeployKeys(projectID, opt, api.WithContext(ctx))
		if err != nil {
			return nil, &RemoteError{Op: "list deploy keys", Err: err}
		}
		for _, k := range keys {
			all = append(all, toDeployKey(k))
		}
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return all, nil
}

// ResolveDeployKey finds a deploy key by title within a project. The
// first exact match in listing order wins.
func ResolveDeployKey(ctx context.Context, s *Session, project, title string) (*models.DeployKey, error) {
	keys, err := ListDeployKeys(ctx, s, project)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if k.Title == title {
			return k, nil
		}
	}
	return nil, &NotFoundError{Kind: "deploy key", Key: title}
}

// CreateDeployKey adds a deploy key to the spec's project and returns
// it via a second read. Key material is required.
func CreateDeployKey(ctx context.Context, s *Session, spec models.DeployKeySpec) (*models.DeployKey, error) {
	if spec.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "is required"}
	}
	if spec.Key == "" {
		return nil, &ValidationError{Field: "key", Reason: "is required to create a deploy key"}
	}
	p, err := ResolveProject(ctx, s, spec.Project)
	if err != nil {
		return nil, err
	}
	opt := &api.AddDeployKeyOptions{
		Title:   api.Ptr(spec.Title),
		Key:     api.Ptr(spec.Key),
		CanPush: spec.CanPush,
	}
	if _, _, err := s.client.DeployKeys.AddDeployKey(p.ID, opt, api.WithContext(ctx)); err != nil {
		return nil, &RemoteError{Op: "create deploy key", Err: err}
	}
	return ResolveDeployKey(ctx, s, itoa(p.ID), spec.Title)
}

// UpdateDeployKey applies a partial update and returns the re-read key.
func UpdateDeployKey(ctx context.Context, s *Session, projectID, keyID int, up DeployKeyUpdate) (*models.DeployKey, error) {
	opt := &api.UpdateDeployKeyOptions{
		Title:   up.Title,
		CanPush: up.CanPush,
	}
	k, _, err := s.client.DeployKeys.UpdateDeployKey(projectID, keyID, opt, api.WithContext(ctx))
	if err != nil {
		return nil, &RemoteError{Op: "update deploy key", Err: err}
	}
	return ResolveDeployKey(ctx, s, itoa(projectID), k.Title)
}

// DeleteDeployKey removes a deploy key by ID from a project.
func DeleteDeployKey(ctx context.Context, s *Session, projectID, keyID int) error {
	resp, err := s.client.DeployKeys.DeleteDeployKey(projectID, keyID, api.WithContext(ctx))
	if err != nil {
		if isNotFound(resp) {
			return &NotFoundError{Kind: "deploy key", Key: itoa(keyID)}
		}
		return &RemoteError{Op: "delete deploy key", Err: err}
	}
	return nil
}
