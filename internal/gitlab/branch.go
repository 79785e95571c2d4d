package gitlab

import (
	"context"

	api "gitlab.com/gitlab-org/api/client-go"

	"github.com/stateops/gitlab-state/internal/models"
)

func toBranch(b *api.Branch) *models.Branch {
	mb := &models.Branch{
		Name:      b.Name,
		Protected: b.Protected,
		Default:   b.Default,
	}
	if b.Commit != nil {
		mb.CommitSHA = b.Commit.ID
	}
	return mb
}

// ListBranches returns all branches of the project given by ID or
// namespace/path.
func ListBranches(ctx context.Context, s *Session, project string) ([]*models.Branch, error) {
	p, err := ResolveProject(ctx, s, project)
	if err != nil {
		return nil, err
	}
	var all []*models.Branch
	opt := &api.ListBranchesOptions{
		ListOptions: api.ListOptions{PerPage: listPageSize},
	}
	for {
		branches, resp, err := s.client.Branches.ListBranches(p.ID, opt, api.WithContext(ctx))
		if err != nil {
			return nil, &RemoteError{Op: "list branches", Err: err}
		}
		for _, b := range branches {
			all = append(all, toBranch(b))
		}
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return all, nil
}

// ResolveBranch looks a branch up by name. Branch names are their
// identifiers, so this is a direct lookup, not a listing scan.
func ResolveBranch(ctx context.Context, s *Session, project, name string) (*models.Branch, error) {
	p, err := ResolveProject(ctx, s, project)
	if err != nil {
		return nil, err
	}
	b, resp, err := s.client.Branches.GetBranch(p.ID, name, api.WithContext(ctx))
	if err != nil {
		if isNotFound(resp) {
			return nil, &NotFoundError{Kind: "branch", Key: name}
		}
		return nil, &RemoteError{Op: "get branch", Err: err}
	}
	return toBranch(b), nil
}

// CreateBranch creates a branch from the spec's ref and returns it via
// a second read.
func CreateBranch(ctx context.Context, s *Session, spec models.BranchSpec) (*models.Branch, error) {
	if spec.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "is required"}
	}
	if spec.Ref == "" {
		return nil, &ValidationError{Field: "ref", Reason: "is required to create a branch"}
	}
	p, err := ResolveProject(ctx, s, spec.Project)
	if err != nil {
		return nil, err
	}
	opt := &api.CreateBranchOptions{
		Branch: api.Ptr(spec.Name),
		Ref:    api.Ptr(spec.Ref),
	}
	if _, _, err := s.client.Branches.CreateBranch(p.ID, opt, api.WithContext(ctx)); err != nil {
		return nil, &RemoteError{Op: "create branch", Err: err}
	}
	return ResolveBranch(ctx, s, itoa(p.ID), spec.Name)
}

// DeleteBranch removes a branch by name from a project.
func DeleteBranch(ctx context.Context, s *Session, projectID int, name string) error {
	resp, err := s.client.Branches.DeleteBranch(projectID, name, api.WithContext(ctx))
	if err != nil {
		if isNotFound(resp) {
			return &NotFoundError{Kind: "branch", Key: name}
		}
		return &RemoteError{Op: "delete branch", Err: err}
	}
	return nil
}
