package gitlab

import (
	"context"

	api "gitlab.com/gitlab-org/api/client-go"

	"github.com/stateops/gitlab-state/internal/models"
)

// ProjectUpdate carries a partial project update. Nil fields are left
// untouched on the remote.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Enabled     *bool
}

func toProject(p *api.Project) *models.Project {
	return &models.Project{
		ID:                p.ID,
		Name:              p.Name,
		Path:              p.Path,
		PathWithNamespace: p.PathWithNamespace,
		Description:       p.Description,
		Enabled:           !p.Archived,
		DefaultBranch:     p.DefaultBranch,
		WebURL:            p.WebURL,
	}
}

// ListProjects returns every project visible to the session, in the
// order the remote returns them.
func ListProjects(ctx context.Context, s *Session) ([]*models.Project, error) {
	var all []*models.Project
	opt := &api.ListProjectsOptions{
		ListOptions: api.ListOptions{PerPage: listPageSize},
	}
	for {
		projects, resp, err := s.client.Projects.ListProjects(opt, api.WithContext(ctx))
		if err != nil {
			return nil, &RemoteError{Op: "list projects", Err: err}
		}
		for _, p := range projects {
			all = append(all, toProject(p))
		}
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return all, nil
}

// ResolveProject looks a project up by numeric ID or by name/path. Name
// resolution scans the full listing; the first exact match wins.
func ResolveProject(ctx context.Context, s *Session, key string) (*models.Project, error) {
	if id, ok := parseID(key); ok {
		p, resp, err := s.client.Projects.GetProject(id, nil, api.WithContext(ctx))
		if err != nil {
			if isNotFound(resp) {
				return nil, &NotFoundError{Kind: "project", Key: key}
			}
			return nil, &RemoteError{Op: "get project", Err: err}
		}
		return toProject(p), nil
	}

	projects, err := ListProjects(ctx, s)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.PathWithNamespace == key || p.Path == key || p.Name == key {
			return p, nil
		}
	}
	return nil, &NotFoundError{Kind: "project", Key: key}
}

// resolveNamespace finds a group or user namespace by full path.
func resolveNamespace(ctx context.Context, s *Session, fullPath string) (*models.Namespace, error) {
	opt := &api.ListNamespacesOptions{
		ListOptions: api.ListOptions{PerPage: listPageSize},
	}
	for {
		namespaces, resp, err := s.client.Namespaces.ListNamespaces(opt, api.WithContext(ctx))
		if err != nil {
			return nil, &RemoteError{Op: "list namespaces", Err: err}
		}
		for _, ns := range namespaces {
			if ns.FullPath == fullPath {
				return &models.Namespace{ID: ns.ID, Path: ns.Path, FullPath: ns.FullPath, Kind: ns.Kind}, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return nil, &NotFoundError{Kind: "namespace", Key: fullPath}
}

// CreateProject creates a project from the spec and returns it via a
// second read, since creation payloads are not trusted to be complete.
// A namespaced path ("team/app") is created under that namespace, which
// must already exist; a bare path lands in the session's own namespace.
func CreateProject(ctx context.Context, s *Session, spec models.ProjectSpec) (*models.Project, error) {
	if spec.Path == "" {
		return nil, &ValidationError{Field: "path", Reason: "is required"}
	}
	name := spec.Name
	if name == "" {
		name = leafPath(spec.Path)
	}
	opt := &api.CreateProjectOptions{
		Name: api.Ptr(name),
		Path: api.Ptr(leafPath(spec.Path)),
	}
	if parent := parentPath(spec.Path); parent != "" {
		ns, err := resolveNamespace(ctx, s, parent)
		if err != nil {
			return nil, err
		}
		opt.NamespaceID = api.Ptr(ns.ID)
	}
	if spec.Description != nil {
		opt.Description = spec.Description
	}
	created, _, err := s.client.Projects.CreateProject(opt, api.WithContext(ctx))
	if err != nil {
		return nil, &RemoteError{Op: "create project", Err: err}
	}
	if spec.Enabled != nil && !*spec.Enabled {
		// GitLab has no atomic create-archived.
		if _, _, err := s.client.Projects.ArchiveProject(created.ID, api.WithContext(ctx)); err != nil {
			return nil, &RemoteError{Op: "archive project", Err: err}
		}
	}
	return ResolveProject(ctx, s, itoa(created.ID))
}

// UpdateProject applies a partial update and returns the re-read
// project. Enablement rides GitLab's archive endpoints; everything else
// is one metadata edit.
func UpdateProject(ctx context.Context, s *Session, id int, up ProjectUpdate) (*models.Project, error) {
	if up.Name != nil || up.Description != nil {
		opt := &api.EditProjectOptions{
			Name:        up.Name,
			Description: up.Description,
		}
		if _, _, err := s.client.Projects.EditProject(id, opt, api.WithContext(ctx)); err != nil {
			return nil, &RemoteError{Op: "update project", Err: err}
		}
	}
	if up.Enabled != nil {
		var err error
		if *up.Enabled {
			_, _, err = s.client.Projects.UnarchiveProject(id, api.WithContext(ctx))
		} else {
			_, _, err = s.client.Projects.ArchiveProject(id, api.WithContext(ctx))
		}
		if err != nil {
			return nil, &RemoteError{Op: "archive project", Err: err}
		}
	}
	return ResolveProject(ctx, s, itoa(id))
}

// DeleteProject removes a project by ID. Callers pre-resolve existence;
// a remote 404 is still mapped to NotFoundError.
func DeleteProject(ctx context.Context, s *Session, id int) error {
	resp, err := s.client.Projects.DeleteProject(id, nil, api.WithContext(ctx))
	if err != nil {
		if isNotFound(resp) {
			return &NotFoundError{Kind: "project", Key: itoa(id)}
		}
		return &RemoteError{Op: "delete project", Err: err}
	}
	return nil
}
