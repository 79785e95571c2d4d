package gitlabtest

import (
	"net/http"

	"github.com/stateops/gitlab-state/internal/models"
)

// SeedNamespace adds a group or user namespace to the store.
func (s *Server) SeedNamespace(ns models.Namespace) *models.Namespace {
	if ns.ID == 0 {
		ns.ID = s.id()
	}
	if ns.FullPath == "" {
		ns.FullPath = ns.Path
	}
	if ns.Kind == "" {
		ns.Kind = "group"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cns := ns
	s.namespaces = append(s.namespaces, &cns)
	return &cns
}

func (s *Server) listNamespaces(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	all := make([]*models.Namespace, len(s.namespaces))
	copy(all, s.namespaces)
	s.mu.Unlock()

	start, end, next := pageBounds(r, len(all))
	setPageHeader(w, next)
	out := []map[string]any{}
	for _, ns := range all[start:end] {
		out = append(out, map[string]any{
			"id":        ns.ID,
			"path":      ns.Path,
			"full_path": ns.FullPath,
			"kind":      ns.Kind,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// SeedProject adds a project to the store, assigning an ID when none is
// set. Duplicate paths are allowed so tests can probe first-match wins.
func (s *Server) SeedProject(p models.Project) *models.Project {
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.projects = append(s.projects, &cp)
	return &cp
}

// Project returns the stored project with the given ID, or nil.
func (s *Server) Project(id int) *models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findProject(id)
}

// findProject is the lock-held lookup.
func (s *Server) findProject(id int) *models.Project {
	for _, p := range s.projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func projectJSON(p *models.Project) map[string]any {
	return map[string]any{
		"id":                  p.ID,
		"name":                p.Name,
		"path":                p.Path,
		"path_with_namespace": p.PathWithNamespace,
		"description":         p.Description,
		"archived":            !p.Enabled,
		"default_branch":      p.DefaultBranch,
		"web_url":             p.WebURL,
	}
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	all := make([]*models.Project, len(s.projects))
	copy(all, s.projects)
	s.mu.Unlock()

	start, end, next := pageBounds(r, len(all))
	setPageHeader(w, next)
	out := []map[string]any{}
	for _, p := range all[start:end] {
		out = append(out, projectJSON(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "404 Project Not Found")
		return
	}
	p := s.Project(id)
	if p == nil {
		writeError(w, http.StatusNotFound, "404 Project Not Found")
		return
	}
	writeJSON(w, http.StatusOK, projectJSON(p))
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	body := s.lastBody()
	name := str(body, "name")
	path := str(body, "path")
	if name == "" && path == "" {
		writeError(w, http.StatusBadRequest, "name is missing")
		return
	}
	if path == "" {
		path = name
	}
	fullPath := path
	if nsID, ok := body["namespace_id"].(float64); ok {
		var ns *models.Namespace
		s.mu.Lock()
		for _, n := range s.namespaces {
			if n.ID == int(nsID) {
				ns = n
				break
			}
		}
		s.mu.Unlock()
		if ns == nil {
			writeError(w, http.StatusBadRequest, "namespace is not valid")
			return
		}
		fullPath = ns.FullPath + "/" + path
	}
	p := s.SeedProject(models.Project{
		Name:              name,
		Path:              path,
		PathWithNamespace: fullPath,
		Description:       str(body, "description"),
		Enabled:           true,
		DefaultBranch:     "main",
	})
	writeJSON(w, http.StatusCreated, projectJSON(p))
}

func (s *Server) editProject(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	p := s.Project(id)
	if p == nil {
		writeError(w, http.StatusNotFound, "404 Project Not Found")
		return
	}
	body := s.lastBody()
	s.mu.Lock()
	if v, ok := body["name"].(string); ok {
		p.Name = v
	}
	if v, ok := body["description"].(string); ok {
		p.Description = v
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, projectJSON(p))
}

func (s *Server) archiveProject(w http.ResponseWriter, r *http.Request) {
	s.setArchived(w, r, true)
}

func (s *Server) unarchiveProject(w http.ResponseWriter, r *http.Request) {
	s.setArchived(w, r, false)
}

func (s *Server) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	id, _ := pathID(r)
	p := s.Project(id)
	if p == nil {
		writeError(w, http.StatusNotFound, "404 Project Not Found")
		return
	}
	s.mu.Lock()
	p.Enabled = !archived
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, projectJSON(p))
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.projects {
		if p.ID == id {
			s.projects = append(s.projects[:i], s.projects[i+1:]...)
			delete(s.hooks, id)
			delete(s.deployKeys, id)
			delete(s.branches, id)
			writeJSON(w, http.StatusAccepted, map[string]string{"message": "202 Accepted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "404 Project Not Found")
}
