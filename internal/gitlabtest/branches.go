package gitlabtest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stateops/gitlab-state/internal/models"
)

// SeedBranch adds a branch to a project's store.
func (s *Server) SeedBranch(projectID int, b models.Branch) *models.Branch {
	s.mu.Lock()
	defer s.mu.Unlock()
	cb := b
	s.branches[projectID] = append(s.branches[projectID], &cb)
	return &cb
}

func branchJSON(b *models.Branch) map[string]any {
	return map[string]any{
		"name":      b.Name,
		"protected": b.Protected,
		"default":   b.Default,
		"commit":    map[string]any{"id": b.CommitSHA},
	}
}

func (s *Server) projectBranches(w http.ResponseWriter, r *http.Request) ([]*models.Branch, int, bool) {
	id, _ := pathID(r)
	if s.Project(id) == nil {
		writeError(w, http.StatusNotFound, "404 Project Not Found")
		return nil, 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.branches[id], id, true
}

func (s *Server) listBranches(w http.ResponseWriter, r *http.Request) {
	branches, _, ok := s.projectBranches(w, r)
	if !ok {
		return
	}
	start, end, next := pageBounds(r, len(branches))
	setPageHeader(w, next)
	out := []map[string]any{}
	for _, b := range branches[start:end] {
		out = append(out, branchJSON(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getBranch(w http.ResponseWriter, r *http.Request) {
	branches, _, ok := s.projectBranches(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "branch")
	for _, b := range branches {
		if b.Name == name {
			writeJSON(w, http.StatusOK, branchJSON(b))
			return
		}
	}
	writeError(w, http.StatusNotFound, "404 Branch Not Found")
}

func (s *Server) createBranch(w http.ResponseWriter, r *http.Request) {
	_, projectID, ok := s.projectBranches(w, r)
	if !ok {
		return
	}
	body := s.lastBody()
	if str(body, "branch") == "" || str(body, "ref") == "" {
		writeError(w, http.StatusBadRequest, "branch and ref are required")
		return
	}
	b := s.SeedBranch(projectID, models.Branch{
		Name:      str(body, "branch"),
		CommitSHA: str(body, "ref"),
	})
	writeJSON(w, http.StatusCreated, branchJSON(b))
}

func (s *Server) deleteBranch(w http.ResponseWriter, r *http.Request) {
	_, projectID, ok := s.projectBranches(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "branch")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.branches[projectID] {
		if b.Name == name {
			s.branches[projectID] = append(s.branches[projectID][:i], s.branches[projectID][i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "404 Branch Not Found")
}
