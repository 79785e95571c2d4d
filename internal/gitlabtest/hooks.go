package gitlabtest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stateops/gitlab-state/internal/models"
)

// SeedHook adds a webhook to a project's store.
func (s *Server) SeedHook(projectID int, h models.Hook) *models.Hook {
	if h.ID == 0 {
		h.ID = s.id()
	}
	h.ProjectID = projectID
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := h
	s.hooks[projectID] = append(s.hooks[projectID], &ch)
	return &ch
}

func hookJSON(h *models.Hook) map[string]any {
	return map[string]any{
		"id":                    h.ID,
		"project_id":            h.ProjectID,
		"url":                   h.URL,
		"push_events":           h.PushEvents,
		"issues_events":         h.IssuesEvents,
		"merge_requests_events": h.MergeRequestsEvents,
		"tag_push_events":       h.TagPushEvents,
	}
}

func (s *Server) projectHooks(w http.ResponseWriter, r *http.Request) ([]*models.Hook, int, bool) {
	id, _ := pathID(r)
	if s.Project(id) == nil {
		writeError(w, http.StatusNotFound, "404 Project Not Found")
		return nil, 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hooks[id], id, true
}

func (s *Server) listHooks(w http.ResponseWriter, r *http.Request) {
	hooks, _, ok := s.projectHooks(w, r)
	if !ok {
		return
	}
	start, end, next := pageBounds(r, len(hooks))
	setPageHeader(w, next)
	out := []map[string]any{}
	for _, h := range hooks[start:end] {
		out = append(out, hookJSON(h))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getHook(w http.ResponseWriter, r *http.Request) {
	hooks, _, ok := s.projectHooks(w, r)
	if !ok {
		return
	}
	hookID, _ := strconv.Atoi(chi.URLParam(r, "hookID"))
	for _, h := range hooks {
		if h.ID == hookID {
			writeJSON(w, http.StatusOK, hookJSON(h))
			return
		}
	}
	writeError(w, http.StatusNotFound, "404 Hook Not Found")
}

func (s *Server) addHook(w http.ResponseWriter, r *http.Request) {
	_, projectID, ok := s.projectHooks(w, r)
	if !ok {
		return
	}
	body := s.lastBody()
	if str(body, "url") == "" {
		writeError(w, http.StatusBadRequest, "url is missing")
		return
	}
	h := models.Hook{URL: str(body, "url")}
	if v, ok := boolField(body, "push_events"); ok {
		h.PushEvents = v
	}
	if v, ok := boolField(body, "issues_events"); ok {
		h.IssuesEvents = v
	}
	if v, ok := boolField(body, "merge_requests_events"); ok {
		h.MergeRequestsEvents = v
	}
	if v, ok := boolField(body, "tag_push_events"); ok {
		h.TagPushEvents = v
	}
	writeJSON(w, http.StatusCreated, hookJSON(s.SeedHook(projectID, h)))
}

func (s *Server) editHook(w http.ResponseWriter, r *http.Request) {
	hooks, _, ok := s.projectHooks(w, r)
	if !ok {
		return
	}
	hookID, _ := strconv.Atoi(chi.URLParam(r, "hookID"))
	body := s.lastBody()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range hooks {
		if h.ID != hookID {
			continue
		}
		if v, ok := boolField(body, "push_events"); ok {
			h.PushEvents = v
		}
		if v, ok := boolField(body, "issues_events"); ok {
			h.IssuesEvents = v
		}
		if v, ok := boolField(body, "merge_requests_events"); ok {
			h.MergeRequestsEvents = v
		}
		if v, ok := boolField(body, "tag_push_events"); ok {
			h.TagPushEvents = v
		}
		writeJSON(w, http.StatusOK, hookJSON(h))
		return
	}
	writeError(w, http.StatusNotFound, "404 Hook Not Found")
}

func (s *Server) deleteHook(w http.ResponseWriter, r *http.Request) {
	_, projectID, ok := s.projectHooks(w, r)
	if !ok {
		return
	}
	hookID, _ := strconv.Atoi(chi.URLParam(r, "hookID"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, h := range s.hooks[projectID] {
		if h.ID == hookID {
			s.hooks[projectID] = append(s.hooks[projectID][:i], s.hooks[projectID][i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "404 Hook Not Found")
}
