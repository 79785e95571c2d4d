package gitlabtest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stateops/gitlab-state/internal/models"
)

// SeedDeployKey adds a deploy key to a project's store.
func (s *Server) SeedDeployKey(projectID int, k models.DeployKey) *models.DeployKey {
	if k.ID == 0 {
		k.ID = s.id()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ck := k
	s.deployKeys[projectID] = append(s.deployKeys[projectID], &ck)
	return &ck
}

func deployKeyJSON(k *models.DeployKey) map[string]any {
	return map[string]any{
		"id":       k.ID,
		"title":    k.Title,
		"key":      k.Key,
		"can_push": k.CanPush,
	}
}

func (s *Server) projectDeployKeys(w http.ResponseWriter, r *http.Request) ([]*models.DeployKey, int, bool) {
	id, _ := pathID(r)
	if s.Project(id) == nil {
		writeError(w, http.StatusNotFound, "404 Project Not Found")
		return nil, 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deployKeys[id], id, true
}

func (s *Server) listDeployKeys(w http.ResponseWriter, r *http.Request) {
	keys, _, ok := s.projectDeployKeys(w, r)
	if !ok {
		return
	}
	start, end, next := pageBounds(r, len(keys))
	setPageHeader(w, next)
	out := []map[string]any{}
	for _, k := range keys[start:end] {
		out = append(out, deployKeyJSON(k))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) addDeployKey(w http.ResponseWriter, r *http.Request) {
	_, projectID, ok := s.projectDeployKeys(w, r)
	if !ok {
		return
	}
	body := s.lastBody()
	if str(body, "title") == "" || str(body, "key") == "" {
		writeError(w, http.StatusBadRequest, "title and key are required")
		return
	}
	k := models.DeployKey{Title: str(body, "title"), Key: str(body, "key")}
	if v, ok := boolField(body, "can_push"); ok {
		k.CanPush = v
	}
	writeJSON(w, http.StatusCreated, deployKeyJSON(s.SeedDeployKey(projectID, k)))
}

func (s *Server) updateDeployKey(w http.ResponseWriter, r *http.Request) {
	keys, _, ok := s.projectDeployKeys(w, r)
	if !ok {
		return
	}
	keyID, _ := strconv.Atoi(chi.URLParam(r, "keyID"))
	body := s.lastBody()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		if k.ID != keyID {
			continue
		}
		if v, ok := body["title"].(string); ok {
			k.Title = v
		}
		if v, ok := boolField(body, "can_push"); ok {
			k.CanPush = v
		}
		writeJSON(w, http.StatusOK, deployKeyJSON(k))
		return
	}
	writeError(w, http.StatusNotFound, "404 Deploy Key Not Found")
}

func (s *Server) deleteDeployKey(w http.ResponseWriter, r *http.Request) {
	_, projectID, ok := s.projectDeployKeys(w, r)
	if !ok {
		return
	}
	keyID, _ := strconv.Atoi(chi.URLParam(r, "keyID"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, k := range s.deployKeys[projectID] {
		if k.ID == keyID {
			s.deployKeys[projectID] = append(s.deployKeys[projectID][:i], s.deployKeys[projectID][i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "404 Deploy Key Not Found")
}
