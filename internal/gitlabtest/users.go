package gitlabtest

import (
	"net/http"

	"github.com/stateops/gitlab-state/internal/models"
)

// SeedUser adds a user to the store, assigning an ID when none is set.
func (s *Server) SeedUser(u models.User) *models.User {
	if u.ID == 0 {
		u.ID = s.id()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cu := u
	s.users = append(s.users, &cu)
	return &cu
}

// User returns the stored user with the given ID, or nil.
func (s *Server) User(id int) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func userJSON(u *models.User) map[string]any {
	return map[string]any{
		"id":               u.ID,
		"username":         u.Username,
		"name":             u.Name,
		"email":            u.Email,
		"is_admin":         u.Admin,
		"can_create_group": u.CanCreateGroup,
	}
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	all := make([]*models.User, len(s.users))
	copy(all, s.users)
	s.mu.Unlock()

	start, end, next := pageBounds(r, len(all))
	setPageHeader(w, next)
	out := []map[string]any{}
	for _, u := range all[start:end] {
		out = append(out, userJSON(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "404 User Not Found")
		return
	}
	u := s.User(id)
	if u == nil {
		writeError(w, http.StatusNotFound, "404 User Not Found")
		return
	}
	writeJSON(w, http.StatusOK, userJSON(u))
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	body := s.lastBody()
	if str(body, "username") == "" || str(body, "email") == "" {
		writeError(w, http.StatusBadRequest, "username and email are required")
		return
	}
	u := s.SeedUser(models.User{
		Username: str(body, "username"),
		Name:     str(body, "name"),
		Email:    str(body, "email"),
	})
	if v, ok := boolField(body, "admin"); ok {
		u.Admin = v
	}
	if v, ok := boolField(body, "can_create_group"); ok {
		u.CanCreateGroup = v
	}
	writeJSON(w, http.StatusCreated, userJSON(u))
}

func (s *Server) modifyUser(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	u := s.User(id)
	if u == nil {
		writeError(w, http.StatusNotFound, "404 User Not Found")
		return
	}
	body := s.lastBody()
	s.mu.Lock()
	if v, ok := body["name"].(string); ok {
		u.Name = v
	}
	if v, ok := body["email"].(string); ok {
		u.Email = v
	}
	if v, ok := boolField(body, "admin"); ok {
		u.Admin = v
	}
	if v, ok := boolField(body, "can_create_group"); ok {
		u.CanCreateGroup = v
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, userJSON(u))
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "404 User Not Found")
}
