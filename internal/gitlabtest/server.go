// Package gitlabtest runs an in-process fake of the GitLab API surface
// the accessor touches, backed by in-memory stores. It is shared by the
// gitlab and state test suites.
package gitlabtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/stateops/gitlab-state/internal/models"
)

// Request records one API call for test assertions. Body holds the
// decoded JSON payload of mutating requests.
type Request struct {
	Method string
	Path   string
	Body   map[string]any
}

// Server is the fake GitLab instance. Seed the exported stores before
// issuing requests; mutate them only through the API afterwards.
type Server struct {
	*httptest.Server

	// Token, when set, is required in the PRIVATE-TOKEN header.
	Token string

	mu         sync.Mutex
	nextID     int
	namespaces []*models.Namespace
	projects   []*models.Project
	users      []*models.User
	hooks      map[int][]*models.Hook
	deployKeys map[int][]*models.DeployKey
	branches   map[int][]*models.Branch
	requests   []Request
}

// NewServer starts a fake GitLab API server. Callers own Close.
func NewServer() *Server {
	s := &Server{
		nextID:     1000,
		hooks:      make(map[int][]*models.Hook),
		deployKeys: make(map[int][]*models.DeployKey),
		branches:   make(map[int][]*models.Branch),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Route("/api/v4", func(r chi.Router) {
		r.Get("/version", s.getVersion)
		r.Get("/namespaces", s.listNamespaces)

		r.Get("/projects", s.listProjects)
		r.Post("/projects", s.createProject)
		r.Get("/projects/{id}", s.getProject)
		r.Put("/projects/{id}", s.editProject)
		r.Delete("/projects/{id}", s.deleteProject)
		r.Post("/projects/{id}/archive", s.archiveProject)
		r.Post("/projects/{id}/unarchive", s.unarchiveProject)

		r.Get("/projects/{id}/hooks", s.listHooks)
		r.Post("/projects/{id}/hooks", s.addHook)
		r.Get("/projects/{id}/hooks/{hookID}", s.getHook)
		r.Put("/projects/{id}/hooks/{hookID}", s.editHook)
		r.Delete("/projects/{id}/hooks/{hookID}", s.deleteHook)

		r.Get("/projects/{id}/deploy_keys", s.listDeployKeys)
		r.Post("/projects/{id}/deploy_keys", s.addDeployKey)
		r.Put("/projects/{id}/deploy_keys/{keyID}", s.updateDeployKey)
		r.Delete("/projects/{id}/deploy_keys/{keyID}", s.deleteDeployKey)

		r.Get("/projects/{id}/repository/branches", s.listBranches)
		r.Post("/projects/{id}/repository/branches", s.createBranch)
		r.Get("/projects/{id}/repository/branches/{branch}", s.getBranch)
		r.Delete("/projects/{id}/repository/branches/{branch}", s.deleteBranch)

		r.Get("/users", s.listUsers)
		r.Post("/users", s.createUser)
		r.Get("/users/{id}", s.getUser)
		r.Put("/users/{id}", s.modifyUser)
		r.Delete("/users/{id}", s.deleteUser)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// Connection returns a token connection pointing at this server.
func (s *Server) Connection() *models.Connection {
	token := s.Token
	if token == "" {
		token = "test-token"
	}
	return &models.Connection{URL: s.URL, Token: token}
}

// record logs every request (with decoded JSON body for mutations) and
// enforces the token when one is configured.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := Request{Method: r.Method, Path: r.URL.Path}
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				req.Body = body
			}
			r.Body = http.NoBody
			// handlers read the decoded body from the request log
		}
		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()

		if s.Token != "" && r.Header.Get("PRIVATE-TOKEN") != s.Token {
			writeError(w, http.StatusUnauthorized, "401 Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Requests returns a copy of the request log.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// CountRequests returns how many logged requests match method and path.
func (s *Server) CountRequests(method, path string) int {
	n := 0
	for _, req := range s.Requests() {
		if req.Method == method && req.Path == path {
			n++
		}
	}
	return n
}

// LastBody returns the decoded body of the most recent request matching
// method and path, or nil.
func (s *Server) LastBody(method, path string) map[string]any {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i].Body
		}
	}
	return nil
}

// lastBody is the handlers' view of the payload the record middleware
// already consumed.
func (s *Server) lastBody() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1].Body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// pageBounds applies GitLab-style page/per_page parameters and reports
// the next page (0 when this is the last one).
func pageBounds(r *http.Request, total int) (start, end, next int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = 20
	}
	start = (page - 1) * perPage
	if start > total {
		start = total
	}
	end = start + perPage
	if end >= total {
		return start, total, 0
	}
	return start, end, page + 1
}

func setPageHeader(w http.ResponseWriter, next int) {
	if next > 0 {
		w.Header().Set("x-next-page", strconv.Itoa(next))
	}
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}

func str(body map[string]any, field string) string {
	v, _ := body[field].(string)
	return v
}

func boolField(body map[string]any, field string) (bool, bool) {
	v, ok := body[field].(bool)
	return v, ok
}

func (s *Server) id() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID
}

func (s *Server) getVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": "17.9.0-fake", "revision": "deadbeef"})
}
