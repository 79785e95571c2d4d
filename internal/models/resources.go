package models

// Project is the managed view of a GitLab project. Enabled is the
// inverse of GitLab's archived flag.
type Project struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	Path              string `json:"path"`
	PathWithNamespace string `json:"path_with_namespace"`
	Description       string `json:"description"`
	Enabled           bool   `json:"enabled"`
	DefaultBranch     string `json:"default_branch"`
	WebURL            string `json:"web_url"`
}

// Namespace is the group or user namespace a project lives under.
type Namespace struct {
	ID       int    `json:"id"`
	Path     string `json:"path"`
	FullPath string `json:"full_path"`
	Kind     string `json:"kind"`
}

// User is the managed view of a GitLab user account.
type User struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Admin          bool   `json:"admin"`
	CanCreateGroup bool   `json:"can_create_group"`
}

// Hook is a project webhook, identified within its project by URL.
type Hook struct {
	ID                  int    `json:"id"`
	ProjectID           int    `json:"project_id"`
	URL                 string `json:"url"`
	PushEvents          bool   `json:"push_events"`
	IssuesEvents        bool   `json:"issues_events"`
	MergeRequestsEvents bool   `json:"merge_requests_events"`
	TagPushEvents       bool   `json:"tag_push_events"`
}

// DeployKey is a project deploy key, identified within its project by
// title. Key material is immutable once added.
type DeployKey struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Key     string `json:"key"`
	CanPush bool   `json:"can_push"`
}

// Branch is a repository branch. CommitSHA is the head commit.
type Branch struct {
	Name      string `json:"name"`
	CommitSHA string `json:"commit_sha"`
	Protected bool   `json:"protected"`
	Default   bool   `json:"default"`
}
