package models

// Desired-state specs. Pointer fields are optional: nil means the field
// is not managed and never participates in a diff or an update.

// ProjectSpec describes a desired project. Path is the resolution key,
// either "namespace/path" or a bare path in the session's namespace.
type ProjectSpec struct {
	Path        string  `yaml:"path"`
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
	Enabled     *bool   `yaml:"enabled"`
}

// UserSpec describes a desired user account, keyed by username.
// Password is write-only: it cannot be read back, so when set it is
// always forwarded on update.
type UserSpec struct {
	Username       string  `yaml:"username"`
	Name           *string `yaml:"name"`
	Email          *string `yaml:"email"`
	Password       *string `yaml:"password"`
	Admin          *bool   `yaml:"admin"`
	CanCreateGroup *bool   `yaml:"can_create_group"`
}

// HookSpec describes a desired project webhook, keyed by URL within the
// project given by ID or namespace/path.
type HookSpec struct {
	Project             string `yaml:"project"`
	URL                 string `yaml:"url"`
	PushEvents          *bool  `yaml:"push_events"`
	IssuesEvents        *bool  `yaml:"issues_events"`
	MergeRequestsEvents *bool  `yaml:"merge_requests_events"`
	TagPushEvents       *bool  `yaml:"tag_push_events"`
}

// DeployKeySpec describes a desired deploy key, keyed by title within
// its project. Key is required when the key has to be created.
type DeployKeySpec struct {
	Project string `yaml:"project"`
	Title   string `yaml:"title"`
	Key     string `yaml:"key"`
	CanPush *bool  `yaml:"can_push"`
}

// BranchSpec describes a desired branch. Ref is the starting point
// (branch name, tag, or commit SHA) used only at creation time.
type BranchSpec struct {
	Project string `yaml:"project"`
	Name    string `yaml:"name"`
	Ref     string `yaml:"ref"`
}
