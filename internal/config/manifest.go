package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stateops/gitlab-state/internal/models"
)

// Target states accepted in a manifest entry.
const (
	StatePresent = "present"
	StateAbsent  = "absent"
)

// ProjectEntry is a project directive in the manifest.
type ProjectEntry struct {
	models.ProjectSpec `yaml:",inline"`
	State              string `yaml:"state"`
}

// UserEntry is a user directive in the manifest.
type UserEntry struct {
	models.UserSpec `yaml:",inline"`
	State           string `yaml:"state"`
}

// HookEntry is a webhook directive in the manifest.
type HookEntry struct {
	models.HookSpec `yaml:",inline"`
	State           string `yaml:"state"`
}

// DeployKeyEntry is a deploy key directive in the manifest.
type DeployKeyEntry struct {
	models.DeployKeySpec `yaml:",inline"`
	State                string `yaml:"state"`
}

// BranchEntry is a branch directive in the manifest.
type BranchEntry struct {
	models.BranchSpec `yaml:",inline"`
	State             string `yaml:"state"`
}

// Manifest is the declarative input: the full desired state for one
// GitLab instance, applied in the order the sections are listed here.
type Manifest struct {
	Projects   []ProjectEntry   `yaml:"projects"`
	Users      []UserEntry      `yaml:"users"`
	Hooks      []HookEntry      `yaml:"hooks"`
	DeployKeys []DeployKeyEntry `yaml:"deploy_keys"`
	Branches   []BranchEntry    `yaml:"branches"`
}

// LoadManifest reads and validates a manifest file. Entries without an
// explicit state default to present.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	states := []*string{}
	for i := range m.Projects {
		states = append(states, &m.Projects[i].State)
	}
	for i := range m.Users {
		states = append(states, &m.Users[i].State)
	}
	for i := range m.Hooks {
		states = append(states, &m.Hooks[i].State)
	}
	for i := range m.DeployKeys {
		states = append(states, &m.DeployKeys[i].State)
	}
	for i := range m.Branches {
		states = append(states, &m.Branches[i].State)
	}
	for _, s := range states {
		switch *s {
		case "":
			*s = StatePresent
		case StatePresent, StateAbsent:
		default:
			return nil, fmt.Errorf("parsing %s: invalid state %q (want present or absent)", path, *s)
		}
	}
	return &m, nil
}
