package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stateops/gitlab-state/internal/models"
)

// Config holds all configuration (CLI flags + config file). Flags take
// precedence over file values, file values over defaults.
type Config struct {
	Manifest string `yaml:"-"`
	Profile  string `yaml:"profile"`

	// Connection overrides from flags.
	URL      string `yaml:"-"`
	User     string `yaml:"-"`
	Password string `yaml:"-"`
	Token    string `yaml:"-"`
	Insecure bool   `yaml:"-"`

	// Named connection profiles from the config file.
	Profiles map[string]models.Connection `yaml:"profiles"`

	configFile string
}

// Parse reads CLI flags, then overlays config file values.
func Parse() (*Config, error) {
	c := &Config{}
	flag.StringVar(&c.configFile, "config", "", "Path to config file (YAML)")
	flag.StringVar(&c.Manifest, "manifest", "", "Path to desired-state manifest (YAML)")
	flag.StringVar(&c.Profile, "profile", "", "Connection profile name from the config file")
	flag.StringVar(&c.URL, "url", "", "GitLab base URL")
	flag.StringVar(&c.User, "user", "", "GitLab username (password auth)")
	flag.StringVar(&c.Password, "password", "", "GitLab password (password auth)")
	flag.StringVar(&c.Token, "token", "", "GitLab API token (wins over user/password)")
	flag.BoolVar(&c.Insecure, "insecure", false, "Skip TLS verification")
	flag.Parse()

	if c.configFile != "" {
		if err := c.loadFile(c.configFile); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// loadFile reads a YAML config file. The selected profile from the file
// applies only when the -profile flag was not set.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if c.Profile == "" {
		c.Profile = file.Profile
	}
	c.Profiles = file.Profiles
	return nil
}

// Connection resolves the effective connection: the selected profile (if
// any) overlaid with flag values. URL is required; the token wins over
// user/password at session setup.
func (c *Config) Connection() (*models.Connection, error) {
	conn := models.Connection{}
	if c.Profile != "" {
		p, ok := c.Profiles[c.Profile]
		if !ok {
			return nil, fmt.Errorf("unknown profile %q", c.Profile)
		}
		conn = p
	}
	if c.URL != "" {
		conn.URL = c.URL
	}
	if c.User != "" {
		conn.User = c.User
	}
	if c.Password != "" {
		conn.Password = c.Password
	}
	if c.Token != "" {
		conn.Token = c.Token
	}
	if c.Insecure {
		conn.Insecure = true
	}
	if conn.URL == "" {
		return nil, fmt.Errorf("no GitLab URL configured (use -url or a profile)")
	}
	return &conn, nil
}
