package models

import "strings"

// Connection holds everything needed to open an authenticated GitLab
// session. Token takes precedence over user/password when both are set.
type Connection struct {
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Token    string `yaml:"token"`
	Insecure bool   `yaml:"insecure"` // skip TLS verification
	CACert   string `yaml:"ca_cert"`  // PEM bundle for private CAs
}

// APIBase returns the API v4 base URL for this connection.
func (c *Connection) APIBase() string {
	return strings.TrimRight(c.URL, "/") + "/api/v4"
}

// HasToken reports whether token authentication should be used.
func (c *Connection) HasToken() bool {
	return c.Token != ""
}
