package envtool

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tool host configuration.
type Config struct {
	// Transport selects how the MCP server is exposed: "stdio", "http"
	// or "quic".
	Transport string `yaml:"transport"`

	HTTPAddr string `yaml:"http_addr"`
	QUICAddr string `yaml:"quic_addr"`

	// TLSCert/TLSKey are PEM file paths for the QUIC transport. When empty
	// a self-signed certificate is generated at startup.
	TLSCert string `yaml:"tls_cert"`
	TLSKey  string `yaml:"tls_key"`

	// AuthTokenHash is a bcrypt hash; when set, HTTP requests must carry
	// the matching bearer token.
	AuthTokenHash string `yaml:"auth_token_hash"`

	// AuditDB enables the SQLite invocation trail when non-empty.
	AuditDB string `yaml:"audit_db"`

	LogLevel string `yaml:"log_level"`
}

func (c *Config) defaults() {
	if c.Transport == "" {
		c.Transport = "stdio"
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8085"
	}
	if c.QUICAddr == "" {
		c.QUICAddr = ":9444"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate rejects unknown transports early, before any listener is opened.
func (c *Config) Validate() error {
	switch c.Transport {
	case "stdio", "http", "quic":
		return nil
	default:
		return fmt.Errorf("envtool: unknown transport %q", c.Transport)
	}
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

// LoadConfigFile reads a YAML config file and applies defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("envtool: parse config: %w", err)
	}
	cfg.defaults()
	return cfg, nil
}
