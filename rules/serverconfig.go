package rules

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// ServerConfig carries the ambient runtime knobs that aren't part of any
// one rule and so don't belong in the INI rule dialect: listen address,
// backend selection, resource bounds, and the fail-open/fail-closed policy
// toggle. It is parsed from an optional YAML file alongside the primary
// rule input.
type ServerConfig struct {
	ListenAddr      string        `yaml:"listen"`
	Backend         string        `yaml:"backend"`
	BackendDSN      string        `yaml:"backendDSN"`
	MaxLineBytes    int           `yaml:"maxLineBytes"`
	MaxConnections  int           `yaml:"maxConnections"`
	AcceptRateLimit float64       `yaml:"acceptRateLimit"`
	ShutdownGrace   time.Duration `yaml:"shutdownGrace"`
	FailOpen        bool          `yaml:"failOpen"`
}

// DefaultServerConfig returns the zero-value-safe defaults used when no
// YAML config file is given at all.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:     ":7000",
		Backend:        "memory",
		MaxLineBytes:   8 * 1024,
		MaxConnections: 0,
		ShutdownGrace:  5 * time.Second,
		FailOpen:       true,
	}
}

// LoadServerConfig reads and merges a YAML ServerConfig over the defaults.
// An empty path is not an error -- it simply means "use the defaults".
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if path == "" {
		return cfg, nil
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return ServerConfig{}, &ConfigError{Kind: "config.parse", Message: err.Error()}
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return ServerConfig{}, &ConfigError{Kind: "config.parse", Message: err.Error()}
	}
	return cfg, nil
}
