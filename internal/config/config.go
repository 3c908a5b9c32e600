package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the gist proxy
type Config struct {
	// Server configuration
	HTTPPort    int    `env:"GISTPROXY_HTTP_PORT" envDefault:"8080"`
	OpsPort     int    `env:"GISTPROXY_OPS_PORT" envDefault:"9102"`
	GRPCPort    int    `env:"GISTPROXY_GRPC_PORT" envDefault:"9090"`
	GRPCEnabled bool   `env:"GISTPROXY_GRPC_ENABLED" envDefault:"true"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Upstream configuration
	GitHub GitHubConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// GitHubConfig holds the upstream gists API configuration
type GitHubConfig struct {
	APIURL    string        `env:"GITHUB_API_URL" envDefault:"https://api.github.com"`
	Timeout   time.Duration `env:"GITHUB_TIMEOUT" envDefault:"10s"`
	UserAgent string        `env:"GITHUB_USER_AGENT" envDefault:"gistproxy"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	ReadHeaderTimeout time.Duration `env:"TIMEOUT_READ_HEADER" envDefault:"10s"`
	ShutdownTimeout   time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.OpsPort < 1 || c.OpsPort > 65535 {
		return fmt.Errorf("invalid ops port: %d", c.OpsPort)
	}
	if c.GRPCEnabled && (c.GRPCPort < 1 || c.GRPCPort > 65535) {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPCPort)
	}
	if c.OpsPort == c.HTTPPort {
		return fmt.Errorf("ops port must differ from HTTP port: %d", c.OpsPort)
	}

	u, err := url.Parse(c.GitHub.APIURL)
	if err != nil {
		return fmt.Errorf("invalid GitHub API URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid GitHub API URL scheme: %q", u.Scheme)
	}
	if c.GitHub.Timeout <= 0 {
		return fmt.Errorf("GitHub timeout must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the public HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// GetOpsAddr returns the health and metrics server address
func (c *Config) GetOpsAddr() string {
	return fmt.Sprintf(":%d", c.OpsPort)
}

// GetGRPCAddr returns the gRPC server address
func (c *Config) GetGRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}
