// Package config loads sdbgen settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all generator configuration.
type Config struct {
	Host      string        `yaml:"host"`
	Namespace string        `yaml:"namespace"`
	Database  string        `yaml:"database"`
	User      string        `yaml:"user"`
	Pass      string        `yaml:"pass,omitempty"`
	Output    string        `yaml:"output"`
	Format    string        `yaml:"format"`
	LogLevel  string        `yaml:"log_level"`
	Timeout   time.Duration `yaml:"timeout"`
	Tables    []string      `yaml:"tables,omitempty"`
	Exclude   []string      `yaml:"exclude,omitempty"`
	Server    ServerConfig  `yaml:"server"`
}

// ServerConfig holds settings of the HTTP generation service.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// MaxBodyBytes limits the size of uploaded structures.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// Environment variables read by ApplyEnv.
const (
	EnvHost      = "SDBGEN_HOST"
	EnvNamespace = "SDBGEN_NAMESPACE"
	EnvDatabase  = "SDBGEN_DATABASE"
	EnvUser      = "SDBGEN_USER"
	EnvPass      = "SDBGEN_PASS"
)

// DefaultConfig returns a Config populated with the generator defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:     "http://localhost:8000",
		User:     "root",
		Pass:     "root",
		Output:   "./models.d.ts",
		Format:   "typescript",
		LogLevel: "warn",
		Timeout:  30 * time.Second,
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 8 << 20,
		},
	}
}

// ConfigDir returns the sdbgen configuration directory path, typically
// ~/.config/sdbgen/.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(base, "sdbgen"), nil
}

// Load reads a Config from the YAML file at path. If the file does not exist,
// it returns DefaultConfig without error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads configuration from ConfigDir()/config.yaml.
func LoadDefault() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(dir, "config.yaml"))
}

// Save writes the Config to the YAML file at path, creating any necessary
// parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ApplyEnv overrides connection settings from SDBGEN_* variables.
func (c *Config) ApplyEnv() {
	c.Host = getenv(EnvHost, c.Host)
	c.Namespace = getenv(EnvNamespace, c.Namespace)
	c.Database = getenv(EnvDatabase, c.Database)
	c.User = getenv(EnvUser, c.User)
	c.Pass = getenv(EnvPass, c.Pass)
}

// Redacted returns a copy safe for printing.
func (c *Config) Redacted() *Config {
	cp := *c
	if cp.Pass != "" {
		cp.Pass = "***"
	}
	return &cp
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}
