// internal/config/config.go
//
// This package handles configuration and the .parley directory
// structure. Every project that uses Parley gets a .parley/ folder in
// its root holding the config file, the case database and the logs.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// ParleyDir is the name of the directory we create in each project.
	ParleyDir = ".parley"

	configFileName = "config.yaml"

	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.4
	defaultAPIKeyEnv   = "OPENAI_API_KEY"
)

const defaultProjectConfigYAML = `# parley project configuration
version: 1

# Chat completion model used for all generation stages.
model: gpt-4o-mini

# Sampling temperature for generation calls.
temperature: 0.4

# Environment variable holding the API key. The key itself never lives
# in this file.
api_key_env: OPENAI_API_KEY

# Optional OpenAI-compatible endpoint override.
# base_url: http://localhost:11434/v1
`

// ProjectConfig models .parley/config.yaml.
type ProjectConfig struct {
	Version     int     `yaml:"version"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	BaseURL     string  `yaml:"base_url,omitempty"`
}

// Config holds the runtime configuration for Parley.
type Config struct {
	// ProjectDir is the directory where the user ran `parley` from.
	ProjectDir string

	// ParleyProjectDir is ProjectDir/.parley.
	ParleyProjectDir string

	Project ProjectConfig
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version:     1,
		Model:       defaultModel,
		Temperature: defaultTemperature,
		APIKeyEnv:   defaultAPIKeyEnv,
	}
}

// InitParleyDir creates the .parley directory structure in the given
// project directory. Called on startup.
//
// Structure created:
// .parley/
// ├── data/       <- BadgerDB case store
// ├── logs/       <- Activity log
// └── config.yaml
func InitParleyDir(projectDir string) error {
	parleyDir := filepath.Join(projectDir, ParleyDir)
	dirs := []string{
		filepath.Join(parleyDir, "data"),
		filepath.Join(parleyDir, "logs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	return ensureProjectConfig(filepath.Join(parleyDir, configFileName))
}

// ensureProjectConfig writes the default config file if none exists.
func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644); err != nil {
		return fmt.Errorf("config: write default config: %w", err)
	}
	return nil
}

// NewConfig creates a Config populated from the project's config file,
// falling back to defaults for anything unset.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:       projectDir,
		ParleyProjectDir: filepath.Join(projectDir, ParleyDir),
		Project:          defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadProjectConfig() error {
	path := filepath.Join(c.ParleyProjectDir, configFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	parsed := defaultProjectConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	if parsed.Model == "" {
		parsed.Model = defaultModel
	}
	if parsed.APIKeyEnv == "" {
		parsed.APIKeyEnv = defaultAPIKeyEnv
	}
	c.Project = parsed
	return nil
}

// DataDir returns the path to the case database directory.
func (c *Config) DataDir() string {
	return filepath.Join(c.ParleyProjectDir, "data")
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.ParleyProjectDir, "logs")
}

// APIKey resolves the generation API key from the configured
// environment variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.Project.APIKeyEnv)
}
