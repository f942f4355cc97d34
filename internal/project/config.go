package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Default values applied to unset config fields. The port matches the
// Flask development server the tracker historically ran on.
const (
	DefaultPort  = 5000
	DefaultImage = "python:3.12-slim"
)

// Config is the optional per-project configuration, read from
// worklog.json at the project root. Every field overrides one launcher
// or container-mode default; an absent file means all defaults.
type Config struct {
	// Venv is the virtual environment directory name.
	Venv string `json:"venv,omitempty"`

	// Requirements is the dependency manifest file name.
	Requirements string `json:"requirements,omitempty"`

	// Entrypoint is the application entry point script.
	Entrypoint string `json:"entrypoint,omitempty"`

	// Port is the TCP port the application serves on.
	Port int `json:"port,omitempty"`

	// Image is the container image used by container mode.
	Image string `json:"image,omitempty"`
}

// Find locates the project config file. Both worklog.json and the
// hidden .worklog.json are accepted, in that order of preference.
// Returns "" when neither exists — a missing config is not an error.
func Find(projectDir string) string {
	candidates := []string{
		filepath.Join(projectDir, "worklog.json"),
		filepath.Join(projectDir, ".worklog.json"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads and parses a config file. Comments and trailing commas are
// stripped before parsing, so the file may be JSONC.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse project config %s: %w", path, err)
	}

	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("project config %s: port %d out of range", path, cfg.Port)
	}

	return &cfg, nil
}

// LoadOrDefault resolves the effective config for a project: the parsed
// file when one exists, otherwise a zero Config. ApplyDefaults is
// called either way, so callers always see fully populated fields.
func LoadOrDefault(projectDir string) (*Config, error) {
	path := Find(projectDir)
	if path == "" {
		cfg := &Config{}
		cfg.ApplyDefaults()
		return cfg, nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills unset fields with the package defaults.
func (c *Config) ApplyDefaults() {
	if c.Venv == "" {
		c.Venv = "venv"
	}
	if c.Requirements == "" {
		c.Requirements = "requirements.txt"
	}
	if c.Entrypoint == "" {
		c.Entrypoint = "module/main.py"
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Image == "" {
		c.Image = DefaultImage
	}
}
