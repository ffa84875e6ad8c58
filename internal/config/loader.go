package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".coverflat"

// XDGConfigFile is the file name looked up inside XDGConfigDir.
const XDGConfigFile = "config.yaml"

// File represents the structure of the .coverflat configuration file.
// Artifact paths are fixed and cannot be set here.
type File struct {
	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose,omitempty"`

	// LogFormat is "text" or "json".
	LogFormat string `yaml:"logFormat,omitempty"`

	// History configures the coverage history database.
	History HistoryConfig `yaml:"history,omitempty"`
}

// HistoryConfig holds the history section of the configuration file.
type HistoryConfig struct {
	// Enabled records every run without passing --history.
	Enabled bool `yaml:"enabled,omitempty"`

	// Dir overrides the database directory. Defaults to XDGDataDir().
	Dir string `yaml:"dir,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cf, nil
}

// Apply copies the values set in the file onto c. Unset values leave c
// unchanged, so flags applied afterwards take precedence.
func (cf *File) Apply(c *Config) {
	if cf.Verbose {
		c.Verbose = true
	}
	if cf.LogFormat != "" {
		c.LogFormat = cf.LogFormat
	}
	if cf.History.Enabled {
		c.RecordHistory = true
	}
	if cf.History.Dir != "" {
		c.DBDir = cf.History.Dir
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .coverflat in the current directory
// 3. Look for config.yaml in XDGConfigDir()
// 4. Look for .coverflat in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), XDGConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
