// Package config loads the optional codex YAML configuration file. Values
// from the file sit between command-line flags (and their environment
// variables) and the built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/codex/internal/frontmatter"
)

// CurrentVersion is the configuration schema version written by Init.
const CurrentVersion = "1"

// DefaultFile is the file name Init writes when no path is given.
const DefaultFile = "codex.yaml"

// Config represents the application configuration.
type Config struct {
	Version     string                 `yaml:"version"`
	Repository  RepositoryConfig       `yaml:"repository"`
	Source      SourceConfig           `yaml:"source"`
	FrontMatter frontmatter.Delimiters `yaml:"front_matter"`
	Render      RenderConfig           `yaml:"render"`
	Serve       ServeConfig            `yaml:"serve"`
}

// RepositoryConfig describes the documented repository shown in the page header.
type RepositoryConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	URL         string `yaml:"url,omitempty"`
	Commit      string `yaml:"commit,omitempty"`
}

// SourceConfig selects the markdown files.
type SourceConfig struct {
	Root          string   `yaml:"root"`
	IgnoreFolders []string `yaml:"ignore_folders,omitempty"`
}

// RenderConfig controls HTML generation.
type RenderConfig struct {
	// Style is the chroma style for code blocks.
	Style string `yaml:"style"`
	// Workers bounds concurrent file reads during assembly.
	Workers int `yaml:"workers"`
	// Minify compacts the final document. Nil means true.
	Minify *bool `yaml:"minify,omitempty"`
}

// ShouldMinify reports the effective minify setting.
func (r RenderConfig) ShouldMinify() bool {
	return r.Minify == nil || *r.Minify
}

// ServeConfig configures `codex serve`.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads path, expanding ${VAR} references from the environment, and
// returns the configuration with defaults applied. An empty path yields the
// defaults alone.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes configuration YAML, rejecting unknown keys.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Version != "" && cfg.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported configuration version: %s (expected %s)", cfg.Version, CurrentVersion)
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if path == "" {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	example := Default()
	example.Version = CurrentVersion
	example.Repository.Description = "Project documentation"

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}
	// #nosec G306 -- configuration file is not secret
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
