package config

import (
	"git.home.luguber.info/inful/codex/internal/frontmatter"
	"git.home.luguber.info/inful/codex/internal/markdown"
)

// Built-in defaults, matching the flag defaults of `codex build`.
const (
	DefaultRoot     = "."
	DefaultRepoName = "Documentation"
	DefaultWorkers  = 4
	DefaultAddr     = ":8080"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Source.Root == "" {
		cfg.Source.Root = DefaultRoot
	}
	if cfg.Repository.Name == "" {
		cfg.Repository.Name = DefaultRepoName
	}
	if cfg.FrontMatter.Prefix == "" {
		cfg.FrontMatter.Prefix = frontmatter.DefaultDelimiter
	}
	if cfg.FrontMatter.Suffix == "" {
		cfg.FrontMatter.Suffix = frontmatter.DefaultDelimiter
	}
	if cfg.Render.Style == "" {
		cfg.Render.Style = markdown.DefaultStyle
	}
	if cfg.Render.Workers == 0 {
		cfg.Render.Workers = DefaultWorkers
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = DefaultAddr
	}
}
