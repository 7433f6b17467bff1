package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
)

// Validate checks a configuration after defaults are applied.
func Validate(cfg *Config) error {
	var errs []error
	if cfg.Render.Workers < 0 {
		errs = append(errs, fmt.Errorf("render.workers must be positive, got %d", cfg.Render.Workers))
	}
	if !KnownStyle(cfg.Render.Style) {
		errs = append(errs, fmt.Errorf("render.style %q is not a known chroma style", cfg.Render.Style))
	}
	if strings.ContainsAny(cfg.FrontMatter.Prefix, "\r\n") || strings.ContainsAny(cfg.FrontMatter.Suffix, "\r\n") {
		errs = append(errs, errors.New("front_matter delimiters must be single-line"))
	}
	for i, folder := range cfg.Source.IgnoreFolders {
		if strings.TrimSpace(folder) == "" {
			errs = append(errs, fmt.Errorf("source.ignore_folders[%d] is empty", i))
		}
	}
	return errors.Join(errs...)
}

// KnownStyle reports whether chroma ships a style with this name.
func KnownStyle(name string) bool {
	_, ok := styles.Registry[strings.ToLower(name)]
	return ok
}
