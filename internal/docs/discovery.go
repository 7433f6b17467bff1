// Package docs finds the markdown files a documentation tree is assembled from.
package docs

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	derrors "git.home.luguber.info/inful/codex/internal/docs/errors"
	"git.home.luguber.info/inful/codex/internal/logfields"
)

// MarkdownExtension is the only extension picked up by discovery.
const MarkdownExtension = ".md"

// DefaultIgnoreFolders are skipped unless the caller replaces the list.
var DefaultIgnoreFolders = []string{
	".git/", ".svn/", ".hg/",
	"build/", "dist/", "out/", "bin/", "target/",
	".idea/", ".vscode/", ".vs/", ".eclipse/",
	"node_modules/",
}

// MergeIgnoreFolders returns the defaults plus extra, trimmed, sorted and without duplicates.
func MergeIgnoreFolders(extra []string) []string {
	merged := slices.Clone(DefaultIgnoreFolders)
	for _, folder := range extra {
		if folder = strings.TrimSpace(folder); folder != "" {
			merged = append(merged, folder)
		}
	}
	slices.Sort(merged)
	return slices.Compact(merged)
}

// Discovery walks a root directory for markdown files.
type Discovery struct {
	root    string
	matcher *ignore.GitIgnore
	logger  *slog.Logger
}

// NewDiscovery prepares a walk of root skipping the given folders. Folder
// entries use gitignore syntax; entries that are not anchored with a leading
// "/" match at any depth, so "build/" also skips "docs/build/".
func NewDiscovery(root string, ignoreFolders []string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{
		root:    root,
		matcher: ignore.CompileIgnoreLines(ignorePatterns(ignoreFolders)...),
		logger:  logger,
	}
}

func ignorePatterns(folders []string) []string {
	patterns := make([]string, 0, len(folders))
	for _, folder := range folders {
		folder = strings.TrimSpace(filepath.ToSlash(folder))
		switch {
		case folder == "":
			continue
		case strings.HasPrefix(folder, "/"), strings.HasPrefix(folder, "**/"), strings.HasPrefix(folder, "!"):
			patterns = append(patterns, folder)
		default:
			patterns = append(patterns, "**/"+folder)
		}
	}
	return patterns
}

// Discover returns the markdown files under root as slash-separated paths
// relative to root, sorted lexically.
func Discover(root string, ignoreFolders []string) ([]string, error) {
	return NewDiscovery(root, ignoreFolders, nil).Files()
}

// Files walks the root. Unreadable entries are logged and skipped.
func (d *Discovery) Files() ([]string, error) {
	info, err := os.Stat(d.root)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: %s", derrors.ErrRootNotFound, d.root)
	case err != nil:
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrDocsDirWalkFailed, d.root, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s", derrors.ErrRootNotDirectory, d.root)
	}

	var files []string
	err = filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			d.logger.Debug("Skipping unreadable entry", logfields.Path(path), logfields.Error(walkErr))
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == d.root {
			return nil
		}

		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return fmt.Errorf("%w: %w", derrors.ErrInvalidRelativePath, err)
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if d.matcher.MatchesPath(rel + "/") {
				d.logger.Debug("Ignoring folder", logfields.Path(rel))
				return fs.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() || filepath.Ext(rel) != MarkdownExtension {
			return nil
		}
		if d.matcher.MatchesPath(rel) {
			return nil
		}

		files = append(files, rel)
		d.logger.Debug("Discovered file", logfields.File(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrDocsDirWalkFailed, d.root, err)
	}

	slices.Sort(files)
	d.logger.Info("Markdown files discovered", logfields.Path(d.root), logfields.Count(len(files)))
	return files, nil
}
