package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/codex/internal/foundation/errors"
	"git.home.luguber.info/inful/codex/internal/frontmatter"
	"git.home.luguber.info/inful/codex/internal/logfields"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	File     string   `arg:"" help:"Markdown file to create"`
	Path     []string `required:"" sep:"," help:"Comma separated navigation path, root first"`
	Position int      `default:"-1" help:"Ordering position among siblings (negative: none)"`
	Body     string   `help:"Initial document body"`
	Prefix   string   `help:"Opening metadata delimiter (default: ---)"`
	Suffix   string   `help:"Closing metadata delimiter (default: ---)"`
	Force    bool     `help:"Overwrite an existing file"`
}

func (n *NewCmd) Run(g *Global, root *CLI) error {
	cfg, err := LoadConfig(root.Config)
	if err != nil {
		return err
	}
	delims := frontmatter.Delimiters{
		Prefix: firstNonEmpty(n.Prefix, cfg.FrontMatter.Prefix),
		Suffix: firstNonEmpty(n.Suffix, cfg.FrontMatter.Suffix),
	}

	content, err := Scaffold(n.Path, n.Position, n.Body, delims)
	if err != nil {
		return err
	}
	if err := writeNewFile(n.File, content, n.Force); err != nil {
		return err
	}
	g.logger().Info("Document created", logfields.File(n.File), logfields.Breadcrumb(strings.Join(n.Path, " > ")))
	return nil
}

// Scaffold renders a new document; a negative position is omitted.
func Scaffold(path []string, position int, body string, delims frontmatter.Delimiters) ([]byte, error) {
	segments := make([]string, 0, len(path))
	for _, segment := range path {
		if segment = strings.TrimSpace(segment); segment != "" {
			segments = append(segments, segment)
		}
	}
	if len(segments) == 0 {
		return nil, ferrors.ValidationError("path must name at least one segment").Build()
	}

	var pos *int
	if position >= 0 {
		pos = &position
	}
	fields, err := frontmatter.SerializeYAML(frontmatter.Scaffold(segments, pos), frontmatter.Style{})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "serialize metadata").Build()
	}

	var bodyBytes []byte
	if body != "" {
		bodyBytes = []byte(strings.TrimRight(body, "\n") + "\n")
	}
	return frontmatter.Join(fields, bodyBytes, delims, frontmatter.Style{}), nil
}

func writeNewFile(path string, content []byte, force bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create parent directory").
			WithContext("path", path).
			Build()
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	// #nosec G302 G304 -- documentation sources are public and the path is user-provided by design
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ferrors.ValidationError(fmt.Sprintf("file already exists: %s (use --force to overwrite)", path)).Build()
		}
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create document").
			WithContext("path", path).
			Build()
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write document").
			WithContext("path", path).
			Build()
	}
	if err := f.Close(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "close document").
			WithContext("path", path).
			Build()
	}
	return nil
}
