// Package frontmatter extracts the metadata header codex reads from each
// markdown file: an ordered `path` list locating the document in the
// hierarchy and an optional integer `position`.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	adrg "github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// DefaultDelimiter opens and closes a metadata block unless configured otherwise.
const DefaultDelimiter = "---"

var (
	// ErrNoFrontMatter indicates the text does not start with the prefix
	// delimiter or the block is never closed.
	ErrNoFrontMatter = errors.New("front matter block not found")

	// ErrMalformedYAML indicates the block content is not a YAML mapping.
	ErrMalformedYAML = errors.New("front matter is not valid yaml")

	// ErrMissingPath indicates the block has no `path` key or an empty one.
	ErrMissingPath = errors.New("front matter path is missing or empty")

	// ErrInvalidPathSegment indicates `path` is not a sequence of strings.
	ErrInvalidPathSegment = errors.New("front matter path must be a list of strings")
)

// Delimiters are the markers around a metadata block. Zero fields fall back
// to DefaultDelimiter.
type Delimiters struct {
	Prefix string `yaml:"prefix"`
	Suffix string `yaml:"suffix"`
}

// DefaultDelimiters returns the `---` / `---` pair.
func DefaultDelimiters() Delimiters {
	return Delimiters{Prefix: DefaultDelimiter, Suffix: DefaultDelimiter}
}

func (d Delimiters) normalized() Delimiters {
	if d.Prefix == "" {
		d.Prefix = DefaultDelimiter
	}
	if d.Suffix == "" {
		d.Suffix = DefaultDelimiter
	}
	return d
}

// Meta is the parsed metadata of one document.
type Meta struct {
	// Title is the last path segment.
	Title string
	// Path holds the declared segments, root first. Never empty.
	Path []string
	// Position is the optional sibling ordering hint.
	Position *int
}

// Breadcrumb joins the path segments with " > ".
func (m Meta) Breadcrumb() string {
	return strings.Join(m.Path, " > ")
}

type rawMeta struct {
	Path     yaml.Node `yaml:"path"`
	Position yaml.Node `yaml:"position"`
}

// Parse reads the metadata block at the very start of content and returns the
// metadata plus the body that follows the closing delimiter, trimmed of
// surrounding whitespace.
//
// A position that is not a non-negative integer is ignored.
func Parse(content []byte, delims Delimiters) (Meta, string, error) {
	delims = delims.normalized()
	if !bytes.HasPrefix(content, []byte(delims.Prefix)) {
		return Meta{}, "", ErrNoFrontMatter
	}

	var raw rawMeta
	format := adrg.NewFormat(delims.Prefix, delims.Suffix, yaml.Unmarshal)
	body, err := adrg.MustParse(bytes.NewReader(content), &raw, format)
	if err != nil {
		if errors.Is(err, adrg.ErrNotFound) {
			return Meta{}, "", ErrNoFrontMatter
		}
		return Meta{}, "", fmt.Errorf("%w: %w", ErrMalformedYAML, err)
	}

	path, err := decodePath(&raw.Path)
	if err != nil {
		return Meta{}, "", err
	}

	meta := Meta{
		Title:    path[len(path)-1],
		Path:     path,
		Position: decodePosition(&raw.Position),
	}
	return meta, strings.TrimSpace(string(body)), nil
}

func decodePath(node *yaml.Node) ([]string, error) {
	if node.IsZero() || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null") {
		return nil, ErrMissingPath
	}
	if node.Kind != yaml.SequenceNode {
		return nil, ErrInvalidPathSegment
	}
	if len(node.Content) == 0 {
		return nil, ErrMissingPath
	}
	segments := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode || item.ShortTag() != "!!str" {
			return nil, fmt.Errorf("%w: got %s at line %d", ErrInvalidPathSegment, item.ShortTag(), item.Line)
		}
		segments = append(segments, item.Value)
	}
	return segments, nil
}

func decodePosition(node *yaml.Node) *int {
	if node.IsZero() || node.Kind != yaml.ScalarNode || node.ShortTag() != "!!int" {
		return nil
	}
	var position int
	if err := node.Decode(&position); err != nil || position < 0 {
		return nil
	}
	return &position
}
