// Package markdown converts document bodies to HTML fragments. Code blocks
// are replaced by pre-highlighted HTML before the document is rendered.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Converter renders markdown with tables, strikethrough, footnotes, task
// lists, definition lists, math, smart punctuation and heading attributes.
// A Converter is safe for concurrent use.
type Converter struct {
	md          goldmark.Markdown
	highlighter Highlighter
}

// Option configures a Converter.
type Option func(*Converter)

// WithHighlighter replaces the default chroma highlighter.
func WithHighlighter(h Highlighter) Option {
	return func(c *Converter) {
		if h != nil {
			c.highlighter = h
		}
	}
}

// New returns a Converter highlighting with the DefaultStyle unless configured otherwise.
func New(opts ...Option) *Converter {
	c := &Converter{highlighter: NewChromaHighlighter(DefaultStyle)}
	for _, opt := range opts {
		opt(c)
	}
	c.md = goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			extension.DefinitionList,
			extension.Footnote,
			extension.Typographer,
			Math,
		),
		goldmark.WithParserOptions(parser.WithAttribute()),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(highlightedCodeRenderer{}, 100)),
		),
	)
	return c
}

// Convert renders src to an HTML fragment.
func (c *Converter) Convert(src string) (string, error) {
	source := []byte(src)
	doc := c.md.Parser().Parse(text.NewReader(source))
	if err := newHighlightPass(c.highlighter).run(doc, source); err != nil {
		return "", fmt.Errorf("highlight code blocks: %w", err)
	}

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, source, doc); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
