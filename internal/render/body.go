package render

import (
	"fmt"
	"html"
	"strings"

	"git.home.luguber.info/inful/codex/internal/doctree"
)

// maxHeadingLevel is the deepest HTML heading.
const maxHeadingLevel = 6

// Converter turns a markdown body into an HTML fragment.
type Converter interface {
	Convert(src string) (string, error)
}

// Body renders every node as a heading followed by its source link and
// converted content, in navigation order.
type Body struct {
	// RepoURL prefixes "view source" links; links are emitted whenever a node
	// has a source file, even if RepoURL is empty.
	RepoURL   string
	Converter Converter
}

// Render emits the body fragment for root. Root has no heading of its own.
func (r Body) Render(root *doctree.Node) (string, error) {
	var b strings.Builder
	if err := r.writeChildren(&b, root, 1); err != nil {
		return "", err
	}
	return b.String(), nil
}

// SourceURL returns the browsable location of a file in the repository.
func SourceURL(repoURL, sourceFile string) string {
	return repoURL + "/blob/main/" + sourceFile
}

func (r Body) writeChildren(b *strings.Builder, n *doctree.Node, depth int) error {
	for _, child := range doctree.SortedChildren(n) {
		if err := r.writeNode(b, child, depth); err != nil {
			return err
		}
	}
	return nil
}

func (r Body) writeNode(b *strings.Builder, n *doctree.Node, depth int) error {
	level := min(depth, maxHeadingLevel)
	fmt.Fprintf(b, `<h%d id="%s">%s</h%d>`, level, attrEscaper.Replace(n.ID()), html.EscapeString(n.Title), level)

	if n.SourceFile != "" {
		fmt.Fprintf(b, `<a class="view-source" href="%s">View source</a>`,
			html.EscapeString(SourceURL(r.RepoURL, n.SourceFile)))
	}

	if n.Content != nil {
		converted, err := r.Converter.Convert(*n.Content)
		if err != nil {
			return fmt.Errorf("convert %q: %w", n.Breadcrumb, err)
		}
		b.WriteString(converted)
	}

	return r.writeChildren(b, n, depth+1)
}
