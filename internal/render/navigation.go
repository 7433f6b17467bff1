// Package render turns a documentation tree into the navigation and body
// HTML fragments embedded in the final page.
package render

import (
	"html"
	"strings"

	"git.home.luguber.info/inful/codex/internal/doctree"
)

// attrEscaper escapes anchor ids for a double-quoted attribute. The ">" of
// the breadcrumb separator is kept literally so fragments match the id.
var attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&#34;")

// Navigation renders root's children as nested lists of anchor links. The
// root itself never appears; an empty tree yields "<ul></ul>".
func Navigation(root *doctree.Node) string {
	var b strings.Builder
	writeNavigation(&b, root)
	return b.String()
}

func writeNavigation(b *strings.Builder, n *doctree.Node) {
	b.WriteString("<ul>")
	for _, child := range doctree.SortedChildren(n) {
		b.WriteString(`<li><a href="#`)
		b.WriteString(attrEscaper.Replace(child.ID()))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(child.Title))
		b.WriteString("</a>")
		if child.HasChildren() {
			writeNavigation(b, child)
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
}
