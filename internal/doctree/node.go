// Package doctree merges the paths declared by individual markdown files into
// one documentation hierarchy and defines the sibling ordering and anchor
// scheme shared by every renderer.
package doctree

import "strings"

// BreadcrumbSeparator joins path segments into a breadcrumb.
const BreadcrumbSeparator = " > "

// Node is one entry in the documentation hierarchy. Each parent exclusively
// owns its children; keys are path segments matched case-sensitively.
type Node struct {
	Title      string
	Breadcrumb string
	Children   map[string]*Node
	// Content is nil unless the node is the terminal segment of at least one file's path.
	Content *string
	Depth   int
	// Position is the optional explicit ordering hint.
	Position *int
	// SourceFile is the slash-separated path relative to the base directory,
	// empty when no file targets the node.
	SourceFile string
}

// NewRoot returns the synthetic, titleless depth-0 root.
func NewRoot() *Node {
	return &Node{Children: make(map[string]*Node)}
}

// IsRoot reports whether n is the synthetic root.
func (n *Node) IsRoot() bool {
	return n.Depth == 0
}

// HasChildren reports whether n has at least one child.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// ID returns the node's anchor identifier.
func (n *Node) ID() string {
	return AnchorID(n.Breadcrumb)
}

// child returns the child keyed by segment, creating it when missing. A new
// child is titled after its segment and carries no content or position.
func (n *Node) child(segment string) *Node {
	if c, ok := n.Children[segment]; ok {
		return c
	}
	breadcrumb := segment
	if !n.IsRoot() {
		breadcrumb = n.Breadcrumb + BreadcrumbSeparator + segment
	}
	c := &Node{
		Title:      segment,
		Breadcrumb: breadcrumb,
		Children:   make(map[string]*Node),
		Depth:      n.Depth + 1,
	}
	n.Children[segment] = c
	return c
}

// AnchorID derives the in-page identifier for a breadcrumb: lowercased, with
// every space replaced by "-". The ">" separators are kept as they are.
//
//	AnchorID("Getting Started > Configuration") == "getting-started->-configuration"
func AnchorID(breadcrumb string) string {
	return strings.ToLower(strings.ReplaceAll(breadcrumb, " ", "-"))
}

// Lookup follows segments from n and returns the node reached, if any.
func (n *Node) Lookup(segments ...string) (*Node, bool) {
	current := n
	for _, segment := range segments {
		next, ok := current.Children[segment]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}
