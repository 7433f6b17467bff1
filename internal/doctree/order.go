package doctree

import (
	"cmp"
	"maps"
	"slices"
)

// Compare orders siblings: nodes with a position come first in ascending
// position order, the rest follow in ascending title order.
func Compare(a, b *Node) int {
	switch {
	case a.Position != nil && b.Position != nil:
		return cmp.Compare(*a.Position, *b.Position)
	case a.Position != nil:
		return -1
	case b.Position != nil:
		return 1
	default:
		return cmp.Compare(a.Title, b.Title)
	}
}

// SortedChildren returns n's children in rendering order.
//
// Children are first laid out by segment key and then stable-sorted with
// Compare, so siblings that compare equal (same position, or same title)
// keep segment-key order on every run.
func SortedChildren(n *Node) []*Node {
	keys := slices.Sorted(maps.Keys(n.Children))
	children := make([]*Node, 0, len(keys))
	for _, key := range keys {
		children = append(children, n.Children[key])
	}
	slices.SortStableFunc(children, Compare)
	return children
}

// Walk visits every node below root depth-first in rendering order, parents
// before children. Returning an error from fn stops the walk.
func Walk(root *Node, fn func(*Node) error) error {
	for _, child := range SortedChildren(root) {
		if err := fn(child); err != nil {
			return err
		}
		if err := Walk(child, fn); err != nil {
			return err
		}
	}
	return nil
}
