package doctree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func titles(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Title)
	}
	return out
}

func TestSortedChildren_PositionedFirst(t *testing.T) {
	root := NewRoot()
	root.child("Zeta").Position = intPtr(2)
	root.child("Alpha")
	root.child("Omega").Position = intPtr(1)
	root.child("Beta")

	assert.Equal(t, []string{"Omega", "Zeta", "Alpha", "Beta"}, titles(SortedChildren(root)))
}

func TestSortedChildren_TiesKeepKeyOrder(t *testing.T) {
	root := NewRoot()
	for _, key := range []string{"c", "a", "b"} {
		root.child(key).Position = intPtr(1)
	}
	for range 10 {
		assert.Equal(t, []string{"a", "b", "c"}, titles(SortedChildren(root)))
	}
}

func TestSortedChildren_TitleOrderIgnoresKey(t *testing.T) {
	root := NewRoot()
	root.child("1").Title = "Second"
	root.child("2").Title = "First"

	assert.Equal(t, []string{"First", "Second"}, titles(SortedChildren(root)))
}

func TestWalk_PreorderSkipsRoot(t *testing.T) {
	root := NewRoot()
	a := root.child("A")
	a.Position = intPtr(0)
	a.child("A2")
	a.child("A1")
	root.child("B")

	var visited []string
	require.NoError(t, Walk(root, func(n *Node) error {
		visited = append(visited, n.Breadcrumb)
		return nil
	}))
	assert.Equal(t, []string{"A", "A > A1", "A > A2", "B"}, visited)
}

func TestWalk_StopsOnError(t *testing.T) {
	root := NewRoot()
	root.child("A").child("child")
	root.child("B")

	stop := errors.New("stop")
	var visited int
	err := Walk(root, func(n *Node) error {
		visited++
		if n.Title == "child" {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 2, visited)
}
