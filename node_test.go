package astar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Root(t *testing.T) {
	n, err := NewRoot[hop, edge](hop{at: "S"}, 2.5)
	require.NoError(t, err)

	assert.True(t, n.IsRoot())
	assert.False(t, n.IsZero())
	assert.Equal(t, 0, n.Depth())
	assert.Equal(t, 2.5, n.PathCost())
	_, ok := n.Action()
	assert.False(t, ok)
	_, ok = n.Parent()
	assert.False(t, ok)
	assert.Empty(t, n.Solution())
	assert.Len(t, n.Path(), 1)
	assert.Equal(t, 1, n.Tree().Len())
}

func TestNode_Expand(t *testing.T) {
	g := detourGraph()
	r := root(t, "S")

	children, err := r.Expand(g)
	require.NoError(t, err)
	require.Len(t, children, 2)

	assert.Equal(t, "A", children[0].State().Key())
	assert.Equal(t, 5.0, children[0].PathCost())
	assert.Equal(t, "B", children[1].State().Key())
	assert.Equal(t, 1.0, children[1].PathCost())

	for _, c := range children {
		assert.Equal(t, 1, c.Depth())
		parent, ok := c.Parent()
		require.True(t, ok)
		assert.Equal(t, r, parent)
		action, ok := c.Action()
		require.True(t, ok)
		assert.Equal(t, c.State().Key(), action.to)
	}

	t.Run("Expanding twice leaves the parent unchanged", func(t *testing.T) {
		again, err := r.Expand(g)
		require.NoError(t, err)
		assert.Len(t, again, 2)
		assert.True(t, r.IsRoot())
		assert.Equal(t, 0.0, r.PathCost())
		assert.Equal(t, 5, r.Tree().Len())
	})

	t.Run("Path and solution", func(t *testing.T) {
		grand, err := children[1].Expand(g)
		require.NoError(t, err)
		a := grand[0]
		assert.Equal(t, []string{"S", "B", "A"}, keys(a.Path()))
		assert.Equal(t, []edge{{"B", 1}, {"A", 1}}, a.Solution())
		assert.Equal(t, 2.0, a.PathCost())
	})
}
