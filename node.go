package astar

import (
	"fmt"
	"math"

	"github.com/pdrpinto/astar-hanoi/internal"
)

// Tree is the arena backing one search tree. Nodes are appended to it and
// never modified afterwards; a node refers to its parent by index, so the
// parent chain is acyclic by construction.
type Tree[S State, A any] struct {
	records []record[S, A]
}

type record[S State, A any] struct {
	state     S
	action    A
	hasAction bool
	parent    int
	pathCost  float64
	depth     int
}

// Len returns the number of nodes allocated in the tree.
func (t *Tree[S, A]) Len() int { return len(t.records) }

func (t *Tree[S, A]) add(r record[S, A]) Node[S, A] {
	t.records = append(t.records, r)
	return Node[S, A]{tree: t, id: len(t.records) - 1}
}

// Node is a read-only handle on a vertex of a search Tree. The zero Node
// refers to nothing; see IsZero.
type Node[S State, A any] struct {
	tree *Tree[S, A]
	id   int
}

// NewRoot starts a new search tree whose root holds state and cost.
func NewRoot[S State, A any](state S, cost float64) (Node[S, A], error) {
	if err := checkCost(cost); err != nil {
		return Node[S, A]{}, err
	}
	tree := &Tree[S, A]{}
	return tree.add(record[S, A]{state: state, parent: -1, pathCost: cost}), nil
}

func checkCost(cost float64) error {
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidCost, cost)
	}
	return nil
}

func (n Node[S, A]) record() *record[S, A] { return &n.tree.records[n.id] }

// IsZero reports whether n is the zero Node.
func (n Node[S, A]) IsZero() bool { return n.tree == nil }

// Tree returns the arena n belongs to.
func (n Node[S, A]) Tree() *Tree[S, A] { return n.tree }

func (n Node[S, A]) State() S { return n.record().state }

// PathCost is the accumulated cost from the root to n.
func (n Node[S, A]) PathCost() float64 { return n.record().pathCost }

func (n Node[S, A]) Depth() int { return n.record().depth }

func (n Node[S, A]) IsRoot() bool { return n.record().parent < 0 }

// Action returns the action that produced n. The root has none.
func (n Node[S, A]) Action() (A, bool) {
	r := n.record()
	return r.action, r.hasAction
}

// Parent returns the node n was expanded from.
func (n Node[S, A]) Parent() (Node[S, A], bool) {
	p := n.record().parent
	if p < 0 {
		return Node[S, A]{}, false
	}
	return Node[S, A]{tree: n.tree, id: p}, true
}

// Expand returns one child per action problem offers in n's state, in the
// order the actions were returned. n itself is left untouched.
func (n Node[S, A]) Expand(problem Problem[S, A]) ([]Node[S, A], error) {
	r := *n.record()
	actions := problem.Actions(r.state)
	children := make([]Node[S, A], 0, len(actions))
	for _, action := range actions {
		child, err := n.child(problem, r, action)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func (n Node[S, A]) child(problem Problem[S, A], parent record[S, A], action A) (Node[S, A], error) {
	next, err := problem.Result(parent.state, action)
	if err != nil {
		return Node[S, A]{}, fmt.Errorf("%w: %v from %q: %w", ErrIllegalAction, action, parent.state.Key(), err)
	}
	cost := problem.PathCost(parent.pathCost, next)
	if err := checkCost(cost); err != nil {
		return Node[S, A]{}, err
	}
	return n.tree.add(record[S, A]{
		state:     next,
		action:    action,
		hasAction: true,
		parent:    n.id,
		pathCost:  cost,
		depth:     parent.depth + 1,
	}), nil
}

// Path returns the nodes from the root down to n, inclusive.
func (n Node[S, A]) Path() []Node[S, A] {
	ids := internal.Lineage(n.id, func(id int) int { return n.tree.records[id].parent })
	path := make([]Node[S, A], len(ids))
	for i, id := range ids {
		path[i] = Node[S, A]{tree: n.tree, id: id}
	}
	return path
}

// Solution returns the actions leading from the root to n. It is empty for
// the root.
func (n Node[S, A]) Solution() []A {
	path := n.Path()
	actions := make([]A, 0, len(path)-1)
	for _, node := range path[1:] {
		actions = append(actions, node.record().action)
	}
	return actions
}
