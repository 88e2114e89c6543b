// Package hanoi models the Towers-of-Hanoi puzzle as an astar.Problem.
package hanoi

import (
	"context"
	"fmt"

	"github.com/pdrpinto/astar-hanoi"
)

// Problem asks for a sequence of moves turning Initial into Goal. Each move
// costs one.
type Problem struct {
	astar.Defaults[State]
	Initial State
}

var _ astar.Problem[State, Action] = (*Problem)(nil)

// NewProblem returns the problem of reaching goal from initial.
func NewProblem(initial, goal State) *Problem {
	return &Problem{
		Defaults: astar.Defaults[State]{Goal: &goal},
		Initial:  initial,
	}
}

// NewClassic returns the n-disk problem moving the full stack from peg from
// to peg to. from and to must differ.
func NewClassic(n, pegs, from, to int) (*Problem, error) {
	initial, err := Classic(n, pegs, from)
	if err != nil {
		return nil, err
	}
	if from == to {
		return nil, fmt.Errorf("%w: %d", ErrSamePeg, from)
	}
	goal, err := Classic(n, pegs, to)
	if err != nil {
		return nil, err
	}
	return NewProblem(initial, goal), nil
}

func (p *Problem) Actions(s State) []Action { return Actions(s) }

// Result surfaces Apply failures unchanged; Actions never offers an illegal
// move, so an error here is a defect.
func (p *Problem) Result(s State, a Action) (State, error) { return Apply(s, a) }

// Root returns a fresh search tree rooted at Initial with zero cost.
func (p *Problem) Root() (astar.Node[State, Action], error) {
	return astar.NewRoot[State, Action](p.Initial, 0)
}

// Solve runs astar.Search from Initial.
func Solve(ctx context.Context, p *Problem, options ...astar.Option) (astar.Result[State, Action], error) {
	root, err := p.Root()
	if err != nil {
		return astar.Result[State, Action]{}, err
	}
	return astar.Search[State, Action](ctx, p, root, options...)
}

// OptimalMoves is the minimum number of moves for n disks on three pegs.
func OptimalMoves(n int) int {
	return 1<<n - 1
}
