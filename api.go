package astar

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Result contains the outcome of a search
type Result[S State, A any] struct {
	// Node is the goal node. It is the zero Node unless Found.
	Node    Node[S, A]
	Found   bool
	Outcome Outcome
	Stats   Stats
}

// Solution returns the actions from the root to the goal, or nil when no
// goal was found.
func (r Result[S, A]) Solution() []A {
	if !r.Found {
		return nil
	}
	return r.Node.Solution()
}

// Path returns the nodes from the root to the goal, or nil when no goal was
// found.
func (r Result[S, A]) Path() []Node[S, A] {
	if !r.Found {
		return nil
	}
	return r.Node.Path()
}

// Cost returns the goal's path cost, or zero when no goal was found.
func (r Result[S, A]) Cost() float64 {
	if !r.Found {
		return 0
	}
	return r.Node.PathCost()
}

// Search runs best-first search from root until a goal state is popped or
// the frontier is exhausted.
//
// Exhaustion is not an error: the Result reports Found == false. An error is
// returned only when the problem violates its contract (ErrIllegalAction,
// ErrInvalidCost), when the expansion budget runs out (ErrBudgetExceeded) or
// when ctx is done.
func Search[S State, A any](
	ctx context.Context,
	problem Problem[S, A],
	root Node[S, A],
	options ...Option,
) (Result[S, A], error) {
	stepper := NewStepper(problem, root, options...)

	ctx, span := stepper.opts.Tracer.Start(ctx, "astar.Search")
	defer span.End()

	for {
		if err := ctx.Err(); err != nil {
			stepper.Abort(err)
			break
		}
		snap, err := stepper.Step()
		if err != nil || snap.Done {
			break
		}
	}

	result := stepper.Result()
	span.SetAttributes(
		attribute.String("astar.outcome", result.Outcome.String()),
		attribute.Int("astar.expanded", result.Stats.Expanded),
		attribute.Int("astar.generated", result.Stats.Generated),
		attribute.Int("astar.max_frontier", result.Stats.MaxFrontier),
	)
	if err := stepper.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search aborted")
		return result, err
	}
	if result.Found {
		span.SetAttributes(
			attribute.Float64("astar.cost", result.Cost()),
			attribute.Int("astar.depth", result.Node.Depth()),
		)
	}
	span.SetStatus(codes.Ok, result.Outcome.String())
	return result, nil
}
