package astar

import "errors"

var (
	// ErrIllegalAction wraps a failure returned by Problem.Result. Actions is
	// required to offer only legal actions, so this marks a defect in the
	// domain rather than an unsolvable instance.
	ErrIllegalAction = errors.New("astar: illegal action applied")

	// ErrInvalidCost is returned when a node would carry a NaN or infinite
	// path cost.
	ErrInvalidCost = errors.New("astar: invalid path cost")

	// ErrBudgetExceeded is returned when the expansion budget set with
	// WithMaxExpansions runs out before the search terminates.
	ErrBudgetExceeded = errors.New("astar: expansion budget exceeded")
)
