package astar

// State is the engine's view of a domain state.
//
// Key must be stable and consistent with domain equivalence: two values
// describing the same configuration return the same key, two different
// configurations never do. The closed set and the best-cost table are keyed
// on it, so an inconsistent key silently breaks deduplication.
type State interface {
	Key() string
}

// Problem defines a search domain over states S and actions A.
type Problem[S State, A any] interface {
	// Actions returns the actions legal in state. The engine applies no
	// filtering of its own.
	Actions(state S) []A

	// Result applies action to state. It must be deterministic and must
	// return an error rather than a default state when the action is
	// illegal.
	Result(state S, action A) (S, error)

	// GoalTest reports whether state satisfies the goal.
	GoalTest(state S) bool

	// PathCost returns the accumulated cost after moving into next.
	PathCost(costSoFar float64, next S) float64
}

// Defaults carries the default goal test and path cost. Domains embed it
// and override what they need.
type Defaults[S State] struct {
	// Goal is the fixed goal state. A nil Goal never matches.
	Goal *S
}

// GoalTest compares state against Goal by key.
func (d Defaults[S]) GoalTest(state S) bool {
	if d.Goal == nil {
		return false
	}
	return (*d.Goal).Key() == state.Key()
}

// PathCost charges one unit per step.
func (d Defaults[S]) PathCost(costSoFar float64, _ S) float64 {
	return costSoFar + 1
}
