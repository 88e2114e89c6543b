package astar

import (
	"container/heap"
	"time"
)

// Outcome is the state of the driver loop.
type Outcome int

const (
	OutcomeRunning Outcome = iota
	OutcomeGoalFound
	OutcomeExhausted
	// OutcomeAborted covers budget exhaustion, cancellation and contract
	// violations raised by the problem.
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeGoalFound:
		return "goal_found"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether the loop has stopped.
func (o Outcome) Terminal() bool { return o != OutcomeRunning }

// Stats counts the work done by one search.
type Stats struct {
	Expanded      int
	Generated     int
	Pushed        int
	Stale         int
	SkippedClosed int
	MaxFrontier   int

	// Nodes is the size of the search tree when the search finished, every
	// node ever generated plus the root.
	Nodes    int
	Duration time.Duration
}

// StepSnapshot exposes the per-iteration state of the search
type StepSnapshot[S State, A any] struct {
	// Current is the node popped this step. It is the zero Node when the
	// step found the frontier empty.
	Current   Node[S, A]
	Expanded  bool
	Stale     bool
	Pushed    int
	Frontier  int
	Closed    int
	Outcome   Outcome
	Done      bool
	Found     bool
	StepIndex int
}

// Stepper drives the search one frontier pop at a time. Search runs the
// same loop to completion.
type Stepper[S State, A any] struct {
	problem Problem[S, A]
	opts    Options
	tree    *Tree[S, A]

	open   frontier[S, A]
	closed map[string]struct{}
	best   map[string]float64
	seq    uint64

	stats     Stats
	stepCount int
	started   time.Time
	outcome   Outcome
	found     Node[S, A]
	final     StepSnapshot[S, A]
	err       error
}

// NewStepper seeds a stepper with root.
func NewStepper[S State, A any](problem Problem[S, A], root Node[S, A], options ...Option) *Stepper[S, A] {
	s := &Stepper[S, A]{
		problem: problem,
		opts:    buildOptions(options),
		tree:    root.Tree(),
		open:    make(frontier[S, A], 0),
		closed:  make(map[string]struct{}),
		best:    make(map[string]float64),
	}
	heap.Init(&s.open)
	s.best[root.State().Key()] = root.PathCost()
	s.push(root)
	return s
}

func (s *Stepper[S, A]) push(node Node[S, A]) {
	heap.Push(&s.open, &frontierItem[S, A]{Node: node, FScore: node.PathCost(), Seq: s.seq})
	s.seq++
	s.stats.Pushed++
	if s.open.Len() > s.stats.MaxFrontier {
		s.stats.MaxFrontier = s.open.Len()
	}
	for _, o := range s.opts.Observers {
		o.OnPush(node.State().Key(), node.PathCost())
	}
}

// Step advances the search by one frontier pop and returns a snapshot. Once
// the outcome is terminal, Step keeps returning the final snapshot and the
// error that ended the search, if any. After a goal was found the final
// snapshot carries the goal node.
func (s *Stepper[S, A]) Step() (StepSnapshot[S, A], error) {
	if s.outcome.Terminal() {
		return s.final, s.err
	}
	if s.started.IsZero() {
		s.started = time.Now()
	}
	if s.open.Len() == 0 {
		s.finish(OutcomeExhausted, nil, Node[S, A]{})
		return s.final, nil
	}

	s.stepCount++
	item := heap.Pop(&s.open).(*frontierItem[S, A])
	current := item.Node
	state := current.State()

	if s.problem.GoalTest(state) {
		s.found = current
		s.finish(OutcomeGoalFound, nil, current)
		return s.final, nil
	}

	key := state.Key()
	if _, ok := s.closed[key]; ok {
		s.stats.Stale++
		for _, o := range s.opts.Observers {
			o.OnStale(key)
		}
		snap := s.snapshot(current)
		snap.Stale = true
		return snap, nil
	}

	if s.opts.MaxExpansions > 0 && s.stats.Expanded >= s.opts.MaxExpansions {
		s.finish(OutcomeAborted, ErrBudgetExceeded, current)
		return s.final, s.err
	}

	s.closed[key] = struct{}{}
	s.stats.Expanded++
	for _, o := range s.opts.Observers {
		o.OnExpand(key, current.Depth(), current.PathCost())
	}
	s.opts.Logger.Trace().
		Str("state", key).
		Int("depth", current.Depth()).
		Float64("cost", current.PathCost()).
		Msg("expanding node")

	children, err := current.Expand(s.problem)
	if err != nil {
		s.finish(OutcomeAborted, err, current)
		return s.final, err
	}
	s.stats.Generated += len(children)

	pushed := 0
	for _, child := range children {
		childKey := child.State().Key()
		if _, ok := s.closed[childKey]; ok {
			s.stats.SkippedClosed++
			continue
		}
		g := child.PathCost()
		if prev, ok := s.best[childKey]; ok && g >= prev {
			continue
		}
		s.best[childKey] = g
		s.push(child)
		pushed++
	}

	snap := s.snapshot(current)
	snap.Expanded = true
	snap.Pushed = pushed
	return snap, nil
}

// Abort stops a running search with err.
func (s *Stepper[S, A]) Abort(err error) {
	if s.outcome.Terminal() {
		return
	}
	s.finish(OutcomeAborted, err, Node[S, A]{})
}

// finish records the terminal outcome and freezes the final snapshot around
// current, which is the goal node when one was found.
func (s *Stepper[S, A]) finish(outcome Outcome, err error, current Node[S, A]) {
	s.outcome = outcome
	s.err = err
	if !s.started.IsZero() {
		s.stats.Duration = time.Since(s.started)
	}
	s.stats.Nodes = s.tree.Len()
	s.final = s.snapshot(current)
	event := s.opts.Logger.Debug()
	if err != nil {
		event = s.opts.Logger.Warn().Err(err)
	}
	event.
		Stringer("outcome", outcome).
		Int("expanded", s.stats.Expanded).
		Int("generated", s.stats.Generated).
		Int("stale", s.stats.Stale).
		Int("max_frontier", s.stats.MaxFrontier).
		Int("nodes", s.stats.Nodes).
		Dur("duration", s.stats.Duration).
		Msg("search finished")
	for _, o := range s.opts.Observers {
		o.OnFinish(outcome, s.stats)
	}
}

func (s *Stepper[S, A]) snapshot(current Node[S, A]) StepSnapshot[S, A] {
	return StepSnapshot[S, A]{
		Current:   current,
		Frontier:  s.open.Len(),
		Closed:    len(s.closed),
		Outcome:   s.outcome,
		Done:      s.outcome.Terminal(),
		Found:     s.outcome == OutcomeGoalFound,
		StepIndex: s.stepCount,
	}
}

// Result returns the current outcome. It is final once the outcome is
// terminal.
func (s *Stepper[S, A]) Result() Result[S, A] {
	return Result[S, A]{
		Node:    s.found,
		Found:   s.outcome == OutcomeGoalFound,
		Outcome: s.outcome,
		Stats:   s.stats,
	}
}

// Err returns the error that ended the search, if any.
func (s *Stepper[S, A]) Err() error { return s.err }
