package astar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepper_Step(t *testing.T) {
	stepper := NewStepper[hop, edge](detourGraph(), root(t, "S"))

	type want struct {
		current  string
		expanded bool
		stale    bool
		pushed   int
		frontier int
		closed   int
		done     bool
	}
	steps := []want{
		{current: "S", expanded: true, pushed: 2, frontier: 2, closed: 1},
		{current: "B", expanded: true, pushed: 1, frontier: 2, closed: 2},
		{current: "A", expanded: true, pushed: 1, frontier: 2, closed: 3},
		{current: "A", stale: true, frontier: 1, closed: 3},
		{current: "G", frontier: 0, closed: 3, done: true},
	}

	for i, w := range steps {
		snap, err := stepper.Step()
		require.NoError(t, err, "step %d", i+1)
		assert.Equal(t, i+1, snap.StepIndex)
		assert.Equal(t, w.current, snap.Current.State().Key(), "step %d", i+1)
		assert.Equal(t, w.expanded, snap.Expanded, "step %d", i+1)
		assert.Equal(t, w.stale, snap.Stale, "step %d", i+1)
		assert.Equal(t, w.pushed, snap.Pushed, "step %d", i+1)
		assert.Equal(t, w.frontier, snap.Frontier, "step %d", i+1)
		assert.Equal(t, w.closed, snap.Closed, "step %d", i+1)
		assert.Equal(t, w.done, snap.Done, "step %d", i+1)
	}

	t.Run("Terminal snapshot repeats", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			snap, err := stepper.Step()
			require.NoError(t, err)
			assert.True(t, snap.Done)
			assert.True(t, snap.Found)
			assert.Equal(t, OutcomeGoalFound, snap.Outcome)
			assert.Equal(t, 5, snap.StepIndex)
			require.False(t, snap.Current.IsZero(), "the goal node stays attached")
			assert.Equal(t, "G", snap.Current.State().Key())
			assert.Equal(t, []string{"S", "B", "A", "G"}, keys(snap.Current.Path()))
		}
	})

	t.Run("Result", func(t *testing.T) {
		result := stepper.Result()
		require.True(t, result.Found)
		assert.Equal(t, 12.0, result.Cost())
	})
}

func TestStepper_EmptyFrontier(t *testing.T) {
	stepper := NewStepper[hop, edge](&graph{}, root(t, "S"))

	snap, err := stepper.Step()
	require.NoError(t, err)
	assert.True(t, snap.Expanded)
	assert.False(t, snap.Done)

	snap, err = stepper.Step()
	require.NoError(t, err)
	assert.True(t, snap.Done)
	assert.False(t, snap.Found)
	assert.Equal(t, OutcomeExhausted, snap.Outcome)
}

func TestStepper_ExhaustedSnapshotRepeats(t *testing.T) {
	stepper := NewStepper[hop, edge](&graph{}, root(t, "S"))
	for i := 0; i < 2; i++ {
		_, err := stepper.Step()
		require.NoError(t, err)
	}

	snap, err := stepper.Step()
	require.NoError(t, err)
	assert.True(t, snap.Done)
	assert.False(t, snap.Found)
	assert.True(t, snap.Current.IsZero())
	assert.Equal(t, 1, snap.StepIndex)
}

// Two equal-cost paths reach D. The second arrival ties the best cost and
// must not be pushed again.
func TestStepper_EqualCostIsNotPushed(t *testing.T) {
	diamond := &graph{
		edges: map[string][]edge{
			"S": {{"L", 1}, {"R", 1}},
			"L": {{"D", 1}},
			"R": {{"D", 1}},
			"D": {{"G", 1}},
		},
		goals: map[string]bool{"G": true},
	}
	rec := &recorder{}
	result, err := Search[hop, edge](context.Background(), diamond, root(t, "S"), WithObserver(rec))
	require.NoError(t, err)
	require.True(t, result.Found)

	// S, L, R, D via L, G.
	assert.Equal(t, 5, result.Stats.Pushed)
	assert.Equal(t, 5, rec.pushed)
	assert.Equal(t, 0, result.Stats.Stale)
	assert.Equal(t, []string{"S", "L", "D", "G"}, keys(result.Path()))
	assert.Equal(t, 3.0, result.Cost())
}

func TestStepper_AbortKeepsError(t *testing.T) {
	stepper := NewStepper[hop, edge](detourGraph(), root(t, "S"))
	stepper.Abort(ErrBudgetExceeded)

	_, err := stepper.Step()
	assert.ErrorIs(t, err, ErrBudgetExceeded)
	assert.ErrorIs(t, stepper.Err(), ErrBudgetExceeded)
	assert.Equal(t, OutcomeAborted, stepper.Result().Outcome)

	stepper.Abort(nil)
	assert.ErrorIs(t, stepper.Err(), ErrBudgetExceeded, "a terminal stepper ignores further aborts")
}
