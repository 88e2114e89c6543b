package astar

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hop is a vertex of a small weighted graph. Weight is the cost of the edge
// used to arrive at it and is deliberately left out of the key.
type hop struct {
	at     string
	weight float64
}

func (h hop) Key() string { return h.at }

type edge struct {
	to     string
	weight float64
}

type graph struct {
	edges  map[string][]edge
	goals  map[string]bool
	broken map[string]bool
}

func (g *graph) Actions(h hop) []edge { return g.edges[h.at] }

func (g *graph) Result(_ hop, e edge) (hop, error) {
	if g.broken[e.to] {
		return hop{}, errors.New("edge leads nowhere")
	}
	return hop{at: e.to, weight: e.weight}, nil
}

func (g *graph) GoalTest(h hop) bool { return g.goals[h.at] }

func (g *graph) PathCost(costSoFar float64, next hop) float64 { return costSoFar + next.weight }

func root(t *testing.T, at string) Node[hop, edge] {
	t.Helper()
	n, err := NewRoot[hop, edge](hop{at: at}, 0)
	require.NoError(t, err)
	return n
}

func keys(path []Node[hop, edge]) []string {
	out := make([]string, len(path))
	for i, n := range path {
		out[i] = n.State().Key()
	}
	return out
}

type recorder struct {
	expanded []string
	pushed   int
	stale    []string
	outcome  Outcome
	stats    Stats
}

func (r *recorder) OnExpand(key string, _ int, _ float64) { r.expanded = append(r.expanded, key) }
func (r *recorder) OnPush(string, float64) { r.pushed++ }
func (r *recorder) OnStale(key string) { r.stale = append(r.stale, key) }
func (r *recorder) OnFinish(outcome Outcome, stats Stats) {
	r.outcome = outcome
	r.stats = stats
}

func detourGraph() *graph {
	return &graph{
		edges: map[string][]edge{
			"S": {{"A", 5}, {"B", 1}},
			"B": {{"A", 1}, {"S", 1}},
			"A": {{"G", 10}},
		},
		goals: map[string]bool{"G": true},
	}
}

func TestSearch_FindsCheapestPath(t *testing.T) {
	rec := &recorder{}
	result, err := Search[hop, edge](context.Background(), detourGraph(), root(t, "S"), WithObserver(rec))
	require.NoError(t, err)
	require.True(t, result.Found)

	assert.Equal(t, OutcomeGoalFound, result.Outcome)
	assert.Equal(t, []string{"S", "B", "A", "G"}, keys(result.Path()))
	assert.Equal(t, 12.0, result.Cost())
	assert.Equal(t, 3, result.Node.Depth())
	assert.Equal(t, []edge{{"B", 1}, {"A", 1}, {"G", 10}}, result.Solution())

	t.Run("Stale entry is discarded", func(t *testing.T) {
		assert.Equal(t, []string{"A"}, rec.stale)
		assert.Equal(t, 1, result.Stats.Stale)
	})
	t.Run("Closed children are skipped", func(t *testing.T) {
		assert.Equal(t, 1, result.Stats.SkippedClosed)
	})
	t.Run("No state is expanded twice", func(t *testing.T) {
		assert.Equal(t, []string{"S", "B", "A"}, rec.expanded)
		assert.Equal(t, 3, result.Stats.Expanded)
	})
	t.Run("Observer sees the final stats", func(t *testing.T) {
		assert.Equal(t, OutcomeGoalFound, rec.outcome)
		assert.Equal(t, result.Stats, rec.stats)
		assert.Equal(t, rec.pushed, result.Stats.Pushed)
	})
	t.Run("Tree size is the root plus every generated node", func(t *testing.T) {
		assert.Equal(t, 6, result.Stats.Nodes)
		assert.Equal(t, result.Node.Tree().Len(), result.Stats.Nodes)
	})
}

func TestSearch_CostIsMonotoneAlongPath(t *testing.T) {
	result, err := Search[hop, edge](context.Background(), detourGraph(), root(t, "S"))
	require.NoError(t, err)

	path := result.Path()
	for i := 1; i < len(path); i++ {
		assert.GreaterOrEqual(t, path[i].PathCost(), path[i-1].PathCost())
		assert.Equal(t, path[i-1].Depth()+1, path[i].Depth())
	}
}

func TestSearch_RootIsGoal(t *testing.T) {
	g := &graph{goals: map[string]bool{"S": true}}
	result, err := Search[hop, edge](context.Background(), g, root(t, "S"))
	require.NoError(t, err)
	require.True(t, result.Found)
	assert.True(t, result.Node.IsRoot())
	assert.Empty(t, result.Solution())
	assert.Equal(t, 0, result.Stats.Expanded)
}

func TestSearch_Exhausted(t *testing.T) {
	g := &graph{
		edges: map[string][]edge{"S": {{"A", 1}}, "A": {{"S", 1}}},
		goals: map[string]bool{"Z": true},
	}
	result, err := Search[hop, edge](context.Background(), g, root(t, "S"))
	require.NoError(t, err, "exhaustion is not an error")
	assert.False(t, result.Found)
	assert.Equal(t, OutcomeExhausted, result.Outcome)
	assert.True(t, result.Node.IsZero())
	assert.Nil(t, result.Solution())
	assert.Nil(t, result.Path())
	assert.Equal(t, 0.0, result.Cost())
	assert.Equal(t, 2, result.Stats.Expanded)
}

func TestSearch_TieBreakIsFirstInFirstOut(t *testing.T) {
	tests := []struct {
		name  string
		edges []edge
		want  string
	}{
		{name: "A first", edges: []edge{{"A", 1}, {"B", 1}}, want: "A"},
		{name: "B first", edges: []edge{{"B", 1}, {"A", 1}}, want: "B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &graph{
				edges: map[string][]edge{"S": tt.edges},
				goals: map[string]bool{"A": true, "B": true},
			}
			for i := 0; i < 5; i++ {
				result, err := Search[hop, edge](context.Background(), g, root(t, "S"))
				require.NoError(t, err)
				assert.Equal(t, tt.want, result.Node.State().Key())
			}
		})
	}
}

func TestSearch_IllegalActionIsADefect(t *testing.T) {
	g := detourGraph()
	g.broken = map[string]bool{"A": true}

	result, err := Search[hop, edge](context.Background(), g, root(t, "S"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalAction)
	assert.False(t, result.Found)
	assert.Equal(t, OutcomeAborted, result.Outcome)
}

func TestSearch_InvalidCostIsRejected(t *testing.T) {
	g := &graph{
		edges: map[string][]edge{"S": {{"A", math.NaN()}}},
		goals: map[string]bool{"A": true},
	}
	_, err := Search[hop, edge](context.Background(), g, root(t, "S"))
	assert.ErrorIs(t, err, ErrInvalidCost)

	_, err = NewRoot[hop, edge](hop{at: "S"}, math.Inf(1))
	assert.ErrorIs(t, err, ErrInvalidCost)
}

func TestSearch_Budget(t *testing.T) {
	result, err := Search[hop, edge](context.Background(), detourGraph(), root(t, "S"), WithMaxExpansions(2))
	assert.ErrorIs(t, err, ErrBudgetExceeded)
	assert.Equal(t, OutcomeAborted, result.Outcome)
	assert.Equal(t, 2, result.Stats.Expanded)
}

func TestSearch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Search[hop, edge](ctx, detourGraph(), root(t, "S"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, OutcomeAborted, result.Outcome)
	assert.Equal(t, 0, result.Stats.Expanded)
}

func TestDefaults(t *testing.T) {
	goal := hop{at: "G"}
	d := Defaults[hop]{Goal: &goal}
	assert.True(t, d.GoalTest(hop{at: "G", weight: 3}))
	assert.False(t, d.GoalTest(hop{at: "A"}))
	assert.Equal(t, 4.0, d.PathCost(3, hop{}))

	var none Defaults[hop]
	assert.False(t, none.GoalTest(goal))
}
