package store

import (
	"context"
	"math"
	"time"
)

// Spread is a sample mean and standard deviation.
type Spread struct {
	Mean   float64
	StdDev float64
}

// Summary aggregates the runs of one (disks, pegs) instance size.
type Summary struct {
	Disks int
	Pegs  int
	Runs  int
	Found int

	Duration Spread
	Moves    Spread
	Expanded Spread

	// Frontier and Nodes stand in for peak memory: the largest frontier and
	// the final search tree size of each run.
	Frontier Spread
	Nodes    Spread

	// Known counts found runs whose optimum is known.
	Known int

	// MoveGap is the spread of moves above the known optimum.
	MoveGap Spread

	// OptimalRate is the fraction of found runs with a known optimum that
	// matched it. It is zero when no run has a known optimum.
	OptimalRate float64
}

// Summaries groups recorded runs by disks and pegs, smallest first.
func (s *SQLiteStore) Summaries(ctx context.Context) ([]Summary, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}
	query := `
		SELECT id, disks, pegs, from_peg, to_peg, outcome, found, moves, optimal,
			expanded, generated, stale, max_frontier, nodes, duration_ns, created_at
		FROM runs
		ORDER BY disks, pegs, created_at
	`
	runs, err := s.queryRuns(ctx, query)
	if err != nil {
		return nil, err
	}
	return Summarize(runs), nil
}

// Summarize groups runs, which must be ordered by disks then pegs.
func Summarize(runs []Run) []Summary {
	var out []Summary
	for start := 0; start < len(runs); {
		end := start
		for end < len(runs) && runs[end].Disks == runs[start].Disks && runs[end].Pegs == runs[start].Pegs {
			end++
		}
		out = append(out, summarize(runs[start:end]))
		start = end
	}
	return out
}

func summarize(group []Run) Summary {
	sum := Summary{Disks: group[0].Disks, Pegs: group[0].Pegs, Runs: len(group)}

	var durations, moves, expanded, frontier, nodes, gaps []float64
	var optimal int
	for _, r := range group {
		durations = append(durations, r.Duration.Seconds())
		expanded = append(expanded, float64(r.Expanded))
		frontier = append(frontier, float64(r.MaxFrontier))
		nodes = append(nodes, float64(r.Nodes))
		if !r.Found {
			continue
		}
		sum.Found++
		moves = append(moves, float64(r.Moves))
		if r.Optimal > 0 {
			sum.Known++
			gaps = append(gaps, float64(r.Moves-r.Optimal))
			if r.Moves == r.Optimal {
				optimal++
			}
		}
	}

	sum.Duration = spread(durations)
	sum.Moves = spread(moves)
	sum.Expanded = spread(expanded)
	sum.Frontier = spread(frontier)
	sum.Nodes = spread(nodes)
	sum.MoveGap = spread(gaps)
	if sum.Known > 0 {
		sum.OptimalRate = float64(optimal) / float64(sum.Known)
	}
	return sum
}

// spread uses the sample standard deviation, zero for fewer than two values.
func spread(values []float64) Spread {
	if len(values) == 0 {
		return Spread{}
	}
	var total float64
	for _, v := range values {
		total += v
	}
	mean := total / float64(len(values))
	if len(values) < 2 {
		return Spread{Mean: mean}
	}
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return Spread{Mean: mean, StdDev: math.Sqrt(sq / float64(len(values)-1))}
}

// MeanDuration converts the duration spread back to a time.Duration.
func (s Summary) MeanDuration() time.Duration {
	return time.Duration(s.Duration.Mean * float64(time.Second))
}
