// Package solver runs classic Hanoi instances with the configured telemetry
// and records each run.
package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/pdrpinto/astar-hanoi"
	"github.com/pdrpinto/astar-hanoi/hanoi"
	"github.com/pdrpinto/astar-hanoi/internal/store"
	"github.com/pdrpinto/astar-hanoi/internal/telemetry"
)

// Recorder persists finished runs.
type Recorder interface {
	RecordRun(ctx context.Context, run store.Run) error
}

// Request describes a classic instance. Pegs are 0-based.
type Request struct {
	Disks         int `json:"disks" validate:"gte=1"`
	Pegs          int `json:"pegs" validate:"gte=3,lte=10"`
	From          int `json:"from" validate:"gte=0,ltfield=Pegs"`
	To            int `json:"to" validate:"gte=0,ltfield=Pegs,nefield=From"`
	MaxExpansions int `json:"max_expansions" validate:"gte=0"`
}

// ErrInvalidRequest is returned for requests that fail validation.
var ErrInvalidRequest = errors.New("invalid request")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the request fields. maxDisks caps Disks when positive.
func (r Request) Validate(maxDisks int) error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed on %q", ErrInvalidRequest, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if maxDisks > 0 && r.Disks > maxDisks {
		return fmt.Errorf("%w: disks %d exceeds limit %d", ErrInvalidRequest, r.Disks, maxDisks)
	}
	return nil
}

// Report is the outcome of one solve.
type Report struct {
	RunID   string
	Problem *hanoi.Problem
	Result  astar.Result[hanoi.State, hanoi.Action]

	// Optimal is the known optimal move count, zero when unknown.
	Optimal int
}

// Runner solves requests. The zero value solves without telemetry or
// recording.
type Runner struct {
	Logger   zerolog.Logger
	Metrics  *telemetry.Metrics
	Tracer   trace.Tracer
	Recorder Recorder
}

// Solve runs one request. The report is returned alongside search errors so
// callers can still inspect the stats of an aborted run.
func (r *Runner) Solve(ctx context.Context, req Request) (Report, error) {
	problem, err := hanoi.NewClassic(req.Disks, req.Pegs, req.From, req.To)
	if err != nil {
		return Report{}, err
	}

	report := Report{RunID: uuid.NewString(), Problem: problem}
	if req.Pegs == 3 {
		report.Optimal = hanoi.OptimalMoves(req.Disks)
	}

	logger := r.Logger.With().
		Str("run_id", report.RunID).
		Int("disks", req.Disks).
		Int("pegs", req.Pegs).
		Logger()

	options := []astar.Option{
		astar.WithLogger(logger),
		astar.WithMaxExpansions(req.MaxExpansions),
	}
	if r.Metrics != nil {
		options = append(options, astar.WithObserver(r.Metrics))
	}
	if r.Tracer != nil {
		options = append(options, astar.WithTracer(r.Tracer))
	}

	logger.Debug().Int("from", req.From).Int("to", req.To).Msg("solving")
	result, searchErr := hanoi.Solve(ctx, problem, options...)
	report.Result = result

	if result.Found && r.Metrics != nil {
		r.Metrics.RecordSolution(len(result.Solution()))
	}

	if r.Recorder != nil {
		run := store.Run{
			ID:          report.RunID,
			Disks:       req.Disks,
			Pegs:        req.Pegs,
			From:        req.From,
			To:          req.To,
			Outcome:     result.Outcome.String(),
			Found:       result.Found,
			Moves:       len(result.Solution()),
			Optimal:     report.Optimal,
			Expanded:    result.Stats.Expanded,
			Generated:   result.Stats.Generated,
			Stale:       result.Stats.Stale,
			MaxFrontier: result.Stats.MaxFrontier,
			Nodes:       result.Stats.Nodes,
			Duration:    result.Stats.Duration,
			CreatedAt:   time.Now(),
		}
		// Aborted runs are recorded even when ctx was cancelled.
		if err := r.Recorder.RecordRun(context.WithoutCancel(ctx), run); err != nil {
			logger.Warn().Err(err).Msg("failed to record run")
		}
	}

	if searchErr != nil {
		return report, fmt.Errorf("solve %d disks: %w", req.Disks, searchErr)
	}
	logger.Info().
		Bool("found", result.Found).
		Int("moves", len(result.Solution())).
		Int("expanded", result.Stats.Expanded).
		Dur("duration", result.Stats.Duration).
		Msg("solved")
	return report, nil
}
