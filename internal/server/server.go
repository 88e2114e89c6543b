// Package server exposes the solver over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/pdrpinto/astar-hanoi"
	"github.com/pdrpinto/astar-hanoi/hanoi"
	"github.com/pdrpinto/astar-hanoi/internal/config"
	"github.com/pdrpinto/astar-hanoi/internal/solver"
	"github.com/pdrpinto/astar-hanoi/internal/store"
	"github.com/pdrpinto/astar-hanoi/internal/telemetry"
)

// RunStore reads recorded runs.
type RunStore interface {
	ListRuns(ctx context.Context, limit int) ([]store.Run, error)
	Summaries(ctx context.Context) ([]store.Summary, error)
}

// Server serves solve requests.
type Server struct {
	Runner  *solver.Runner
	Runs    RunStore
	Metrics *telemetry.Metrics
	Logger  zerolog.Logger

	cfg         config.ServerConfig
	metricsPath string
}

// New builds a server. runs may be nil, in which case the run endpoints
// respond 404.
func New(cfg config.Config, runner *solver.Runner, runs RunStore, metrics *telemetry.Metrics, logger zerolog.Logger) *Server {
	s := &Server{
		Runner:  runner,
		Runs:    runs,
		Metrics: metrics,
		Logger:  logger,
		cfg:     cfg.Server,
	}
	if cfg.Metrics.Enabled {
		s.metricsPath = cfg.Metrics.Path
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metricsPath != "" && s.Metrics != nil {
		r.Handle(s.metricsPath, s.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.solve)
		r.Get("/runs", s.listRuns)
		r.Get("/stats", s.stats)
	})
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info().Str("addr", s.cfg.Addr).Msg("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.Logger.Info().Msg("Shutting down")
	return srv.Shutdown(shutdownCtx)
}

type solveResponse struct {
	RunID    string           `json:"run_id"`
	Found    bool             `json:"found"`
	Outcome  string           `json:"outcome"`
	Moves    int              `json:"moves"`
	Optimal  int              `json:"optimal,omitempty"`
	Cost     float64          `json:"cost"`
	Stats    statsResponse    `json:"stats"`
	Sequence []hanoi.Movement `json:"sequence"`
}

type statsResponse struct {
	Expanded      int     `json:"expanded"`
	Generated     int     `json:"generated"`
	Pushed        int     `json:"pushed"`
	Stale         int     `json:"stale"`
	SkippedClosed int     `json:"skipped_closed"`
	MaxFrontier   int     `json:"max_frontier"`
	Nodes         int     `json:"nodes"`
	DurationMS    float64 `json:"duration_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
	RunID string `json:"run_id,omitempty"`
}

func (s *Server) solve(w http.ResponseWriter, r *http.Request) {
	var req solver.Request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if err := req.Validate(s.cfg.MaxDisks); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	report, err := s.Runner.Solve(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.Logger.Error().Err(err).Str("run_id", report.RunID).Msg("Solve failed")
		}
		writeJSON(w, status, errorResponse{Error: err.Error(), RunID: report.RunID})
		return
	}

	result := report.Result
	moves := result.Solution()
	writeJSON(w, http.StatusOK, solveResponse{
		RunID:    report.RunID,
		Found:    result.Found,
		Outcome:  result.Outcome.String(),
		Moves:    len(moves),
		Optimal:  report.Optimal,
		Cost:     result.Cost(),
		Sequence: hanoi.Sequence(moves),
		Stats: statsResponse{
			Expanded:      result.Stats.Expanded,
			Generated:     result.Stats.Generated,
			Pushed:        result.Stats.Pushed,
			Stale:         result.Stats.Stale,
			SkippedClosed: result.Stats.SkippedClosed,
			MaxFrontier:   result.Stats.MaxFrontier,
			Nodes:         result.Stats.Nodes,
			DurationMS:    float64(result.Stats.Duration) / float64(time.Millisecond),
		},
	})
}

// statusFor maps solve errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, astar.ErrBudgetExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, hanoi.ErrSamePeg),
		errors.Is(err, hanoi.ErrInvalidPegIndex),
		errors.Is(err, hanoi.ErrNoPegs):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type runResponse struct {
	ID          string    `json:"id"`
	Disks       int       `json:"disks"`
	Pegs        int       `json:"pegs"`
	Outcome     string    `json:"outcome"`
	Found       bool      `json:"found"`
	Moves       int       `json:"moves"`
	Expanded    int       `json:"expanded"`
	MaxFrontier int       `json:"max_frontier"`
	DurationMS  float64   `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if s.Runs == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run store disabled"})
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	runs, err := s.Runs.ListRuns(r.Context(), limit)
	if err != nil {
		s.Logger.Error().Err(err).Msg("List runs failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list runs"})
		return
	}
	out := make([]runResponse, len(runs))
	for i, run := range runs {
		out[i] = runResponse{
			ID:          run.ID,
			Disks:       run.Disks,
			Pegs:        run.Pegs,
			Outcome:     run.Outcome,
			Found:       run.Found,
			Moves:       run.Moves,
			Expanded:    run.Expanded,
			MaxFrontier: run.MaxFrontier,
			DurationMS:  float64(run.Duration) / float64(time.Millisecond),
			CreatedAt:   run.CreatedAt.UTC(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type spreadResponse struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

type summaryResponse struct {
	Disks       int            `json:"disks"`
	Pegs        int            `json:"pegs"`
	Runs        int            `json:"runs"`
	Found       int            `json:"found"`
	Seconds     spreadResponse `json:"seconds"`
	Moves       spreadResponse `json:"moves"`
	Expanded    spreadResponse `json:"expanded"`
	Frontier    spreadResponse `json:"max_frontier"`
	Nodes       spreadResponse `json:"nodes"`
	MoveGap     spreadResponse `json:"move_gap"`
	OptimalRate float64        `json:"optimal_rate"`
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	if s.Runs == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run store disabled"})
		return
	}
	sums, err := s.Runs.Summaries(r.Context())
	if err != nil {
		s.Logger.Error().Err(err).Msg("Summaries failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to summarize runs"})
		return
	}
	out := make([]summaryResponse, len(sums))
	for i, sum := range sums {
		out[i] = summaryResponse{
			Disks:       sum.Disks,
			Pegs:        sum.Pegs,
			Runs:        sum.Runs,
			Found:       sum.Found,
			Seconds:     spreadResponse(sum.Duration),
			Moves:       spreadResponse(sum.Moves),
			Expanded:    spreadResponse(sum.Expanded),
			Frontier:    spreadResponse(sum.Frontier),
			Nodes:       spreadResponse(sum.Nodes),
			MoveGap:     spreadResponse(sum.MoveGap),
			OptimalRate: sum.OptimalRate,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
