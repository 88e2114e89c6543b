package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/astar-hanoi"
	"github.com/pdrpinto/astar-hanoi/hanoi"
	"github.com/pdrpinto/astar-hanoi/internal/config"
	"github.com/pdrpinto/astar-hanoi/internal/solver"
	"github.com/pdrpinto/astar-hanoi/internal/store"
	"github.com/pdrpinto/astar-hanoi/internal/telemetry"
)

func newTestServer(t *testing.T, withStore bool) http.Handler {
	t.Helper()
	cfg := config.Default()
	cfg.Server.MaxDisks = 6
	metrics := telemetry.NewMetrics(cfg.Metrics)
	runner := &solver.Runner{Logger: zerolog.Nop(), Metrics: metrics}

	var runs RunStore
	if withStore {
		s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		runner.Recorder = s
		runs = s
	}
	return New(cfg, runner, runs, metrics, zerolog.Nop()).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(t, false), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSolve(t *testing.T) {
	h := newTestServer(t, false)
	rec := do(t, h, http.MethodPost, "/v1/solve", `{"disks":3,"pegs":3,"from":0,"to":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp solveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Found)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, "goal_found", resp.Outcome)
	assert.Equal(t, 7, resp.Moves)
	assert.Equal(t, 7, resp.Optimal)
	assert.Equal(t, 7.0, resp.Cost)
	assert.Positive(t, resp.Stats.Expanded)
	assert.Equal(t, resp.Stats.Generated+1, resp.Stats.Nodes)
	require.Len(t, resp.Sequence, 7)
	assert.Equal(t, hanoi.Movement{Type: "movement", Disk: 1, PegStart: 1, PegEnd: 3}, resp.Sequence[0])

	metrics := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), `hanoi_searches_total{outcome="goal_found"} 1`)
}

func TestSolve_BadRequests(t *testing.T) {
	h := newTestServer(t, false)
	tests := []struct {
		name string
		body string
	}{
		{name: "Malformed", body: `{"disks":`},
		{name: "Unknown field", body: `{"disks":3,"pegs":3,"to":2,"heuristic":"h1"}`},
		{name: "Same peg", body: `{"disks":3,"pegs":3,"from":1,"to":1}`},
		{name: "Peg out of range", body: `{"disks":3,"pegs":3,"to":5}`},
		{name: "Too many disks", body: `{"disks":7,"pegs":3,"to":2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/solve", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestSolve_BudgetExceeded(t *testing.T) {
	rec := do(t, newTestServer(t, false), http.MethodPost, "/v1/solve", `{"disks":4,"pegs":3,"to":2,"max_expansions":2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "budget")
	assert.NotEmpty(t, resp.RunID)
}

func TestRunsAndStats(t *testing.T) {
	h := newTestServer(t, true)
	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodPost, "/v1/solve", `{"disks":2,"pegs":3,"to":2}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, h, http.MethodGet, "/v1/runs?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []runResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, 3, runs[0].Moves)

	rec = do(t, h, http.MethodGet, "/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sums []summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sums))
	require.Len(t, sums, 1)
	assert.Equal(t, 2, sums[0].Runs)
	assert.Equal(t, 1.0, sums[0].OptimalRate)
	assert.Equal(t, 3.0, sums[0].Moves.Mean)
	assert.Positive(t, sums[0].Nodes.Mean)
	assert.Positive(t, sums[0].Frontier.Mean)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/runs?limit=x", "").Code)
}

func TestRuns_StoreDisabled(t *testing.T) {
	h := newTestServer(t, false)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/runs", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/stats", "").Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("solve: %w", astar.ErrBudgetExceeded), http.StatusUnprocessableEntity},
		{context.Canceled, http.StatusServiceUnavailable},
		{hanoi.ErrSamePeg, http.StatusBadRequest},
		{fmt.Errorf("%w: boom", astar.ErrIllegalAction), http.StatusInternalServerError},
		{astar.ErrInvalidCost, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
