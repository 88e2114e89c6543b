// Package store records solver runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotInitialized is returned when the store is used before Init.
var ErrNotInitialized = errors.New("store: database not initialized")

// Run is the recorded result of one solve. It holds statistics only, never
// search state.
type Run struct {
	ID      string
	Disks   int
	Pegs    int
	From    int
	To      int
	Outcome string
	Found   bool
	Moves   int

	// Optimal is the known optimal move count, zero when unknown.
	Optimal     int
	Expanded    int
	Generated   int
	Stale       int
	MaxFrontier int
	Nodes       int
	Duration    time.Duration
	CreatedAt   time.Time
}

// SQLiteStore persists runs in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// New creates a store for the database at path. Call Init and Migrate, or
// use Open, before recording runs.
func New(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	return &SQLiteStore{path: path}, nil
}

// Open creates, initializes and migrates a store.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	s, err := New(path)
	if err != nil {
		return nil, err
	}
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Init opens the database connection.
func (s *SQLiteStore) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return ErrNotInitialized
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// RecordRun inserts a run. CreatedAt defaults to now.
func (s *SQLiteStore) RecordRun(ctx context.Context, run Run) error {
	if s.db == nil {
		return ErrNotInitialized
	}
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO runs (
			id, disks, pegs, from_peg, to_peg, outcome, found, moves, optimal,
			expanded, generated, stale, max_frontier, nodes, duration_ns, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.Disks, run.Pegs, run.From, run.To, run.Outcome, run.Found,
		run.Moves, run.Optimal, run.Expanded, run.Generated, run.Stale,
		run.MaxFrontier, run.Nodes, run.Duration.Nanoseconds(), run.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns
// every run.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}
	if limit <= 0 {
		limit = -1
	}

	query := `
		SELECT id, disks, pegs, from_peg, to_peg, outcome, found, moves, optimal,
			expanded, generated, stale, max_frontier, nodes, duration_ns, created_at
		FROM runs
		ORDER BY created_at DESC, id
		LIMIT ?
	`
	return s.queryRuns(ctx, query, limit)
}

func (s *SQLiteStore) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			durationNs int64
			createdAt  int64
		)
		err := rows.Scan(
			&run.ID, &run.Disks, &run.Pegs, &run.From, &run.To, &run.Outcome,
			&run.Found, &run.Moves, &run.Optimal, &run.Expanded, &run.Generated,
			&run.Stale, &run.MaxFrontier, &run.Nodes, &durationNs, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Duration = time.Duration(durationNs)
		run.CreatedAt = time.Unix(0, createdAt)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}
