// Package history records finished runs in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/napolitain/startup-sim/internal/models"
	"github.com/napolitain/startup-sim/internal/sim"
)

// Run is one finished game
type Run struct {
	ID         string
	Profile    string
	Seed       int64
	Turns      int
	Outcome    models.Outcome
	Metrics    models.Metrics
	FinishedAt time.Time
}

// FromGame summarizes a game for the history table
func FromGame(g *sim.Game, finishedAt time.Time) Run {
	return Run{
		Profile:    g.Profile(),
		Seed:       g.Seed(),
		Turns:      max(0, g.Turn()-1),
		Outcome:    g.Outcome(),
		Metrics:    g.Metrics(),
		FinishedAt: finishedAt.UTC(),
	}
}

// Store persists runs
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			profile TEXT NOT NULL,
			seed INTEGER NOT NULL,
			turns INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			reason TEXT NOT NULL,
			cash REAL NOT NULL,
			users REAL NOT NULL,
			morale REAL NOT NULL,
			reputation REAL NOT NULL,
			valuation REAL NOT NULL,
			finished_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_valuation ON runs(valuation DESC);`,
	}
	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a run, assigning an id when it has none
func (s *Store) Record(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	const query = `INSERT INTO runs
		(id, profile, seed, turns, outcome, reason, cash, users, morale, reputation, valuation, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.Profile, r.Seed, r.Turns,
		string(r.Outcome.Kind), r.Outcome.Reason,
		r.Metrics.Cash, r.Metrics.Users, r.Metrics.Morale, r.Metrics.Reputation, r.Metrics.Valuation,
		r.FinishedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return r, fmt.Errorf("failed to record run: %w", err)
	}
	return r, nil
}

// Top returns the highest-valued runs, newest first on ties
func (s *Store) Top(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `SELECT id, profile, seed, turns, outcome, reason, cash, users, morale, reputation, valuation, finished_at
		FROM runs ORDER BY valuation DESC, finished_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			kind     string
			finished string
		)
		if err := rows.Scan(&r.ID, &r.Profile, &r.Seed, &r.Turns, &kind, &r.Outcome.Reason,
			&r.Metrics.Cash, &r.Metrics.Users, &r.Metrics.Morale, &r.Metrics.Reputation, &r.Metrics.Valuation,
			&finished); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Outcome.Kind = models.OutcomeKind(kind)
		if r.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
			return nil, fmt.Errorf("run %s has bad finished_at: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
