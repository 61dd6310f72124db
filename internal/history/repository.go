// Package history keeps a log of countdown runs for the lifetime of the
// process. The sqlite database is in-memory, so nothing outlives a restart.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

type Repository struct {
	db *sql.DB
}

func Open(ctx context.Context, dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// Every new connection to :memory: is a fresh empty database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.init(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return repo, nil
}

func (r *Repository) init(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		ended_at TEXT NOT NULL,
		total INTEGER NOT NULL,
		remaining INTEGER NOT NULL,
		outcome TEXT NOT NULL
	)
	`)
	return err
}

func (r *Repository) Create(ctx context.Context, run *Run) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO runs (started_at, ended_at, total, remaining, outcome) VALUES (?, ?, ?, ?, ?)",
		run.StartedAt.Format(time.RFC3339Nano),
		run.EndedAt.Format(time.RFC3339Nano),
		int64(run.Total),
		int64(run.Remaining),
		string(run.Outcome),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	run.ID = id
	return nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all.
func (r *Repository) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, started_at, ended_at, total, remaining, outcome FROM runs ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt, endedAt, outcome string
		var total, remaining int64
		if err := rows.Scan(&run.ID, &startedAt, &endedAt, &total, &remaining, &outcome); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		run.EndedAt, _ = time.Parse(time.RFC3339Nano, endedAt)
		run.Total = time.Duration(total)
		run.Remaining = time.Duration(remaining)
		run.Outcome = Outcome(outcome)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	runs, err := r.List(ctx, 0)
	if err != nil {
		return Stats{}, err
	}
	var s Stats
	for _, run := range runs {
		s.Runs++
		s.Counted += run.Counted()
		switch run.Outcome {
		case OutcomeCompleted:
			s.Completed++
		case OutcomePaused:
			s.Paused++
		case OutcomeReset:
			s.Reset++
		}
	}
	return s, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
