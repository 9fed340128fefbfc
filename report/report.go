// Package report keeps simulation results in a SQLite file for later comparison of solver
// settings.
package report

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/powellquiring/wordlesolver/solver"
	"github.com/powellquiring/wordlesolver/stats"
	"github.com/powellquiring/wordlesolver/wordle"
)

//go:embed schema.sql
var schema string

type Store struct {
	db *sql.DB
}

// Open creates the database file and its directory when missing and applies the schema.
func Open(dsn string) (*Store, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Run is one stored simulation.
type Run struct {
	ID       int64
	Started  time.Time
	Settings string
	Games    int
	Solved   int
	Average  float64
}

// SolveRate is the percentage of games solved.
func (r Run) SolveRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return 100 * float64(r.Solved) / float64(r.Games)
}

// SaveRun writes the run and every outcome in one transaction and returns the run id.
func (s *Store) SaveRun(ctx context.Context, settings string, outcomes []solver.Outcome) (int64, error) {
	summary := stats.Summarize(outcomes)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
        INSERT INTO runs (started_at, settings, games, solved, average)
        VALUES (?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano), settings, summary.Games, summary.Solved, summary.Average(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO outcomes (run_id, seq, answer, guesses, patterns, solved, score)
        VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for i, outcome := range outcomes {
		patterns := make([]string, len(outcome.Patterns))
		for j, pattern := range outcome.Patterns {
			patterns[j] = pattern.String()
		}
		if _, err := stmt.ExecContext(ctx, id, i, string(outcome.Answer),
			strings.Join(wordle.WordsToStrings(outcome.Guesses), " "), strings.Join(patterns, " "),
			outcome.Solved, outcome.Score()); err != nil {
			return 0, fmt.Errorf("insert outcome %s: %w", outcome.Answer, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Runs lists the stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, started_at, settings, games, solved, average
        FROM runs
        ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.Settings, &r.Games, &r.Solved, &r.Average); err != nil {
			return nil, err
		}
		if r.Started, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("run %d started_at: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Outcomes reads back the games of a run in the order they were saved.  Status is not stored and
// MaxTurns is only recovered for unsolved games, so Score round trips.
func (s *Store) Outcomes(ctx context.Context, runID int64) ([]solver.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT answer, guesses, patterns, solved, score
        FROM outcomes
        WHERE run_id=?
        ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []solver.Outcome
	for rows.Next() {
		var answer, guesses, patterns string
		var solved bool
		var score int
		if err := rows.Scan(&answer, &guesses, &patterns, &solved, &score); err != nil {
			return nil, err
		}
		o := solver.Outcome{Answer: wordle.Word(answer), Solved: solved}
		if !solved {
			o.MaxTurns = score - 1
		}
		for _, guess := range strings.Fields(guesses) {
			o.Guesses = append(o.Guesses, wordle.Word(guess))
		}
		for _, p := range strings.Fields(patterns) {
			pattern, err := wordle.ParsePattern(p)
			if err != nil {
				return nil, fmt.Errorf("run %d answer %s: %w", runID, answer, err)
			}
			o.Patterns = append(o.Patterns, pattern)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
