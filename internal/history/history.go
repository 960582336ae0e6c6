// Package history records completed quiz attempts in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dgnsrekt/lingo/internal/quiz"
)

// ErrNotFound is returned by Get for an unknown attempt.
var ErrNotFound = errors.New("attempt not found")

// Attempt is one completed quiz run.
type Attempt struct {
	ID          uuid.UUID
	Deck        string
	Score       int
	Correct     int
	Total       int
	StartedAt   time.Time
	CompletedAt time.Time
	Records     []quiz.AnswerRecord
}

// NewAttempt builds an attempt from a finished session result.
func NewAttempt(deck string, res quiz.Result, startedAt time.Time) Attempt {
	return Attempt{
		ID:          uuid.New(),
		Deck:        deck,
		Score:       res.Score,
		Correct:     res.Correct,
		Total:       res.Total,
		StartedAt:   startedAt,
		CompletedAt: time.Now(),
		Records:     res.Records,
	}
}

// Duration returns how long the attempt took.
func (a Attempt) Duration() time.Duration {
	return a.CompletedAt.Sub(a.StartedAt)
}

// Store persists attempts.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS attempts (
		id TEXT PRIMARY KEY,
		deck TEXT NOT NULL,
		score INTEGER NOT NULL,
		correct INTEGER NOT NULL,
		total INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		completed_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS answers (
		attempt_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		question_id TEXT NOT NULL,
		selected INTEGER,
		correct INTEGER NOT NULL,
		elapsed_seconds INTEGER NOT NULL,
		PRIMARY KEY (attempt_id, position),
		FOREIGN KEY (attempt_id) REFERENCES attempts(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_attempts_completed ON attempts(completed_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save stores an attempt and its answers in one transaction.
func (s *Store) Save(ctx context.Context, a Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == uuid.Nil {
		return errors.New("attempt id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO attempts (id, deck, score, correct, total, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID.String(), a.Deck, a.Score, a.Correct, a.Total, a.StartedAt.UTC(), a.CompletedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}

	for i, r := range a.Records {
		var selected sql.NullInt64
		if idx, ok := r.Selected(); ok {
			selected = sql.NullInt64{Int64: int64(idx), Valid: true}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO answers (attempt_id, position, question_id, selected, correct, elapsed_seconds)
			VALUES (?, ?, ?, ?, ?, ?)
		`, a.ID.String(), i, r.QuestionID, selected, r.IsCorrect, r.ElapsedSeconds)
		if err != nil {
			return fmt.Errorf("failed to save answer %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Recent returns up to limit attempts, newest first. Deck filters by deck
// name when non-empty.
func (s *Store) Recent(ctx context.Context, limit int, deck string) ([]Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, deck, score, correct, total, started_at, completed_at FROM attempts`
	args := []any{}
	if deck != "" {
		query += ` WHERE deck = ?`
		args = append(args, deck)
	}
	query += ` ORDER BY completed_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	for i := range out {
		if out[i].Records, err = s.answers(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Get returns a single attempt.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, deck, score, correct, total, started_at, completed_at
		FROM attempts WHERE id = ?
	`, id.String())

	a, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Attempt{}, ErrNotFound
	}
	if err != nil {
		return Attempt{}, err
	}
	if a.Records, err = s.answers(ctx, a.ID); err != nil {
		return Attempt{}, err
	}
	return a, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(sc scanner) (Attempt, error) {
	var a Attempt
	var id string
	if err := sc.Scan(&id, &a.Deck, &a.Score, &a.Correct, &a.Total, &a.StartedAt, &a.CompletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, err
		}
		return Attempt{}, fmt.Errorf("failed to read attempt: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Attempt{}, fmt.Errorf("failed to read attempt id %q: %w", id, err)
	}
	a.ID = parsed
	return a, nil
}

func (s *Store) answers(ctx context.Context, id uuid.UUID) ([]quiz.AnswerRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_id, selected, correct, elapsed_seconds
		FROM answers WHERE attempt_id = ? ORDER BY position
	`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}
	defer rows.Close()

	var out []quiz.AnswerRecord
	for rows.Next() {
		var r quiz.AnswerRecord
		var selected sql.NullInt64
		if err := rows.Scan(&r.QuestionID, &selected, &r.IsCorrect, &r.ElapsedSeconds); err != nil {
			return nil, fmt.Errorf("failed to read answer: %w", err)
		}
		if selected.Valid {
			idx := int(selected.Int64)
			r.SelectedOptionIndex = &idx
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
