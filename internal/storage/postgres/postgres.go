// Package postgres is the hosted-database backend. It stores the same data as
// the sqlite repository, using native arrays for completions and participants.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nexus/internal/core"
)

type DB struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// RunMigrations creates the schema if it does not exist.
func (db *DB) RunMigrations(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS shortcuts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			url TEXT NOT NULL,
			sort_order BIGINT NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_shortcuts_sort_order ON shortcuts(sort_order);

		CREATE TABLE IF NOT EXISTS habits (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			completions INTEGER[] NOT NULL DEFAULT '{}'
		);

		CREATE TABLE IF NOT EXISTS split_expenses (
			id TEXT PRIMARY KEY,
			payer TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL CHECK (amount >= 0),
			participants TEXT[] NOT NULL CHECK (cardinality(participants) > 0),
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_split_expenses_created_at ON split_expenses(created_at);

		CREATE TABLE IF NOT EXISTS dev_notes (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			type TEXT NOT NULL,
			page TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}

func notFound(tagRows int64, what, id string) error {
	if tagRows == 0 {
		return fmt.Errorf("%s %s: %w", what, id, core.ErrNotFound)
	}
	return nil
}

func (db *DB) ListShortcuts(ctx context.Context) ([]core.Shortcut, error) {
	rows, err := db.pool.Query(ctx, "SELECT id, name, url, sort_order FROM shortcuts ORDER BY sort_order, id")
	if err != nil {
		return nil, fmt.Errorf("list shortcuts: %w", err)
	}
	defer rows.Close()

	var out []core.Shortcut
	for rows.Next() {
		var s core.Shortcut
		if err := rows.Scan(&s.ID, &s.Name, &s.URL, &s.Order); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (db *DB) SaveShortcut(ctx context.Context, s core.Shortcut) error {
	if err := s.Validate(); err != nil {
		return err
	}
	_, err := db.pool.Exec(ctx, `
		INSERT INTO shortcuts (id, name, url, sort_order) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, url = EXCLUDED.url, sort_order = EXCLUDED.sort_order`,
		s.ID, s.Name, s.URL, s.Order,
	)
	if err != nil {
		return fmt.Errorf("save shortcut: %w", err)
	}
	return nil
}

func (db *DB) DeleteShortcut(ctx context.Context, id string) error {
	tag, err := db.pool.Exec(ctx, "DELETE FROM shortcuts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete shortcut: %w", err)
	}
	return notFound(tag.RowsAffected(), "shortcut", id)
}

func (db *DB) ReorderShortcuts(ctx context.Context, ids []string) error {
	return pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		for i, id := range ids {
			if _, err := tx.Exec(ctx, "UPDATE shortcuts SET sort_order = $1 WHERE id = $2", int64(i), id); err != nil {
				return fmt.Errorf("reorder shortcut %s: %w", id, err)
			}
		}
		return nil
	})
}

func (db *DB) ListHabits(ctx context.Context) ([]core.Habit, error) {
	rows, err := db.pool.Query(ctx, "SELECT id, name, created_at, completions FROM habits ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var out []core.Habit
	for rows.Next() {
		var (
			h    core.Habit
			days []int32
		)
		if err := rows.Scan(&h.ID, &h.Name, &h.CreatedAt, &days); err != nil {
			return nil, err
		}
		h.Completions = make([]int, len(days))
		for i, d := range days {
			h.Completions[i] = int(d)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (db *DB) CreateHabit(ctx context.Context, h core.Habit) error {
	if err := h.Validate(); err != nil {
		return err
	}
	days := make([]int32, len(h.Completions))
	for i, d := range h.Completions {
		days[i] = int32(d)
	}
	_, err := db.pool.Exec(ctx,
		"INSERT INTO habits (id, name, created_at, completions) VALUES ($1, $2, $3, $4)",
		h.ID, h.Name, h.CreatedAt, days,
	)
	if err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	return nil
}

func (db *DB) DeleteHabit(ctx context.Context, id string) error {
	tag, err := db.pool.Exec(ctx, "DELETE FROM habits WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return notFound(tag.RowsAffected(), "habit", id)
}

// ToggleCompletion flips the day in a single statement; RETURNING sees the
// updated array.
func (db *DB) ToggleCompletion(ctx context.Context, id string, day int) (bool, error) {
	var done bool
	err := db.pool.QueryRow(ctx, `
		UPDATE habits SET completions = CASE
			WHEN $2::int = ANY(completions) THEN array_remove(completions, $2::int)
			ELSE array_append(completions, $2::int)
		END
		WHERE id = $1
		RETURNING $2::int = ANY(completions)`,
		id, day,
	).Scan(&done)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("habit %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("toggle completion: %w", err)
	}
	return done, nil
}

func (db *DB) ListSplitExpenses(ctx context.Context) ([]core.SplitExpense, error) {
	rows, err := db.pool.Query(ctx,
		"SELECT id, payer, amount, participants, description, created_at FROM split_expenses ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list split expenses: %w", err)
	}
	defer rows.Close()

	var out []core.SplitExpense
	for rows.Next() {
		var e core.SplitExpense
		if err := rows.Scan(&e.ID, &e.Payer, &e.Amount, &e.Participants, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (db *DB) AddSplitExpense(ctx context.Context, e core.SplitExpense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := db.pool.Exec(ctx,
		"INSERT INTO split_expenses (id, payer, amount, participants, description, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		e.ID, e.Payer, e.Amount, e.Participants, e.Description, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("add split expense: %w", err)
	}
	return nil
}

func (db *DB) DeleteSplitExpense(ctx context.Context, id string) error {
	tag, err := db.pool.Exec(ctx, "DELETE FROM split_expenses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete split expense: %w", err)
	}
	return notFound(tag.RowsAffected(), "expense", id)
}

func (db *DB) ListDevNotes(ctx context.Context) ([]core.DevNote, error) {
	rows, err := db.pool.Query(ctx,
		"SELECT id, text, type, page, created_at FROM dev_notes ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list dev notes: %w", err)
	}
	defer rows.Close()

	var out []core.DevNote
	for rows.Next() {
		var (
			n    core.DevNote
			kind string
		)
		if err := rows.Scan(&n.ID, &n.Text, &kind, &n.Page, &n.Timestamp); err != nil {
			return nil, err
		}
		n.Type = core.NoteType(kind)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (db *DB) AddDevNote(ctx context.Context, n core.DevNote) error {
	if err := n.Validate(); err != nil {
		return err
	}
	_, err := db.pool.Exec(ctx,
		"INSERT INTO dev_notes (id, text, type, page, created_at) VALUES ($1, $2, $3, $4, $5)",
		n.ID, n.Text, string(n.Type), n.Page, n.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("add dev note: %w", err)
	}
	return nil
}

func (db *DB) DeleteDevNote(ctx context.Context, id string) error {
	tag, err := db.pool.Exec(ctx, "DELETE FROM dev_notes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete dev note: %w", err)
	}
	return notFound(tag.RowsAffected(), "note", id)
}
