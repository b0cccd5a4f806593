package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"nexus/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(r.queries.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func notFoundIfNone(n int64, what, id string) error {
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, core.ErrNotFound)
	}
	return nil
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// ListShortcuts implements ports.ShortcutStore
func (r *SQLiteRepository) ListShortcuts(ctx context.Context) ([]core.Shortcut, error) {
	rows, err := r.queries.ListShortcuts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shortcuts: %w", err)
	}
	out := make([]core.Shortcut, len(rows))
	for i, s := range rows {
		out[i] = core.Shortcut{ID: s.ID, Name: s.Name, URL: s.Url, Order: s.SortOrder}
	}
	return out, nil
}

func (r *SQLiteRepository) SaveShortcut(ctx context.Context, s core.Shortcut) error {
	if err := s.Validate(); err != nil {
		return err
	}
	err := r.queries.UpsertShortcut(ctx, UpsertShortcutParams{
		ID:        s.ID,
		Name:      s.Name,
		Url:       s.URL,
		SortOrder: s.Order,
	})
	if err != nil {
		return fmt.Errorf("save shortcut: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteShortcut(ctx context.Context, id string) error {
	n, err := r.queries.DeleteShortcut(ctx, id)
	if err != nil {
		return fmt.Errorf("delete shortcut: %w", err)
	}
	return notFoundIfNone(n, "shortcut", id)
}

func (r *SQLiteRepository) ReorderShortcuts(ctx context.Context, ids []string) error {
	return r.withTx(ctx, func(q *Queries) error {
		for i, id := range ids {
			if err := q.UpdateShortcutOrder(ctx, id, int64(i)); err != nil {
				return fmt.Errorf("reorder shortcut %s: %w", id, err)
			}
		}
		return nil
	})
}

// ListHabits implements ports.HabitStore
func (r *SQLiteRepository) ListHabits(ctx context.Context) ([]core.Habit, error) {
	habits, err := r.queries.ListHabits(ctx)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	completions, err := r.queries.ListCompletions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	byHabit := make(map[string][]int, len(habits))
	for _, c := range completions {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], int(c.Day))
	}

	out := make([]core.Habit, len(habits))
	for i, h := range habits {
		out[i] = core.Habit{
			ID:          h.ID,
			Name:        h.Name,
			CreatedAt:   fromMillis(h.CreatedAt),
			Completions: byHabit[h.ID],
		}
	}
	return out, nil
}

func (r *SQLiteRepository) CreateHabit(ctx context.Context, h core.Habit) error {
	if err := h.Validate(); err != nil {
		return err
	}
	return r.withTx(ctx, func(q *Queries) error {
		if err := q.InsertHabit(ctx, Habit{ID: h.ID, Name: h.Name, CreatedAt: h.CreatedAt.UnixMilli()}); err != nil {
			return fmt.Errorf("create habit: %w", err)
		}
		seen := make(map[int]bool, len(h.Completions))
		for _, d := range h.Completions {
			if seen[d] {
				continue
			}
			seen[d] = true
			if err := q.InsertCompletion(ctx, HabitCompletion{HabitID: h.ID, Day: int64(d)}); err != nil {
				return fmt.Errorf("create habit completion: %w", err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) DeleteHabit(ctx context.Context, id string) error {
	return r.withTx(ctx, func(q *Queries) error {
		if err := q.DeleteHabitCompletions(ctx, id); err != nil {
			return fmt.Errorf("delete habit completions: %w", err)
		}
		n, err := q.DeleteHabit(ctx, id)
		if err != nil {
			return fmt.Errorf("delete habit: %w", err)
		}
		return notFoundIfNone(n, "habit", id)
	})
}

func (r *SQLiteRepository) ToggleCompletion(ctx context.Context, id string, day int) (bool, error) {
	var done bool
	err := r.withTx(ctx, func(q *Queries) error {
		exists, err := q.HabitExists(ctx, id)
		if err != nil {
			return fmt.Errorf("check habit: %w", err)
		}
		if !exists {
			return fmt.Errorf("habit %s: %w", id, core.ErrNotFound)
		}
		c := HabitCompletion{HabitID: id, Day: int64(day)}
		removed, err := q.DeleteCompletion(ctx, c)
		if err != nil {
			return fmt.Errorf("remove completion: %w", err)
		}
		if removed > 0 {
			done = false
			return nil
		}
		if err := q.InsertCompletion(ctx, c); err != nil {
			return fmt.Errorf("add completion: %w", err)
		}
		done = true
		return nil
	})
	return done, err
}

// ListSplitExpenses implements ports.SplitLedger
func (r *SQLiteRepository) ListSplitExpenses(ctx context.Context) ([]core.SplitExpense, error) {
	rows, err := r.queries.ListSplitExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list split expenses: %w", err)
	}
	return toCoreExpenses(rows)
}

func (r *SQLiteRepository) AddSplitExpense(ctx context.Context, e core.SplitExpense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	participants, err := json.Marshal(e.Participants)
	if err != nil {
		return fmt.Errorf("encode participants: %w", err)
	}
	err = r.queries.InsertSplitExpense(ctx, InsertSplitExpenseParams{
		ID:           e.ID,
		Payer:        e.Payer,
		Amount:       e.Amount,
		Participants: string(participants),
		Description:  e.Description,
		CreatedAt:    e.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("add split expense: %w", err)
	}

	slog.InfoContext(ctx, "Split expense saved to SQLite",
		"id", e.ID,
		"payer", e.Payer,
		"amount", e.Amount,
		"participants", len(e.Participants))
	return nil
}

func (r *SQLiteRepository) DeleteSplitExpense(ctx context.Context, id string) error {
	n, err := r.queries.DeleteSplitExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("delete split expense: %w", err)
	}
	return notFoundIfNone(n, "expense", id)
}

// GetSplitExpense returns a single expense by ID.
func (r *SQLiteRepository) GetSplitExpense(ctx context.Context, id string) (core.SplitExpense, error) {
	row, err := r.queries.GetSplitExpense(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SplitExpense{}, fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.SplitExpense{}, fmt.Errorf("get split expense: %w", err)
	}
	return toCoreExpense(row)
}

// PendingSplitExpenses returns up to limit expenses not yet exported, oldest first.
func (r *SQLiteRepository) PendingSplitExpenses(ctx context.Context, limit int) ([]core.SplitExpense, error) {
	rows, err := r.queries.PendingSplitExpenses(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending split expenses: %w", err)
	}
	return toCoreExpenses(rows)
}

// MarkSynced marks an expense as exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if err := r.queries.MarkSplitExpenseSynced(ctx, id, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("mark expense synced: %w", err)
	}
	slog.InfoContext(ctx, "Split expense marked as synced", "id", id)
	return nil
}

// MarkSyncError flags an expense whose export failed; it stays pending.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if err := r.queries.MarkSplitExpenseSyncError(ctx, id); err != nil {
		return fmt.Errorf("mark expense sync error: %w", err)
	}
	slog.WarnContext(ctx, "Split expense marked with sync error", "id", id)
	return nil
}

// SyncStatus returns the export state of an expense.
func (r *SQLiteRepository) SyncStatus(ctx context.Context, id string) (string, error) {
	row, err := r.queries.GetSplitExpense(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get split expense: %w", err)
	}
	return row.SyncStatus, nil
}

func toCoreExpenses(rows []SplitExpense) ([]core.SplitExpense, error) {
	out := make([]core.SplitExpense, 0, len(rows))
	for _, row := range rows {
		e, err := toCoreExpense(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func toCoreExpense(row SplitExpense) (core.SplitExpense, error) {
	var participants []string
	if err := json.Unmarshal([]byte(row.Participants), &participants); err != nil {
		return core.SplitExpense{}, fmt.Errorf("decode participants of %s: %w", row.ID, err)
	}
	return core.SplitExpense{
		ID:           row.ID,
		Payer:        row.Payer,
		Amount:       row.Amount,
		Participants: participants,
		Description:  row.Description,
		CreatedAt:    fromMillis(row.CreatedAt),
	}, nil
}

// ListDevNotes implements ports.DevNoteStore
func (r *SQLiteRepository) ListDevNotes(ctx context.Context) ([]core.DevNote, error) {
	rows, err := r.queries.ListDevNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dev notes: %w", err)
	}
	out := make([]core.DevNote, len(rows))
	for i, n := range rows {
		out[i] = core.DevNote{
			ID:        n.ID,
			Text:      n.Text,
			Type:      core.NoteType(n.Type),
			Page:      n.Page,
			Timestamp: fromMillis(n.CreatedAt),
		}
	}
	return out, nil
}

func (r *SQLiteRepository) AddDevNote(ctx context.Context, n core.DevNote) error {
	if err := n.Validate(); err != nil {
		return err
	}
	err := r.queries.InsertDevNote(ctx, DevNote{
		ID:        n.ID,
		Text:      n.Text,
		Type:      string(n.Type),
		Page:      n.Page,
		CreatedAt: n.Timestamp.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("add dev note: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteDevNote(ctx context.Context, id string) error {
	n, err := r.queries.DeleteDevNote(ctx, id)
	if err != nil {
		return fmt.Errorf("delete dev note: %w", err)
	}
	return notFoundIfNone(n, "note", id)
}
