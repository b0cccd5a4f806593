// Package ports declares the outbound interfaces the services depend on.
// Backends (memory, sqlite, postgres) implement the store ports; the object
// store and the Google Sheets exporter implement the rest.
package ports

import (
	"context"

	"nexus/internal/core"
)

type (
	// ShortcutStore persists launcher tiles. ListShortcuts returns them by
	// ascending Order.
	ShortcutStore interface {
		ListShortcuts(ctx context.Context) ([]core.Shortcut, error)
		// SaveShortcut inserts s, or replaces the stored tile with the same ID.
		SaveShortcut(ctx context.Context, s core.Shortcut) error
		DeleteShortcut(ctx context.Context, id string) error
		// ReorderShortcuts sets Order to the position of each ID in ids.
		ReorderShortcuts(ctx context.Context, ids []string) error
	}

	HabitStore interface {
		ListHabits(ctx context.Context) ([]core.Habit, error)
		CreateHabit(ctx context.Context, h core.Habit) error
		DeleteHabit(ctx context.Context, id string) error
		// ToggleCompletion flips day in the habit's completion set and
		// reports whether the day is now completed.
		ToggleCompletion(ctx context.Context, id string, day int) (bool, error)
	}

	// SplitLedger stores shared expenses, oldest first.
	SplitLedger interface {
		ListSplitExpenses(ctx context.Context) ([]core.SplitExpense, error)
		AddSplitExpense(ctx context.Context, e core.SplitExpense) error
		DeleteSplitExpense(ctx context.Context, id string) error
	}

	// DevNoteStore lists notes newest first.
	DevNoteStore interface {
		ListDevNotes(ctx context.Context) ([]core.DevNote, error)
		AddDevNote(ctx context.Context, n core.DevNote) error
		DeleteDevNote(ctx context.Context, id string) error
	}

	// ObjectStore holds uploaded files. Put never overwrites an existing key.
	ObjectStore interface {
		Put(ctx context.Context, key, contentType string, data []byte) error
		Delete(ctx context.Context, key string) error
		PublicURL(key string) string
	}

	// LedgerExporter appends an expense to an external ledger and returns a
	// reference to the written row.
	LedgerExporter interface {
		AppendExpense(ctx context.Context, e core.SplitExpense) (rowRef string, err error)
	}

	// LedgerReader reads a full ledger from an external source.
	LedgerReader interface {
		ReadExpenses(ctx context.Context) ([]core.SplitExpense, error)
	}

	// Pinger is implemented by backends that can report readiness.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
