package storage

import "database/sql"

// Row types mirror the tables in migrations/. Timestamps are Unix milliseconds.
type (
	Shortcut struct {
		ID        string
		Name      string
		Url       string
		SortOrder int64
	}

	Habit struct {
		ID        string
		Name      string
		CreatedAt int64
	}

	HabitCompletion struct {
		HabitID string
		Day     int64
	}

	SplitExpense struct {
		ID           string
		Payer        string
		Amount       float64
		Participants string
		Description  string
		CreatedAt    int64
		SyncStatus   string
		SyncedAt     sql.NullInt64
	}

	DevNote struct {
		ID        string
		Text      string
		Type      string
		Page      string
		CreatedAt int64
	}
)

const (
	SyncStatusPending = "pending"
	SyncStatusSynced  = "synced"
	SyncStatusError   = "error"
)
