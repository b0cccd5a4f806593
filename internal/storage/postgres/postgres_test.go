package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"nexus/internal/core"
)

// Integration tests run only when NEXUS_TEST_DATABASE_URL points at a
// disposable database.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("NEXUS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("NEXUS_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestToggleCompletion(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	id := uuid.NewString()
	if err := db.CreateHabit(ctx, core.Habit{ID: id, Name: "Stretch", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { db.DeleteHabit(ctx, id) })

	done, err := db.ToggleCompletion(ctx, id, 4)
	if err != nil || !done {
		t.Fatalf("toggle on: done=%v err=%v", done, err)
	}
	done, err = db.ToggleCompletion(ctx, id, 4)
	if err != nil || done {
		t.Fatalf("toggle off: done=%v err=%v", done, err)
	}
	if _, err := db.ToggleCompletion(ctx, uuid.NewString(), 1); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSplitExpenseRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	e := core.SplitExpense{
		ID:           uuid.NewString(),
		Payer:        "Alice",
		Amount:       12.5,
		Participants: []string{"Alice", "Bob"},
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := db.AddSplitExpense(ctx, e); err != nil {
		t.Fatalf("add: %v", err)
	}
	t.Cleanup(func() { db.DeleteSplitExpense(ctx, e.ID) })

	all, err := db.ListSplitExpenses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, got := range all {
		if got.ID == e.ID {
			if got.Amount != e.Amount || len(got.Participants) != 2 {
				t.Fatalf("unexpected row: %+v", got)
			}
			return
		}
	}
	t.Fatalf("expense %s not listed", e.ID)
}
