package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"nexus/internal/core"
	"nexus/internal/objstore"
	"nexus/internal/storage/memory"
)

var (
	testNow   = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	testClock = func() time.Time { return testNow }
)

type failingShortcuts struct{ memory.Store }

func (*failingShortcuts) ListShortcuts(context.Context) ([]core.Shortcut, error) {
	return nil, errors.New("connection refused")
}

func TestLauncherService_Launchpad(t *testing.T) {
	ctx := context.Background()

	t.Run("store error loads defaults", func(t *testing.T) {
		svc := NewLauncherService(&failingShortcuts{}, testClock)
		got := svc.Launchpad(ctx)
		if got.SyncStatus != core.SyncStatusDefaults || !got.Defaults {
			t.Fatalf("unexpected status %q defaults=%v", got.SyncStatus, got.Defaults)
		}
		if diff := cmp.Diff(core.DefaultShortcuts(), got.Shortcuts); diff != "" {
			t.Fatalf("shortcuts mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty store loads defaults but reports synced", func(t *testing.T) {
		svc := NewLauncherService(memory.New(), testClock)
		got := svc.Launchpad(ctx)
		if got.SyncStatus != core.SyncStatusSynced || !got.Defaults || len(got.Shortcuts) != 3 {
			t.Fatalf("unexpected launchpad %+v", got)
		}
	})

	t.Run("stored shortcuts", func(t *testing.T) {
		store := memory.New()
		svc := NewLauncherService(store, testClock)
		if _, err := svc.Save(ctx, "", "Docs", "https://docs.example.com"); err != nil {
			t.Fatal(err)
		}
		got := svc.Launchpad(ctx)
		if got.Defaults || got.SyncStatus != core.SyncStatusSynced || len(got.Shortcuts) != 1 {
			t.Fatalf("unexpected launchpad %+v", got)
		}
	})
}

func TestLauncherService_Save(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewLauncherService(store, testClock)

	created, err := svc.Save(ctx, "null", "  Docs ", " https://docs.example.com ")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if created.ID == "" || created.ID == "null" {
		t.Fatalf("expected generated id, got %q", created.ID)
	}
	if created.Name != "Docs" || created.URL != "https://docs.example.com" {
		t.Fatalf("fields not trimmed: %+v", created)
	}
	if created.Order != testNow.Unix() {
		t.Fatalf("Order = %d, want %d", created.Order, testNow.Unix())
	}

	updated, err := svc.Save(ctx, created.ID, "Docs v2", "https://docs.example.com/v2")
	if err != nil {
		t.Fatalf("Save() update error = %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("update changed id: %q -> %q", created.ID, updated.ID)
	}
	list, _ := store.ListShortcuts(ctx)
	if len(list) != 1 || list[0].Name != "Docs v2" {
		t.Fatalf("unexpected stored shortcuts %+v", list)
	}

	if _, err := svc.Save(ctx, "", " ", "x"); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestLauncherService_Reorder(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewLauncherService(store, testClock)
	a, _ := svc.Save(ctx, "", "A", "a.html")
	b, _ := svc.Save(ctx, "", "B", "b.html")

	if err := svc.Reorder(ctx, []string{b.ID, a.ID}); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}
	list, _ := store.ListShortcuts(ctx)
	if list[0].ID != b.ID || list[0].Order != 0 || list[1].Order != 1 {
		t.Fatalf("unexpected order %+v", list)
	}
	if err := svc.Reorder(ctx, nil); err != nil {
		t.Fatalf("empty reorder should be a no-op, got %v", err)
	}
	if err := svc.Delete(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHabitService(t *testing.T) {
	ctx := context.Background()
	now := testNow
	clock := func() time.Time { return now }
	svc := NewHabitService(memory.New(), clock)

	created, err := svc.Create(ctx, " Read ")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Name != "Read" || created.Today != 0 || created.Streak != 0 {
		t.Fatalf("unexpected created habit %+v", created)
	}

	st, err := svc.Toggle(ctx, created.ID, nil)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !st.DoneToday || st.Streak != 1 {
		t.Fatalf("after first toggle: %+v", st)
	}

	now = now.Add(24 * time.Hour)
	st, err = svc.Toggle(ctx, created.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if st.Today != 1 || st.Streak != 2 {
		t.Fatalf("after second day: %+v", st)
	}

	day := 1
	st, err = svc.Toggle(ctx, created.ID, &day)
	if err != nil {
		t.Fatal(err)
	}
	if st.DoneToday || st.Streak != 1 {
		t.Fatalf("untoggling today: %+v", st)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Streak != 1 || list[0].DoneToday {
		t.Fatalf("unexpected list %+v", list)
	}

	if _, err := svc.Toggle(ctx, "missing", nil); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Create(ctx, ""); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

type countingLedger struct {
	*memory.Store
	lists atomic.Int32
}

func (c *countingLedger) ListSplitExpenses(ctx context.Context) ([]core.SplitExpense, error) {
	c.lists.Add(1)
	return c.Store.ListSplitExpenses(ctx)
}

func TestLedgerService_Balances(t *testing.T) {
	ctx := context.Background()
	ledger := &countingLedger{Store: memory.New()}
	svc := NewLedgerService(ledger, testClock)

	e, err := svc.Add(ctx, "Alice", 30, []string{"Alice", " Bob ", "Carol"}, "dinner")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if e.ID == "" || !e.CreatedAt.Equal(testNow) || e.Participants[1] != "Bob" {
		t.Fatalf("unexpected expense %+v", e)
	}

	want := []core.ParticipantBalance{
		{Participant: "Alice", Amount: 20},
		{Participant: "Bob", Amount: -10},
		{Participant: "Carol", Amount: -10},
	}
	for i := 0; i < 2; i++ {
		got, err := svc.Balances(ctx)
		if err != nil {
			t.Fatalf("Balances() error = %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("balances mismatch (-want +got):\n%s", diff)
		}
	}
	if n := ledger.lists.Load(); n != 1 {
		t.Fatalf("expected cached balances, ledger listed %d times", n)
	}

	if err := svc.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, err := svc.Balances(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no balances after delete, got %+v", got)
	}
	if n := ledger.lists.Load(); n != 2 {
		t.Fatalf("delete should invalidate the cache, ledger listed %d times", n)
	}
}

// stallingLedger holds the first list call after taking its snapshot, so a
// write can land while balances are being computed.
type stallingLedger struct {
	*memory.Store
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (l *stallingLedger) ListSplitExpenses(ctx context.Context) ([]core.SplitExpense, error) {
	expenses, err := l.Store.ListSplitExpenses(ctx)
	l.once.Do(func() {
		close(l.entered)
		<-l.release
	})
	return expenses, err
}

func TestLedgerService_BalancesNotCachedAcrossWrite(t *testing.T) {
	ctx := context.Background()
	ledger := &stallingLedger{
		Store:   memory.New(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := NewLedgerService(ledger, testClock)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Balances(ctx)
		done <- err
	}()

	<-ledger.entered
	if _, err := svc.Add(ctx, "Alice", 100, []string{"Alice", "Bob"}, ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	close(ledger.release)
	if err := <-done; err != nil {
		t.Fatalf("concurrent Balances() error = %v", err)
	}

	got, err := svc.Balances(ctx)
	if err != nil {
		t.Fatalf("Balances() error = %v", err)
	}
	want := []core.ParticipantBalance{
		{Participant: "Alice", Amount: 50},
		{Participant: "Bob", Amount: -50},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("balances after concurrent write mismatch (-want +got):\n%s", diff)
	}
}

func TestLedgerService_AddRejectsInvalid(t *testing.T) {
	svc := NewLedgerService(memory.New(), testClock)
	ctx := context.Background()
	if _, err := svc.Add(ctx, "Alice", 10, nil, ""); !errors.Is(err, core.ErrNoParticipants) {
		t.Fatalf("expected ErrNoParticipants, got %v", err)
	}
	if _, err := svc.Add(ctx, "", 10, []string{"Bob"}, ""); !errors.Is(err, core.ErrEmptyPayer) {
		t.Fatalf("expected ErrEmptyPayer, got %v", err)
	}
	if _, err := svc.Add(ctx, "Alice", -1, []string{"Bob"}, ""); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestNotesService(t *testing.T) {
	ctx := context.Background()
	now := testNow
	svc := NewNotesService(memory.New(), func() time.Time { return now })

	if _, err := svc.Add(ctx, "Button misaligned", core.NoteBug, "index.html"); err != nil {
		t.Fatal(err)
	}
	now = now.Add(time.Minute)
	n, err := svc.Add(ctx, "Add dark mode", "", "split.html")
	if err != nil {
		t.Fatal(err)
	}
	if n.Type != core.NoteNote {
		t.Fatalf("empty type should default to note, got %q", n.Type)
	}
	if _, err := svc.Add(ctx, "x", "todo", ""); !errors.Is(err, core.ErrInvalidNoteType) {
		t.Fatalf("expected ErrInvalidNoteType, got %v", err)
	}

	md, err := svc.ExportMarkdown(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := "# Dev Notes (2 total)\n\n" +
		"📝 **NOTE** [split.html] - 2024-06-01 10:01:00\nAdd dark mode\n" +
		"\n---\n\n" +
		"🐛 **BUG** [index.html] - 2024-06-01 10:00:00\nButton misaligned\n"
	if md != want {
		t.Fatalf("ExportMarkdown() =\n%s\nwant:\n%s", md, want)
	}

	if err := svc.Delete(ctx, n.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, n.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScreenshotService(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	objects, err := objstore.NewFileStore(dir, "/files")
	if err != nil {
		t.Fatal(err)
	}
	svc := NewScreenshotService(objects, func() time.Time { return time.UnixMilli(1700000000123) })

	shot, err := svc.Upload(ctx, "data:image/png;base64,aGVsbG8=", "page.png")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if shot.Path != "1700000000123-page.png" || shot.URL != "/files/1700000000123-page.png" {
		t.Fatalf("unexpected screenshot %+v", shot)
	}
	raw, err := os.ReadFile(filepath.Join(dir, shot.Path))
	if err != nil || string(raw) != "hello" {
		t.Fatalf("stored file = %q, %v", raw, err)
	}

	if _, err := svc.Upload(ctx, "data:image/png;base64,aGVsbG8=", "page.png"); !errors.Is(err, objstore.ErrExists) {
		t.Fatalf("expected ErrExists on same key, got %v", err)
	}
	if _, err := svc.Upload(ctx, "not base64!", "x.png"); !errors.Is(err, core.ErrInvalidUpload) {
		t.Fatalf("expected ErrInvalidUpload, got %v", err)
	}

	if err := svc.Delete(ctx, shot.Path); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, ""); !errors.Is(err, core.ErrInvalidUpload) {
		t.Fatalf("expected ErrInvalidUpload, got %v", err)
	}
}
