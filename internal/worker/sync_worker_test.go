package worker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"nexus/internal/amqp"
	"nexus/internal/core"
	"nexus/internal/storage"
)

type fakeExporter struct {
	mu       sync.Mutex
	appended []string
	failFor  map[string]bool
}

func (f *fakeExporter) AppendExpense(_ context.Context, e core.SplitExpense) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[e.ID] {
		return "", errors.New("sheets unavailable")
	}
	f.appended = append(f.appended, e.ID)
	return fmt.Sprintf("Split!A%d:F%d", len(f.appended)+1, len(f.appended)+1), nil
}

func (f *fakeExporter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appended)
}

func newRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "worker.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func addExpense(t *testing.T, repo *storage.SQLiteRepository, id string, at time.Time) {
	t.Helper()
	err := repo.AddSplitExpense(context.Background(), core.SplitExpense{
		ID:           id,
		Payer:        "Alice",
		Amount:       9,
		Participants: []string{"Alice", "Bob", "Carol"},
		CreatedAt:    at,
	})
	if err != nil {
		t.Fatalf("AddSplitExpense(%s) error = %v", id, err)
	}
}

func TestSyncWorker_HandleSyncMessage(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	exporter := &fakeExporter{}
	w := NewSyncWorker(repo, exporter, 10)

	addExpense(t, repo, "e1", time.UnixMilli(1_700_000_000_000))

	if err := w.HandleSyncMessage(ctx, amqp.NewLedgerSyncMessage("e1", 1)); err != nil {
		t.Fatalf("HandleSyncMessage() error = %v", err)
	}
	if status, _ := repo.SyncStatus(ctx, "e1"); status != storage.SyncStatusSynced {
		t.Fatalf("status = %q, want synced", status)
	}

	// Redelivery of the same message must not export twice.
	if err := w.HandleSyncMessage(ctx, amqp.NewLedgerSyncMessage("e1", 1)); err != nil {
		t.Fatalf("redelivery error = %v", err)
	}
	if n := exporter.count(); n != 1 {
		t.Fatalf("exported %d times, want 1", n)
	}

	if err := w.HandleSyncMessage(ctx, amqp.NewLedgerSyncMessage("gone", 1)); err != nil {
		t.Fatalf("message for a deleted expense should be acknowledged, got %v", err)
	}
}

func TestSyncWorker_HandleSyncMessageExportFailure(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	w := NewSyncWorker(repo, &fakeExporter{failFor: map[string]bool{"e1": true}}, 10)
	addExpense(t, repo, "e1", time.UnixMilli(1_700_000_000_000))

	if err := w.HandleSyncMessage(ctx, amqp.NewLedgerSyncMessage("e1", 1)); err == nil {
		t.Fatal("expected export error")
	}
	if status, _ := repo.SyncStatus(ctx, "e1"); status != storage.SyncStatusError {
		t.Fatalf("status = %q, want error", status)
	}
}

func TestSyncWorker_ProcessPending(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	exporter := &fakeExporter{failFor: map[string]bool{"e2": true}}
	w := NewSyncWorker(repo, exporter, 2)

	base := time.UnixMilli(1_700_000_000_000)
	for i, id := range []string{"e1", "e2", "e3"} {
		addExpense(t, repo, id, base.Add(time.Duration(i)*time.Minute))
	}

	synced, err := w.ProcessPending(ctx)
	if err != nil {
		t.Fatalf("ProcessPending() error = %v", err)
	}
	if synced != 1 {
		t.Fatalf("first batch synced %d, want 1", synced)
	}

	// e2 failed and stays pending alongside e3.
	synced, err = w.ProcessPending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if synced != 1 {
		t.Fatalf("second batch synced %d, want 1", synced)
	}
	for id, want := range map[string]string{
		"e1": storage.SyncStatusSynced,
		"e2": storage.SyncStatusError,
		"e3": storage.SyncStatusSynced,
	} {
		if got, _ := repo.SyncStatus(ctx, id); got != want {
			t.Errorf("SyncStatus(%s) = %q, want %q", id, got, want)
		}
	}
}

func TestSyncWorker_StartupSyncCheck(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	exporter := &fakeExporter{}
	w := NewSyncWorker(repo, exporter, 1)

	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("StartupSyncCheck() on empty store error = %v", err)
	}

	base := time.UnixMilli(1_700_000_000_000)
	for i := 0; i < 4; i++ {
		addExpense(t, repo, fmt.Sprintf("e%d", i), base.Add(time.Duration(i)*time.Second))
	}
	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("StartupSyncCheck() error = %v", err)
	}
	if n := exporter.count(); n != 4 {
		t.Fatalf("startup check exported %d, want 4 (batch size x5)", n)
	}
}

func TestScheduler(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "scheduler.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()
	exporter := &fakeExporter{}
	addExpense(t, repo, "e1", time.UnixMilli(1_700_000_000_000))

	s := NewScheduler(NewSyncWorker(repo, exporter, 10), "@every 1s")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if s.IsRunning() {
		t.Fatal("scheduler should not be running initially")
	}
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(ctx); err == nil {
		t.Fatal("expected error when starting a running scheduler")
	}

	deadline := time.Now().Add(5 * time.Second)
	for exporter.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if exporter.count() != 1 {
		t.Fatalf("scheduled sweep exported %d, want 1", exporter.count())
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}
	if s.IsRunning() {
		t.Fatal("scheduler should not be running after Stop")
	}
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := NewScheduler(NewSyncWorker(nil, nil, 1), "whenever")
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
	if s.IsRunning() {
		t.Fatal("scheduler should not run after a failed start")
	}
}
