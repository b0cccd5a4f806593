package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nexus/internal/amqp"
	"nexus/internal/core"
	"nexus/internal/metrics"
	"nexus/internal/ports"
	"nexus/internal/storage"
)

// SyncStore is the slice of the sqlite repository the worker needs.
type SyncStore interface {
	GetSplitExpense(ctx context.Context, id string) (core.SplitExpense, error)
	PendingSplitExpenses(ctx context.Context, limit int) ([]core.SplitExpense, error)
	SyncStatus(ctx context.Context, id string) (string, error)
	MarkSynced(ctx context.Context, id string) error
	MarkSyncError(ctx context.Context, id string) error
}

// SyncWorker exports split expenses from SQLite to the external ledger.
type SyncWorker struct {
	storage   SyncStore
	exporter  ports.LedgerExporter
	batchSize int
}

func NewSyncWorker(storage SyncStore, exporter ports.LedgerExporter, batchSize int) *SyncWorker {
	if batchSize < 1 {
		batchSize = 1
	}
	return &SyncWorker{
		storage:   storage,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single ledger sync message from AMQP.
// Messages for deleted or already exported expenses are acknowledged
// without exporting again.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.LedgerSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	status, err := w.storage.SyncStatus(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Expense no longer exists, skipping", "id", msg.ID)
		metrics.LedgerExports.WithLabelValues("skipped").Inc()
		return nil
	}
	if err != nil {
		return fmt.Errorf("get sync status: %w", err)
	}
	if status == storage.SyncStatusSynced {
		slog.InfoContext(ctx, "Expense already exported, skipping", "id", msg.ID)
		metrics.LedgerExports.WithLabelValues("skipped").Inc()
		return nil
	}

	expense, err := w.storage.GetSplitExpense(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}

	if err := w.syncExpense(ctx, expense); err != nil {
		return fmt.Errorf("sync expense: %w", err)
	}
	return nil
}

// ProcessPending exports a batch of expenses that have not been synced yet.
// It backs up the message path when AMQP messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) (synced int, err error) {
	pending, err := w.storage.PendingSplitExpenses(ctx, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("get pending expenses: %w", err)
	}
	metrics.PendingExports.Set(float64(len(pending)))

	if len(pending) == 0 {
		return 0, nil
	}

	slog.InfoContext(ctx, "Processing pending expenses", "count", len(pending))

	for _, e := range pending {
		if err := ctx.Err(); err != nil {
			return synced, err
		}
		if err := w.syncExpense(ctx, e); err != nil {
			slog.ErrorContext(ctx, "Failed to sync expense", "id", e.ID, "error", err)
			continue
		}
		synced++
	}
	return synced, nil
}

// StartupSyncCheck exports pending expenses once at worker startup, with a
// larger batch to catch up after downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.PendingSplitExpenses(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending expenses for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending expenses found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending expenses on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, e := range pending {
		if err := w.syncExpense(ctx, e); err != nil {
			slog.ErrorContext(ctx, "Failed to sync expense during startup",
				"id", e.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)
	return nil
}

func (w *SyncWorker) syncExpense(ctx context.Context, e core.SplitExpense) error {
	ref, err := w.exporter.AppendExpense(ctx, e)
	if err != nil {
		metrics.LedgerExports.WithLabelValues("error").Inc()
		if markErr := w.storage.MarkSyncError(ctx, e.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", e.ID, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}
	metrics.LedgerExports.WithLabelValues("ok").Inc()

	// The row is exported; a failed status update only means a later sweep
	// may export it again.
	if err := w.storage.MarkSynced(ctx, e.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", e.ID, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced expense",
		"id", e.ID,
		"ledger_ref", ref,
		"payer", e.Payer,
		"amount", e.Amount)
	return nil
}
