package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"nexus/internal/core"
	"nexus/internal/metrics"
	"nexus/internal/ports"
)

// Publisher announces ledger changes to the sync worker.
type Publisher interface {
	PublishLedgerSync(ctx context.Context, id string, version int64) error
	Close() error
}

// LedgerSyncService stores split expenses locally and publishes a sync
// message for each new one. A nil publisher disables publishing.
type LedgerSyncService struct {
	ledger    ports.SplitLedger
	publisher Publisher
}

func NewLedgerSyncService(ledger ports.SplitLedger, publisher Publisher) *LedgerSyncService {
	return &LedgerSyncService{
		ledger:    ledger,
		publisher: publisher,
	}
}

// CreateExpense saves e locally and publishes a sync message. A publish
// failure is logged, not returned: the expense is already stored and the
// worker's sweep picks it up.
func (s *LedgerSyncService) CreateExpense(ctx context.Context, e core.SplitExpense) error {
	if err := s.ledger.AddSplitExpense(ctx, e); err != nil {
		return fmt.Errorf("save split expense: %w", err)
	}

	if err := s.publishSyncMessage(ctx, e.ID, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", e.ID, "error", err)
	}
	return nil
}

// DeleteExpense removes the local row. Exported sheet rows are left alone.
func (s *LedgerSyncService) DeleteExpense(ctx context.Context, id string) error {
	if err := s.ledger.DeleteSplitExpense(ctx, id); err != nil {
		return fmt.Errorf("delete split expense: %w", err)
	}
	return nil
}

func (s *LedgerSyncService) publishSyncMessage(ctx context.Context, id string, version int64) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	if err := s.publisher.PublishLedgerSync(ctx, id, version); err != nil {
		metrics.SyncMessagesPublished.WithLabelValues("error").Inc()
		return err
	}
	metrics.SyncMessagesPublished.WithLabelValues("ok").Inc()
	return nil
}

// Close closes the publisher and, when it owns one, the ledger.
func (s *LedgerSyncService) Close() error {
	var errs []error

	if c, ok := s.ledger.(io.Closer); ok && c != nil {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close ledger sync service: %w", err)
	}
	return nil
}
