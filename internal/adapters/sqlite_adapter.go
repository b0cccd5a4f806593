package adapters

import (
	"context"

	"nexus/internal/core"
	"nexus/internal/services"
	"nexus/internal/storage"
)

// SQLiteAdapter serves every store port from the SQLite repository, routing
// ledger writes through LedgerSyncService so new expenses get published for
// export.
type SQLiteAdapter struct {
	*storage.SQLiteRepository
	service *services.LedgerSyncService
}

func NewSQLiteAdapter(repo *storage.SQLiteRepository, service *services.LedgerSyncService) *SQLiteAdapter {
	return &SQLiteAdapter{
		SQLiteRepository: repo,
		service:          service,
	}
}

// AddSplitExpense implements ports.SplitLedger
func (a *SQLiteAdapter) AddSplitExpense(ctx context.Context, e core.SplitExpense) error {
	return a.service.CreateExpense(ctx, e)
}

// DeleteSplitExpense implements ports.SplitLedger
func (a *SQLiteAdapter) DeleteSplitExpense(ctx context.Context, id string) error {
	return a.service.DeleteExpense(ctx, id)
}
