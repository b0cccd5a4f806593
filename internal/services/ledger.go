package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"nexus/internal/cache"
	"nexus/internal/core"
	"nexus/internal/ports"
)

const balancesKey = "balances"

// LedgerService manages the shared-expense ledger and its balances.
type LedgerService struct {
	ledger   ports.SplitLedger
	balances *cache.LRUCache[core.Balances]
	now      func() time.Time

	// generation increments on every ledger write; a balance computed from
	// an older generation is never cached.
	mu         sync.Mutex
	generation uint64
}

func NewLedgerService(ledger ports.SplitLedger, now func() time.Time) *LedgerService {
	if now == nil {
		now = time.Now
	}
	return &LedgerService{
		ledger:   ledger,
		balances: cache.NewLRUCache[core.Balances](1, 10*time.Minute),
		now:      now,
	}
}

// Cache exposes the balance cache for registration with a cache.Manager.
func (s *LedgerService) Cache() cache.Cleaner {
	return s.balances
}

func (s *LedgerService) List(ctx context.Context) ([]core.SplitExpense, error) {
	expenses, err := s.ledger.ListSplitExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list split expenses: %w", err)
	}
	return expenses, nil
}

func (s *LedgerService) Add(ctx context.Context, payer string, amount float64, participants []string, description string) (core.SplitExpense, error) {
	e := core.SplitExpense{
		ID:           uuid.NewString(),
		Payer:        strings.TrimSpace(payer),
		Amount:       amount,
		Participants: make([]string, 0, len(participants)),
		Description:  strings.TrimSpace(description),
		CreatedAt:    s.now(),
	}
	for _, p := range participants {
		e.Participants = append(e.Participants, strings.TrimSpace(p))
	}
	if err := e.Validate(); err != nil {
		return core.SplitExpense{}, err
	}
	if err := s.ledger.AddSplitExpense(ctx, e); err != nil {
		return core.SplitExpense{}, fmt.Errorf("add split expense: %w", err)
	}
	s.invalidate()
	return e, nil
}

func (s *LedgerService) Delete(ctx context.Context, id string) error {
	if err := s.ledger.DeleteSplitExpense(ctx, id); err != nil {
		return fmt.Errorf("delete split expense: %w", err)
	}
	s.invalidate()
	return nil
}

// Balances returns every participant's net balance, sorted by name.
func (s *LedgerService) Balances(ctx context.Context) ([]core.ParticipantBalance, error) {
	if b, ok := s.balances.Get(balancesKey); ok {
		return b.Sorted(), nil
	}
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	expenses, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	b, err := core.ComputeBalances(expenses)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.generation == gen {
		s.balances.Set(balancesKey, b)
	}
	s.mu.Unlock()
	return b.Sorted(), nil
}

func (s *LedgerService) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.balances.Purge()
}
