package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"nexus/internal/core"
	"nexus/internal/storage/memory"
)

type fakePublisher struct {
	published []string
	err       error
	closed    bool
}

func (p *fakePublisher) PublishLedgerSync(_ context.Context, id string, version int64) error {
	if p.err != nil {
		return p.err
	}
	if version != 1 {
		return errors.New("unexpected version")
	}
	p.published = append(p.published, id)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

func sampleExpense(id string) core.SplitExpense {
	return core.SplitExpense{
		ID:           id,
		Payer:        "Alice",
		Amount:       12.5,
		Participants: []string{"Alice", "Bob"},
		CreatedAt:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestLedgerSyncService_CreateExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("saves then publishes", func(t *testing.T) {
		store := memory.New()
		pub := &fakePublisher{}
		svc := NewLedgerSyncService(store, pub)

		if err := svc.CreateExpense(ctx, sampleExpense("e1")); err != nil {
			t.Fatalf("CreateExpense() error = %v", err)
		}
		if len(pub.published) != 1 || pub.published[0] != "e1" {
			t.Fatalf("published = %v, want [e1]", pub.published)
		}
		list, _ := store.ListSplitExpenses(ctx)
		if len(list) != 1 {
			t.Fatalf("expected 1 stored expense, got %d", len(list))
		}
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		store := memory.New()
		svc := NewLedgerSyncService(store, &fakePublisher{err: errors.New("circuit breaker is open")})
		if err := svc.CreateExpense(ctx, sampleExpense("e1")); err != nil {
			t.Fatalf("CreateExpense() error = %v", err)
		}
		list, _ := store.ListSplitExpenses(ctx)
		if len(list) != 1 {
			t.Fatalf("expense should still be stored, got %d", len(list))
		}
	})

	t.Run("save failure skips publishing", func(t *testing.T) {
		pub := &fakePublisher{}
		svc := NewLedgerSyncService(memory.New(), pub)
		bad := sampleExpense("e1")
		bad.Participants = nil
		if err := svc.CreateExpense(ctx, bad); !errors.Is(err, core.ErrNoParticipants) {
			t.Fatalf("expected ErrNoParticipants, got %v", err)
		}
		if len(pub.published) != 0 {
			t.Fatalf("nothing should be published, got %v", pub.published)
		}
	})

	t.Run("nil publisher", func(t *testing.T) {
		svc := NewLedgerSyncService(memory.New(), nil)
		if err := svc.CreateExpense(ctx, sampleExpense("e1")); err != nil {
			t.Fatalf("CreateExpense() error = %v", err)
		}
		if err := svc.DeleteExpense(ctx, "e1"); err != nil {
			t.Fatalf("DeleteExpense() error = %v", err)
		}
	})
}

func TestLedgerSyncService_Close(t *testing.T) {
	t.Run("nil components", func(t *testing.T) {
		svc := &LedgerSyncService{}
		if err := svc.Close(); err != nil {
			t.Fatalf("Close should not return error with nil components: %v", err)
		}
	})

	t.Run("closes publisher", func(t *testing.T) {
		pub := &fakePublisher{}
		svc := NewLedgerSyncService(memory.New(), pub)
		if err := svc.Close(); err != nil {
			t.Fatal(err)
		}
		if !pub.closed {
			t.Fatal("publisher was not closed")
		}
	})
}
