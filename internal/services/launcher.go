package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"nexus/internal/core"
	"nexus/internal/ports"
)

// Launchpad is what the launcher page renders.
type Launchpad struct {
	Shortcuts  []core.Shortcut `json:"shortcuts"`
	SyncStatus string          `json:"sync_status"`
	Defaults   bool            `json:"defaults"`
}

// LauncherService manages launcher tiles.
type LauncherService struct {
	store ports.ShortcutStore
	now   func() time.Time
}

func NewLauncherService(store ports.ShortcutStore, now func() time.Time) *LauncherService {
	if now == nil {
		now = time.Now
	}
	return &LauncherService{store: store, now: now}
}

// Launchpad lists the stored shortcuts. It never fails: a store error or an
// empty store yields the default tiles, and only an error changes the status.
func (s *LauncherService) Launchpad(ctx context.Context) Launchpad {
	shortcuts, err := s.store.ListShortcuts(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Using default shortcuts, store unavailable", "error", err)
		return Launchpad{Shortcuts: core.DefaultShortcuts(), SyncStatus: core.SyncStatusDefaults, Defaults: true}
	}
	if len(shortcuts) == 0 {
		return Launchpad{Shortcuts: core.DefaultShortcuts(), SyncStatus: core.SyncStatusSynced, Defaults: true}
	}
	return Launchpad{Shortcuts: shortcuts, SyncStatus: core.SyncStatusSynced}
}

// Save creates a shortcut when id is empty, otherwise replaces it. Either
// way the tile moves to the end of the grid.
func (s *LauncherService) Save(ctx context.Context, id, name, rawURL string) (core.Shortcut, error) {
	id = strings.TrimSpace(id)
	if id == "" || id == "null" {
		id = uuid.NewString()
	}
	sc := core.Shortcut{
		ID:    id,
		Name:  strings.TrimSpace(name),
		URL:   strings.TrimSpace(rawURL),
		Order: s.now().Unix(),
	}
	if err := sc.Validate(); err != nil {
		return core.Shortcut{}, err
	}
	if err := s.store.SaveShortcut(ctx, sc); err != nil {
		return core.Shortcut{}, fmt.Errorf("save shortcut: %w", err)
	}
	slog.InfoContext(ctx, "Shortcut saved", "id", sc.ID, "name", sc.Name)
	return sc, nil
}

func (s *LauncherService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteShortcut(ctx, id); err != nil {
		return fmt.Errorf("delete shortcut: %w", err)
	}
	return nil
}

// Reorder persists the display order given as a list of IDs.
func (s *LauncherService) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.store.ReorderShortcuts(ctx, ids); err != nil {
		return fmt.Errorf("reorder shortcuts: %w", err)
	}
	return nil
}
