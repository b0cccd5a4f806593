package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"nexus/internal/core"
	"nexus/internal/ports"
)

// HabitService evaluates habits against its clock.
type HabitService struct {
	store ports.HabitStore
	now   func() time.Time
}

func NewHabitService(store ports.HabitStore, now func() time.Time) *HabitService {
	if now == nil {
		now = time.Now
	}
	return &HabitService{store: store, now: now}
}

func (s *HabitService) List(ctx context.Context) ([]core.HabitStatus, error) {
	habits, err := s.store.ListHabits(ctx)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	now := s.now()
	out := make([]core.HabitStatus, len(habits))
	for i, h := range habits {
		out[i] = h.Status(now)
	}
	return out, nil
}

func (s *HabitService) Get(ctx context.Context, id string) (core.Habit, error) {
	habits, err := s.store.ListHabits(ctx)
	if err != nil {
		return core.Habit{}, fmt.Errorf("list habits: %w", err)
	}
	for _, h := range habits {
		if h.ID == id {
			return h, nil
		}
	}
	return core.Habit{}, fmt.Errorf("habit %s: %w", id, core.ErrNotFound)
}

func (s *HabitService) Create(ctx context.Context, name string) (core.HabitStatus, error) {
	h := core.Habit{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		CreatedAt: s.now(),
	}
	if err := h.Validate(); err != nil {
		return core.HabitStatus{}, err
	}
	if err := s.store.CreateHabit(ctx, h); err != nil {
		return core.HabitStatus{}, fmt.Errorf("create habit: %w", err)
	}
	return h.Status(h.CreatedAt), nil
}

func (s *HabitService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteHabit(ctx, id); err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}

// Toggle flips the completion of day, or of today when day is nil, and
// returns the habit's updated status.
func (s *HabitService) Toggle(ctx context.Context, id string, day *int) (core.HabitStatus, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return core.HabitStatus{}, err
	}
	now := s.now()
	d := core.DayIndex(h.CreatedAt, now)
	if day != nil {
		d = *day
	}
	done, err := s.store.ToggleCompletion(ctx, id, d)
	if err != nil {
		return core.HabitStatus{}, fmt.Errorf("toggle completion: %w", err)
	}
	h.Completions = slices.DeleteFunc(h.Completions, func(c int) bool { return c == d })
	if done {
		h.Completions = append(h.Completions, d)
	}
	return h.Status(now), nil
}
