package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"nexus/internal/core"
)

// SeedFile is the file NewFromDir looks for inside the data directory.
const SeedFile = "seed.yaml"

type (
	Store struct {
		mu        sync.Mutex
		shortcuts []core.Shortcut
		habits    []core.Habit
		ledger    []core.SplitExpense
		notes     []core.DevNote
	}

	seed struct {
		Shortcuts []seedShortcut      `yaml:"shortcuts"`
		Habits    []seedHabit         `yaml:"habits"`
		Split     []core.SplitExpense `yaml:"split"`
	}

	seedShortcut struct {
		ID    string `yaml:"id"`
		Name  string `yaml:"name"`
		URL   string `yaml:"url"`
		Order int64  `yaml:"order"`
	}

	seedHabit struct {
		ID          string    `yaml:"id"`
		Name        string    `yaml:"name"`
		CreatedAt   time.Time `yaml:"created_at"`
		Completions []int     `yaml:"completions"`
	}
)

func New() *Store {
	return &Store{}
}

// NewFromDir builds a store seeded from base/seed.yaml. A missing file yields
// an empty store; a malformed one is an error.
func NewFromDir(base string, now time.Time) (*Store, error) {
	s := New()
	raw, err := os.ReadFile(filepath.Join(base, SeedFile))
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var sd seed
	if err := yaml.Unmarshal(raw, &sd); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	for _, sc := range sd.Shortcuts {
		v := core.Shortcut{ID: orNewID(sc.ID), Name: sc.Name, URL: sc.URL, Order: sc.Order}
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("seed shortcut %q: %w", sc.Name, err)
		}
		s.shortcuts = append(s.shortcuts, v)
	}
	for _, h := range sd.Habits {
		v := core.Habit{ID: orNewID(h.ID), Name: h.Name, CreatedAt: h.CreatedAt, Completions: h.Completions}
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now
		}
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("seed habit %q: %w", h.Name, err)
		}
		s.habits = append(s.habits, v)
	}
	for _, e := range sd.Split {
		e.ID = orNewID(e.ID)
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("seed expense %s: %w", e.ID, err)
		}
		s.ledger = append(s.ledger, e)
	}
	return s, nil
}

func orNewID(id string) string {
	if strings.TrimSpace(id) == "" {
		return uuid.NewString()
	}
	return id
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) ListShortcuts(_ context.Context) ([]core.Shortcut, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.shortcuts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *Store) SaveShortcut(_ context.Context, sc core.Shortcut) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shortcuts {
		if s.shortcuts[i].ID == sc.ID {
			s.shortcuts[i] = sc
			return nil
		}
	}
	s.shortcuts = append(s.shortcuts, sc)
	return nil
}

func (s *Store) DeleteShortcut(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.shortcuts, func(sc core.Shortcut) bool { return sc.ID == id })
	if i < 0 {
		return fmt.Errorf("shortcut %s: %w", id, core.ErrNotFound)
	}
	s.shortcuts = slices.Delete(s.shortcuts, i, i+1)
	return nil
}

// ReorderShortcuts applies positions for known IDs and ignores unknown ones.
func (s *Store) ReorderShortcuts(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := make(map[string]int64, len(ids))
	for i, id := range ids {
		pos[id] = int64(i)
	}
	for i := range s.shortcuts {
		if p, ok := pos[s.shortcuts[i].ID]; ok {
			s.shortcuts[i].Order = p
		}
	}
	return nil
}

func (s *Store) ListHabits(_ context.Context) ([]core.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Habit, len(s.habits))
	for i, h := range s.habits {
		h.Completions = slices.Clone(h.Completions)
		out[i] = h
	}
	return out, nil
}

func (s *Store) CreateHabit(_ context.Context, h core.Habit) error {
	if err := h.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h.Completions = slices.Clone(h.Completions)
	s.habits = append(s.habits, h)
	return nil
}

func (s *Store) DeleteHabit(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.habits, func(h core.Habit) bool { return h.ID == id })
	if i < 0 {
		return fmt.Errorf("habit %s: %w", id, core.ErrNotFound)
	}
	s.habits = slices.Delete(s.habits, i, i+1)
	return nil
}

func (s *Store) ToggleCompletion(_ context.Context, id string, day int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.habits, func(h core.Habit) bool { return h.ID == id })
	if i < 0 {
		return false, fmt.Errorf("habit %s: %w", id, core.ErrNotFound)
	}
	h := &s.habits[i]
	if slices.Contains(h.Completions, day) {
		h.Completions = slices.DeleteFunc(h.Completions, func(d int) bool { return d == day })
		return false, nil
	}
	h.Completions = append(h.Completions, day)
	return true, nil
}

func (s *Store) ListSplitExpenses(_ context.Context) ([]core.SplitExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.SplitExpense, len(s.ledger))
	for i, e := range s.ledger {
		e.Participants = slices.Clone(e.Participants)
		out[i] = e
	}
	return out, nil
}

func (s *Store) AddSplitExpense(_ context.Context, e core.SplitExpense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.Participants = slices.Clone(e.Participants)
	s.ledger = append(s.ledger, e)
	return nil
}

func (s *Store) DeleteSplitExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.ledger, func(e core.SplitExpense) bool { return e.ID == id })
	if i < 0 {
		return fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	s.ledger = slices.Delete(s.ledger, i, i+1)
	return nil
}

func (s *Store) ListDevNotes(_ context.Context) ([]core.DevNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.notes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (s *Store) AddDevNote(_ context.Context, n core.DevNote) error {
	if err := n.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, n)
	return nil
}

func (s *Store) DeleteDevNote(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.notes, func(n core.DevNote) bool { return n.ID == id })
	if i < 0 {
		return fmt.Errorf("note %s: %w", id, core.ErrNotFound)
	}
	s.notes = slices.Delete(s.notes, i, i+1)
	return nil
}
