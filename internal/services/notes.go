package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"nexus/internal/core"
	"nexus/internal/ports"
)

// NotesService manages developer notes.
type NotesService struct {
	store ports.DevNoteStore
	now   func() time.Time
}

func NewNotesService(store ports.DevNoteStore, now func() time.Time) *NotesService {
	if now == nil {
		now = time.Now
	}
	return &NotesService{store: store, now: now}
}

func (s *NotesService) List(ctx context.Context) ([]core.DevNote, error) {
	notes, err := s.store.ListDevNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dev notes: %w", err)
	}
	return notes, nil
}

func (s *NotesService) Add(ctx context.Context, text string, typ core.NoteType, page string) (core.DevNote, error) {
	n := core.DevNote{
		ID:        uuid.NewString(),
		Text:      strings.TrimSpace(text),
		Type:      typ,
		Page:      strings.TrimSpace(page),
		Timestamp: s.now(),
	}
	if n.Type == "" {
		n.Type = core.NoteNote
	}
	if err := n.Validate(); err != nil {
		return core.DevNote{}, err
	}
	if err := s.store.AddDevNote(ctx, n); err != nil {
		return core.DevNote{}, fmt.Errorf("add dev note: %w", err)
	}
	return n, nil
}

func (s *NotesService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteDevNote(ctx, id); err != nil {
		return fmt.Errorf("delete dev note: %w", err)
	}
	return nil
}

// ExportMarkdown renders all notes, newest first.
func (s *NotesService) ExportMarkdown(ctx context.Context) (string, error) {
	notes, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	return core.FormatNotesMarkdown(notes), nil
}
