package core

import (
	"fmt"
	"strings"
	"time"
)

type NoteType string

const (
	NoteBug     NoteType = "bug"
	NoteFeature NoteType = "feature"
	NoteNote    NoteType = "note"
)

// DevNote is a developer annotation attached to a page of the app.
type DevNote struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Type      NoteType  `json:"type"`
	Page      string    `json:"page"`
	Timestamp time.Time `json:"timestamp"`
}

func (t NoteType) Emoji() string {
	switch t {
	case NoteBug:
		return "🐛"
	case NoteFeature:
		return "✨"
	case NoteNote:
		return "📝"
	}
	return ""
}

func (t NoteType) Valid() bool {
	switch t {
	case NoteBug, NoteFeature, NoteNote:
		return true
	}
	return false
}

func (n DevNote) Validate() error {
	if strings.TrimSpace(n.Text) == "" {
		return ErrEmptyNoteText
	}
	if !n.Type.Valid() {
		return ErrInvalidNoteType
	}
	return nil
}

// FormatNotesMarkdown renders notes as a Markdown digest, in the given order.
func FormatNotesMarkdown(notes []DevNote) string {
	entries := make([]string, 0, len(notes))
	for _, n := range notes {
		entries = append(entries, fmt.Sprintf("%s **%s** [%s] - %s\n%s\n",
			n.Type.Emoji(),
			strings.ToUpper(string(n.Type)),
			n.Page,
			n.Timestamp.Format("2006-01-02 15:04:05"),
			n.Text))
	}
	return fmt.Sprintf("# Dev Notes (%d total)\n\n%s", len(notes), strings.Join(entries, "\n---\n\n"))
}
