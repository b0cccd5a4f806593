package core

import (
	"strings"
	"testing"
	"time"
)

func TestStyleFor(t *testing.T) {
	if st := StyleFor("habit_tracker.html"); st.Emoji != "✅" || st.Icon != "" {
		t.Fatalf("unexpected builtin style: %+v", st)
	}
	if st := StyleFor("https://example.com"); st.Icon != "globe" || st.Emoji != "" {
		t.Fatalf("expected globe icon, got %+v", st)
	}
	if st := StyleFor("notes.html"); st.Icon != "layout" {
		t.Fatalf("expected layout icon, got %+v", st)
	}
}

func TestDefaultShortcuts(t *testing.T) {
	d := DefaultShortcuts()
	if len(d) != 3 {
		t.Fatalf("expected 3 defaults, got %d", len(d))
	}
	for i, s := range d {
		if s.Order != int64(i) {
			t.Fatalf("default %s has order %d", s.ID, s.Order)
		}
		if err := s.Validate(); err != nil {
			t.Fatalf("default %s invalid: %v", s.ID, err)
		}
	}
}

func TestShortcutValidate(t *testing.T) {
	if err := (Shortcut{Name: "", URL: "x"}).Validate(); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := (Shortcut{Name: "x", URL: "  "}).Validate(); err != ErrInvalidURL {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
	if err := (Shortcut{Name: "x", URL: "http://[::1"}).Validate(); err != ErrInvalidURL {
		t.Fatalf("expected ErrInvalidURL for unparsable url, got %v", err)
	}
}

func TestFormatNotesMarkdown(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	notes := []DevNote{
		{ID: "1", Text: "Button misaligned", Type: NoteBug, Page: "index.html", Timestamp: ts},
		{ID: "2", Text: "Add dark mode", Type: NoteFeature, Page: "split.html", Timestamp: ts},
	}
	got := FormatNotesMarkdown(notes)
	want := "# Dev Notes (2 total)\n\n" +
		"🐛 **BUG** [index.html] - 2024-03-01 09:30:00\nButton misaligned\n" +
		"\n---\n\n" +
		"✨ **FEATURE** [split.html] - 2024-03-01 09:30:00\nAdd dark mode\n"
	if got != want {
		t.Fatalf("markdown mismatch:\n%s\nwant:\n%s", got, want)
	}
	if empty := FormatNotesMarkdown(nil); empty != "# Dev Notes (0 total)\n\n" {
		t.Fatalf("unexpected empty export %q", empty)
	}
}

func TestDevNoteValidate(t *testing.T) {
	if err := (DevNote{Text: "x", Type: "todo"}).Validate(); err != ErrInvalidNoteType {
		t.Fatalf("expected ErrInvalidNoteType, got %v", err)
	}
	if err := (DevNote{Text: " ", Type: NoteNote}).Validate(); err != ErrEmptyNoteText {
		t.Fatalf("expected ErrEmptyNoteText, got %v", err)
	}
}

func TestScreenshotPath(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	got, err := ScreenshotPath(now, "../shot.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1700000000123-shot.png" {
		t.Fatalf("unexpected path %q", got)
	}
	if _, err := ScreenshotPath(now, "  "); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestDecodeDataURL(t *testing.T) {
	raw, err := DecodeDataURL("data:image/png;base64,aGVsbG8=")
	if err != nil || string(raw) != "hello" {
		t.Fatalf("unexpected decode result %q, %v", raw, err)
	}
	if raw, err := DecodeDataURL("aGVsbG8="); err != nil || string(raw) != "hello" {
		t.Fatalf("bare payload: %q, %v", raw, err)
	}
	for _, bad := range []string{"", "data:image/png,abc", "data:image/png;base64,%%%"} {
		if _, err := DecodeDataURL(bad); err == nil || !strings.Contains(err.Error(), ErrInvalidUpload.Error()) {
			t.Errorf("%q: expected invalid upload, got %v", bad, err)
		}
	}
}
