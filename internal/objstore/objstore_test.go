package objstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nexus/internal/core"
)

func TestFileStorePutNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir(), "files/")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := s.Put(ctx, "1-shot.png", "image/png", []byte("first")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, "1-shot.png", "image/png", []byte("second")); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	got, _ := os.ReadFile(filepath.Join(s.Root(), "1-shot.png"))
	if string(got) != "first" {
		t.Fatalf("object was overwritten: %q", got)
	}
	if u := s.PublicURL("1-shot.png"); u != "/files/1-shot.png" {
		t.Fatalf("unexpected url %q", u)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	s, _ := NewFileStore(t.TempDir(), "/files")
	for _, key := range []string{"../x.png", "a/b.png", "", `..\x.png`} {
		if err := s.Put(context.Background(), key, "image/png", nil); !errors.Is(err, core.ErrInvalidUpload) {
			t.Errorf("key %q: expected ErrInvalidUpload, got %v", key, err)
		}
	}
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFileStore(t.TempDir(), "/files")
	_ = s.Put(ctx, "k.png", "image/png", []byte("x"))
	if err := s.Delete(ctx, "k.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "k.png"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
