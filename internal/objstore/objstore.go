// Package objstore keeps uploaded files in a local directory that the HTTP
// server exposes under a public prefix.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"nexus/internal/core"
	"nexus/internal/ports"
)

// ErrExists is returned by Put when the key is already taken.
var ErrExists = errors.New("object already exists")

type FileStore struct {
	root   string
	prefix string
}

var _ ports.ObjectStore = (*FileStore)(nil)

// NewFileStore creates root if needed. publicPrefix is the URL path the
// directory is served under, e.g. "/files".
func NewFileStore(root, publicPrefix string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create object store dir: %w", err)
	}
	return &FileStore{
		root:   root,
		prefix: "/" + strings.Trim(publicPrefix, "/"),
	}, nil
}

func (s *FileStore) Root() string { return s.root }

func (s *FileStore) path(key string) (string, error) {
	if key == "" || !filepath.IsLocal(key) || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("key %q: %w", key, core.ErrInvalidUpload)
	}
	return filepath.Join(s.root, key), nil
}

// Put writes data under key. Existing objects are never overwritten.
func (s *FileStore) Put(ctx context.Context, key, _ string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("put %s: %w", key, ErrExists)
	}
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(p)
		return fmt.Errorf("write %s: %w", key, err)
	}
	return f.Close()
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("object %s: %w", key, core.ErrNotFound)
		}
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) PublicURL(key string) string {
	return s.prefix + "/" + url.PathEscape(key)
}
