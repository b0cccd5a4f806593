package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"nexus/internal/core"
	"nexus/internal/ports"
)

type ScreenshotService struct {
	objects ports.ObjectStore
	now     func() time.Time
}

func NewScreenshotService(objects ports.ObjectStore, now func() time.Time) *ScreenshotService {
	if now == nil {
		now = time.Now
	}
	return &ScreenshotService{objects: objects, now: now}
}

// Upload stores a base64 data URL under a timestamped key.
func (s *ScreenshotService) Upload(ctx context.Context, dataURL, fileName string) (core.Screenshot, error) {
	key, err := core.ScreenshotPath(s.now(), fileName)
	if err != nil {
		return core.Screenshot{}, err
	}
	raw, err := core.DecodeDataURL(dataURL)
	if err != nil {
		return core.Screenshot{}, err
	}
	if err := s.objects.Put(ctx, key, core.ScreenshotContentType, raw); err != nil {
		return core.Screenshot{}, fmt.Errorf("store screenshot: %w", err)
	}
	slog.InfoContext(ctx, "Screenshot stored", "path", key, "bytes", len(raw))
	return core.Screenshot{URL: s.objects.PublicURL(key), Path: key}, nil
}

func (s *ScreenshotService) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("empty path: %w", core.ErrInvalidUpload)
	}
	if err := s.objects.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete screenshot: %w", err)
	}
	return nil
}
