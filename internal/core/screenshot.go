package core

import (
	"encoding/base64"
	"fmt"
	"path"
	"strings"
	"time"
)

const ScreenshotContentType = "image/png"

// Screenshot is a stored image reference.
type Screenshot struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// ScreenshotPath builds the object key for an upload: the millisecond
// timestamp followed by the base name of fileName.
func ScreenshotPath(now time.Time, fileName string) (string, error) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), "\\", "/"))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", fmt.Errorf("file name %q: %w", fileName, ErrInvalidUpload)
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), name), nil
}

// DecodeDataURL decodes a base64 "data:" URL, or a bare base64 payload.
func DecodeDataURL(data string) ([]byte, error) {
	payload := strings.TrimSpace(data)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return nil, fmt.Errorf("malformed data url: %w", ErrInvalidUpload)
		}
		payload = payload[comma+1:]
	}
	if payload == "" {
		return nil, fmt.Errorf("empty payload: %w", ErrInvalidUpload)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", ErrInvalidUpload)
	}
	return raw, nil
}
