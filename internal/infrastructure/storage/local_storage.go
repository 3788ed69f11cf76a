package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"stylist-server/internal/config"
	"stylist-server/internal/domain/ingest"
	"stylist-server/internal/infrastructure/metrics"
	"stylist-server/internal/utils/imagekey"
)

const localURLPrefix = "/static/images/"

// LocalStorage writes images to the local filesystem and serves them
// back through the HTTP server's static route.
type LocalStorage struct {
	imageDir string
	log      zerolog.Logger
}

// NewLocalStorage creates the image directory and returns the backend.
func NewLocalStorage(cfg *config.Config, log zerolog.Logger) (*LocalStorage, error) {
	logger := log.With().Str("component", "local-storage").Logger()

	imageDir := filepath.Join(strings.TrimSpace(cfg.LocalImageDir), "static", "images")
	if err := os.MkdirAll(imageDir, 0755); err != nil {
		return nil, fmt.Errorf("create local storage directory: %w", err)
	}

	logger.Info().Str("path", imageDir).Msg("local storage initialized")
	return &LocalStorage{imageDir: imageDir, log: logger}, nil
}

// ImageDir exposes the directory the HTTP server mounts under /static/images.
func (l *LocalStorage) ImageDir() string {
	return l.imageDir
}

func (l *LocalStorage) Put(ctx context.Context, data []byte, ext, contentType string) (*ingest.StoredImage, error) {
	filename := imagekey.New() + "." + strings.TrimPrefix(ext, ".")
	fullPath := filepath.Join(l.imageDir, filename)

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		metrics.RecordStorageOperation("local", "put", "error", 0)
		return nil, fmt.Errorf("write image file: %w", err)
	}
	metrics.RecordStorageOperation("local", "put", "ok", int64(len(data)))

	l.log.Debug().Str("file", filename).Int("bytes", len(data)).Msg("image written")
	return &ingest.StoredImage{
		URL:     localURLPrefix + filename,
		Backend: "local",
		Key:     filename,
	}, nil
}

// Delete removes the file behind a previously returned URL. Unknown or
// already-removed URLs report false without raising.
func (l *LocalStorage) Delete(ctx context.Context, url string) bool {
	filename := filepath.Base(strings.TrimPrefix(url, localURLPrefix))
	if filename == "" || filename == "." || strings.Contains(filename, string(os.PathSeparator)) {
		return false
	}
	if err := os.Remove(filepath.Join(l.imageDir, filename)); err != nil {
		if !os.IsNotExist(err) {
			l.log.Warn().Err(err).Str("file", filename).Msg("image delete failed")
		}
		metrics.RecordStorageOperation("local", "delete", "error", 0)
		return false
	}
	metrics.RecordStorageOperation("local", "delete", "ok", 0)
	return true
}

// Health checks the image directory is writable.
func (l *LocalStorage) Health(ctx context.Context) error {
	testFile := filepath.Join(l.imageDir, ".health_check")
	if err := os.WriteFile(testFile, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("storage directory not writable: %w", err)
	}
	_ = os.Remove(testFile)
	return nil
}
