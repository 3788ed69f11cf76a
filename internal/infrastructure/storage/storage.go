package storage

import (
	"context"

	"stylist-server/internal/domain/ingest"
)

// Backend is what the ingestion pipeline needs from a storage layer:
// write a finished image, hand back a public URL, and be able to take
// the object out again when a later step fails.
type Backend interface {
	Put(ctx context.Context, data []byte, ext, contentType string) (*ingest.StoredImage, error)
	Delete(ctx context.Context, url string) bool
	Health(ctx context.Context) error
}
