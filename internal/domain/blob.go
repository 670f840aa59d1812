package domain

import (
	"context"
	"io"
)

// BlobWriter uploads objects to blob storage. Used to export completed
// analysis runs as JSON for offline inspection.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}
