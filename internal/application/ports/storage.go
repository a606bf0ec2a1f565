package ports

import (
	"context"
	"io"

	"file-uploader/internal/domain/blob"
)

// Storage is the active payload backend. displayName is passed on every call
// because some backends derive the object location from it.
type Storage interface {
	Put(ctx context.Context, displayName string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, storageKey, displayName string) (*blob.Object, error)
	URLFor(ctx context.Context, storageKey, displayName string, opts blob.URLOptions) (string, error)
	Remove(ctx context.Context, storageKey, displayName string) error
}

// BlobServer is implemented by backends that serve their own signed URLs.
type BlobServer interface {
	Resolve(token string) (storageKey, displayName string, err error)
	Open(ctx context.Context, storageKey, displayName string) (*blob.Object, error)
}

// Fetcher retrieves a remote URL for proxying.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*blob.Object, error)
}
