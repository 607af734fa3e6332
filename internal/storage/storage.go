package storage

import (
	"context"
	"io"
	"time"
)

// PresignTTL is how long a generated download URL stays valid. URLs are never
// persisted; every read regenerates them.
const PresignTTL = time.Hour

// ObjectStore is the adapter over the object storage service. Keys are
// hierarchical path-like strings built by pkg/objectkey.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
