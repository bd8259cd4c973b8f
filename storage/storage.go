// Package storage abstracts the blob store that file bytes live in,
// keeping the metadata records decoupled from where the bytes go.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("blob not found")

// BlobStore is opaque key-value byte storage. Keys are server-generated
// and never shown to clients.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	// Get returns the blob bytes or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// DeleteIfExists removes the blob if present and reports whether
	// anything was actually deleted. A missing blob is not an error.
	DeleteIfExists(ctx context.Context, key string) (bool, error)
}
