package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidPath    = errors.New("invalid storage path")
	ErrObjectNotFound = errors.New("stored object not found")
)

// FileStorage keeps uploaded files under slash-separated keys. Files are never
// served directly; callers authorize access and stream them through Open.
type FileStorage interface {
	// Put writes r under key and returns the normalized key.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	// Open returns the content stored under key, or ErrObjectNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Remove deletes key. A missing key is not an error.
	Remove(ctx context.Context, key string) error
}
