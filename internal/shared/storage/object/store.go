package object

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrInvalidKey is returned for storage keys that escape the store root.
	ErrInvalidKey = errors.New("invalid storage key")
	ErrNotFound   = errors.New("object not found")
)

// ObjectStore defines the contract for saving and retrieving report objects.
type ObjectStore interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
