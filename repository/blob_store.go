package repository

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by a blob store when nothing was saved under a name yet.
var ErrBlobNotFound = errors.New("blob not found")

// IBlobStore persists opaque snapshots by name. Every Save replaces the whole blob.
type IBlobStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}
