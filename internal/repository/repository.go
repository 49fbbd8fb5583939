package repository

import (
	"context"
	"errors"

	"hbnb/internal/codec"
)

// ErrNotExist is returned by Load when nothing has been stored yet. The
// engine treats it as an empty store rather than a failure.
var ErrNotExist = errors.New("store does not exist")

// Backend persists whole documents. Every Store replaces what was there.
type Backend interface {
	// Load returns the last stored document, or ErrNotExist
	Load(ctx context.Context) (codec.Document, error)

	// Store replaces the persisted document with doc
	Store(ctx context.Context, doc codec.Document) error

	// Location describes where documents are kept, for logs
	Location() string

	// Close releases resources
	Close() error
}

// KindCounter is implemented by backends that can count stored records per
// kind without loading them
type KindCounter interface {
	CountByKind(ctx context.Context) (map[string]int, error)
}
