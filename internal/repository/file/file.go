package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hbnb/internal/codec"
	"hbnb/internal/repository"
)

// DefaultPath is used when no path is configured
const DefaultPath = "file.json"

// Backend implements repository.Backend with a single JSON file
type Backend struct {
	path  string
	codec *codec.JSONCodec
}

// New creates a file backend for path. The file is not touched until the
// first Load or Store.
func New(path string) *Backend {
	if path == "" {
		path = DefaultPath
	}
	return &Backend{
		path:  path,
		codec: codec.NewJSONCodec(),
	}
}

// Path returns the file location
func (b *Backend) Path() string {
	return b.path
}

// Location implements repository.Backend
func (b *Backend) Location() string {
	return "file://" + b.path
}

// Load reads and parses the file
func (b *Backend) Load(ctx context.Context) (codec.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, repository.ErrNotExist
		}
		return nil, fmt.Errorf("open %s: %w", b.path, err)
	}
	defer f.Close()

	doc, err := b.codec.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.path, err)
	}
	return doc, nil
}

// Store writes doc to a temp file and renames it over the target
func (b *Backend) Store(ctx context.Context, doc codec.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := b.codec.Export(doc, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Close implements repository.Backend; the file backend holds no handles
func (b *Backend) Close() error {
	return nil
}
