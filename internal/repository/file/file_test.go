package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hbnb/internal/codec"
	"hbnb/internal/domain"
	"hbnb/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repository.Backend = (*Backend)(nil)

func TestNewDefaultsPath(t *testing.T) {
	assert.Equal(t, DefaultPath, New("").Path())
	assert.Equal(t, "file://"+DefaultPath, New("").Location())
}

func TestLoadMissingFile(t *testing.T) {
	b := New(filepath.Join(t.TempDir(), "absent.json"))
	_, err := b.Load(context.Background())
	assert.ErrorIs(t, err, repository.ErrNotExist)
}

func TestStoreAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "file.json")
	b := New(path)

	doc := codec.Document{
		"User.1": domain.Attributes{
			"id":         "1",
			"created_at": "2017-09-28T21:03:54.052298",
			"updated_at": "2017-09-28T21:03:54.052298",
			"email":      "a@b.c",
			"__class__":  "User",
		},
	}
	require.NoError(t, b.Store(ctx, doc))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", got["User.1"]["email"])

	t.Run("store replaces the previous document", func(t *testing.T) {
		require.NoError(t, b.Store(ctx, codec.Document{}))
		got, err := b.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "file.json", entries[0].Name())
	})
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	_, err := New(path).Load(context.Background())
	assert.ErrorIs(t, err, codec.ErrMalformedDocument)
}

func TestStoreFailureKeepsPreviousFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "file.json")
	b := New(path)
	require.NoError(t, b.Store(ctx, codec.Document{"State.1": domain.Attributes{"id": "1"}}))

	bad := codec.Document{"State.2": domain.Attributes{"id": "2", "bad": make(chan int)}}
	assert.Error(t, b.Store(ctx, bad))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, "State.1")
	assert.NotContains(t, got, "State.2")
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := New(filepath.Join(t.TempDir(), "file.json"))
	assert.ErrorIs(t, b.Store(ctx, codec.Document{}), context.Canceled)
	_, err := b.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
