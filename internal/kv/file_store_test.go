package kv

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore("/cache", WithFilesystem(memfs.New()))
	require.NoError(t, err)
	return store
}

func TestFileStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SetString(ctx, "companies:list", `{"page":1}`))

	value, found, err := store.GetString(ctx, "companies:list")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"page":1}`, value)
}

func TestFileStore_GetMissingKey(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	value, found, err := store.GetString(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestFileStore_OverwriteReplacesValue(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SetString(ctx, "k", "v1"))
	require.NoError(t, store.SetString(ctx, "k", "v2"))

	value, found, err := store.GetString(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v2", value)
}

func TestFileStore_RemoveKeys(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SetString(ctx, "a", "1"))
	require.NoError(t, store.SetString(ctx, "b", "2"))

	// Removing a mix of present and absent keys must not error.
	require.NoError(t, store.RemoveKeys(ctx, []string{"a", "missing"}))

	_, found, err := store.GetString(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = store.GetString(ctx, "b")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestFileStore_ListKeys(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, key := range []string{"companies:1", "employees:2", "tasks:3"} {
		require.NoError(t, store.SetString(ctx, key, "v"))
	}

	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"companies:1", "employees:2", "tasks:3"}, keys)
}

func TestFileStore_ListKeysSkipsCorruptFiles(t *testing.T) {
	ctx := context.Background()
	fs := memfs.New()
	store, err := NewFileStore("/cache", WithFilesystem(fs))
	require.NoError(t, err)

	require.NoError(t, store.SetString(ctx, "good", "v"))
	require.NoError(t, util.WriteFile(fs, store.path("broken"), []byte("{not json"), 0o644))

	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, keys)
}

func TestFileStore_GetCorruptRecordReturnsError(t *testing.T) {
	ctx := context.Background()
	fs := memfs.New()
	store, err := NewFileStore("/cache", WithFilesystem(fs))
	require.NoError(t, err)

	require.NoError(t, util.WriteFile(fs, store.path("broken"), []byte("{not json"), 0o644))

	_, found, err := store.GetString(ctx, "broken")
	assert.Error(t, err)
	assert.False(t, found)
}
