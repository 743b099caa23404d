package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdfhr-backend/internal/kv"
)

func newPersistentStore(t *testing.T, fs billy.Filesystem, clock *fakeClock) *PersistentStore {
	t.Helper()
	fileStore, err := kv.NewFileStore("/cache", kv.WithFilesystem(fs))
	require.NoError(t, err)
	return NewPersistentStore(fileStore, WithStoreClock(clock.Now))
}

func TestPersistentStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := newPersistentStore(t, memfs.New(), clock)

	require.NoError(t, store.Set(ctx, "companies:list", []byte(`{"items":["acme"]}`)))

	entry, found, err := store.Get(ctx, "companies:list")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"items":["acme"]}`, string(entry.Value))
	assert.True(t, entry.WrittenAt.Equal(clock.Now()))
}

func TestPersistentStore_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	fs := memfs.New()

	store := newPersistentStore(t, fs, clock)
	require.NoError(t, store.Set(ctx, "k", []byte(`"v"`)))

	// A fresh store over the same filesystem sees the entry.
	reopened := newPersistentStore(t, fs, clock)
	entry, found, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `"v"`, string(entry.Value))
}

func TestPersistentStore_CorruptEnvelopeIsStoreError(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	fs := memfs.New()

	fileStore, err := kv.NewFileStore("/cache", kv.WithFilesystem(fs))
	require.NoError(t, err)
	store := NewPersistentStore(fileStore, WithStoreClock(clock.Now))

	require.NoError(t, fileStore.SetString(ctx, DefaultNamespace+"bad", "{corrupt"))

	_, found, err := store.Get(ctx, "bad")
	assert.False(t, found)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "decode", storeErr.Op)
}

func TestPersistentStore_NamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	fs := memfs.New()

	fileStore, err := kv.NewFileStore("/cache", kv.WithFilesystem(fs))
	require.NoError(t, err)
	store := NewPersistentStore(fileStore, WithStoreClock(clock.Now))

	// A foreign record shares the key-value store.
	require.NoError(t, fileStore.SetString(ctx, "session:user1", "token"))
	require.NoError(t, store.Set(ctx, "companies:list", []byte(`1`)))
	require.NoError(t, store.Set(ctx, "tasks:list", []byte(`2`)))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"companies:list", "tasks:list"}, keys)

	require.NoError(t, store.Clear(ctx))

	// Clearing the cache leaves the foreign record alone.
	value, found, err := fileStore.GetString(ctx, "session:user1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "token", value)
}

func TestPersistentStore_RemoveMatching(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := newPersistentStore(t, memfs.New(), clock)

	require.NoError(t, store.Set(ctx, "employees:emp_A:list", []byte(`1`)))
	require.NoError(t, store.Set(ctx, "employees:emp_A:detail", []byte(`2`)))
	require.NoError(t, store.Set(ctx, "employees:emp_B:list", []byte(`3`)))

	removed, err := store.RemoveMatching(ctx, "emp_A")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"employees:emp_B:list"}, keys)
}

func TestPersistentStore_RemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := newPersistentStore(t, memfs.New(), clock)

	require.NoError(t, store.Set(ctx, "k", []byte(`1`)))
	require.NoError(t, store.Remove(ctx, "k"))
	require.NoError(t, store.Remove(ctx, "k"))

	_, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPersistentStore_TTLExpiryAcrossRestart(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	fs := memfs.New()

	store := newPersistentStore(t, fs, clock)
	require.NoError(t, store.Set(ctx, "k", []byte(`1`)))

	entry, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, entry.Expired(clock.Now(), time.Minute))

	clock.Advance(2 * time.Minute)

	reopened := newPersistentStore(t, fs, clock)
	entry, _, err = reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, entry.Expired(clock.Now(), time.Minute))
}
