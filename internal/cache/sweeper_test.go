package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdfhr-backend/internal/kv"
)

// seedEntries writes n entries with strictly increasing timestamps, so
// entry-0 is always the oldest.
func seedEntries(t *testing.T, store Store, clock *fakeClock, n int) []string {
	t.Helper()
	ctx := context.Background()

	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = fmt.Sprintf("entry-%03d", i)
		require.NoError(t, store.Set(ctx, keys[i], []byte(`{}`)))
		clock.Advance(time.Second)
	}
	return keys
}

func TestSweep_NoEvictionAtOrBelowCap(t *testing.T) {
	ctx := context.Background()
	svc, store, clock := newTestService(Config{MaxEntries: 10})
	seedEntries(t, store, clock, 10)

	evicted, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, evicted)

	size, err := svc.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, size)
}

func TestSweep_EvictsOldestFifth(t *testing.T) {
	ctx := context.Background()
	svc, store, clock := newTestService(Config{MaxEntries: 10})
	keys := seedEntries(t, store, clock, 15)

	evicted, err := svc.Sweep(ctx)
	require.NoError(t, err)
	// ceil(0.2 * 15) = 3, and 15 - 3 = 12 is already under no further
	// pressure for this sweep.
	assert.Equal(t, 3, evicted)

	for _, key := range keys[:3] {
		_, found, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, found, "expected %s to be evicted", key)
	}
	for _, key := range keys[3:] {
		_, found, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, found, "expected %s to survive", key)
	}
}

func TestSweep_AlwaysRecoversBelowCap(t *testing.T) {
	ctx := context.Background()
	svc, store, clock := newTestService(Config{MaxEntries: 10})
	seedEntries(t, store, clock, 30)

	evicted, err := svc.Sweep(ctx)
	require.NoError(t, err)
	// A flat 20% would leave 24 entries; the sweep keeps going down to the cap.
	assert.Equal(t, 20, evicted)

	size, err := svc.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, size)
}

func TestSweep_CorruptEntriesEvictFirst(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()

	fileStore, err := kv.NewFileStore("/cache", kv.WithFilesystem(memfs.New()))
	require.NoError(t, err)
	store := NewPersistentStore(fileStore, WithStoreClock(clock.Now))

	// One undecodable envelope alongside two healthy, newer entries.
	require.NoError(t, fileStore.SetString(ctx, DefaultNamespace+"bad", "{corrupt"))
	require.NoError(t, store.Set(ctx, "good1", []byte(`1`)))
	clock.Advance(time.Second)
	require.NoError(t, store.Set(ctx, "good2", []byte(`2`)))

	svc := New(store, Config{MaxEntries: 2},
		WithClock(clock.Now),
		WithRandom(func() float64 { return 1 }))

	evicted, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"good1", "good2"}, keys)
}

func TestReadThrough_SweepTriggersByProbability(t *testing.T) {
	ctx := context.Background()

	fetch := func(context.Context) (employeeList, error) {
		return employeeList{}, nil
	}

	// Roll above the probability: the overfull store is left alone.
	svc, store, clock := newTestService(
		Config{MaxEntries: 2, SweepProbability: 0.1, Retry: fastRetry},
		WithRandom(func() float64 { return 0.5 }))
	seedEntries(t, store, clock, 4)

	ReadThrough(ctx, svc, "entry-000", fetch, Options{})
	size, err := svc.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, size)

	// Roll under the probability: the same read now sweeps.
	svc, store, clock = newTestService(
		Config{MaxEntries: 2, SweepProbability: 0.1, Retry: fastRetry},
		WithRandom(func() float64 { return 0.05 }))
	seedEntries(t, store, clock, 4)

	ReadThrough(ctx, svc, "entry-003", fetch, Options{})
	size, err = svc.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, size)
}
