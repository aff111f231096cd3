package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/recipefeed/internal/config"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
)

// fakeKV implements the parts of jetstream.KeyValue the store uses.
type fakeKV struct {
	jetstream.KeyValue
	mu   sync.Mutex
	data map[string][]byte
}

type fakeEntry struct {
	jetstream.KeyValueEntry
	value []byte
}

func (e fakeEntry) Value() []byte { return e.value }

func newFakeKV() *fakeKV { return &fakeKV{data: map[string][]byte{}} }

func (f *fakeKV) Put(_ context.Context, key string, value []byte) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = append([]byte(nil), value...)
	return uint64(len(f.data)), nil
}

func (f *fakeKV) Get(_ context.Context, key string) (jetstream.KeyValueEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return fakeEntry{value: v}, nil
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	sqliteStore, err := OpenSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
		"nats":   NewNATSStore(newFakeKV()),
	}
}

func TestStoresMissIsEmpty(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.ReadAll(context.Background(), recipes.PrimaryList)
			require.NoError(t, err)
			require.Empty(t, got)
		})
	}
}

func TestStoresOverwriteSingleSlot(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Write(ctx, recipes.PrimaryList, []byte(`"first"`)))
			require.NoError(t, store.Write(ctx, recipes.PrimaryList, []byte(`"second"`)))

			got, err := store.ReadAll(ctx, recipes.PrimaryList)
			require.NoError(t, err)
			require.Equal(t, [][]byte{[]byte(`"second"`)}, got)
		})
	}
}

func TestStoresKeepKindsIndependent(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Write(ctx, recipes.FoodJoke, []byte(`{"text":"j"}`)))

			got, err := store.ReadAll(ctx, recipes.SearchResults)
			require.NoError(t, err)
			require.Empty(t, got)

			got, err = store.ReadAll(ctx, recipes.FoodJoke)
			require.NoError(t, err)
			require.Len(t, got, 1)
		})
	}
}

func TestStoresRejectUseAfterClose(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Close())
			require.NoError(t, store.Close())
			require.ErrorIs(t, store.Write(ctx, recipes.PrimaryList, []byte(`1`)), ErrStoreClosed)
			_, err := store.ReadAll(ctx, recipes.PrimaryList)
			require.ErrorIs(t, err, ErrStoreClosed)
		})
	}
}

func TestSlotRoundTripsTypedPayload(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	slot := NewSlot[recipes.FoodRecipe](store, recipes.PrimaryList)
	require.Equal(t, recipes.PrimaryList, slot.Kind())

	_, ok, err := slot.Latest(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	want := recipes.FoodRecipe{Results: []recipes.Result{{RecipeID: 7, Title: "Stew"}}}
	require.NoError(t, slot.Write(ctx, want))

	got, ok, err := slot.Latest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)

	all, err := slot.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, MemoryCalls{Write: 1, ReadAll: 3}, store.Calls())
}

func TestSlotDecodeFailureIsCacheError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Write(ctx, recipes.FoodJoke, []byte(`not json`)))

	_, _, err := NewSlot[recipes.Joke](store, recipes.FoodJoke).Latest(ctx)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryCache))
}

func TestMemoryStoreInjectedErrors(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	boom := errors.CacheError("disk full").Build()
	store.WriteErr = boom
	store.ReadErr = boom

	require.ErrorIs(t, store.Write(ctx, recipes.PrimaryList, []byte(`1`)), boom)
	_, err := store.ReadAll(ctx, recipes.PrimaryList)
	require.ErrorIs(t, err, boom)
	require.Equal(t, MemoryCalls{Write: 1, ReadAll: 1}, store.Calls())

	store.ResetCalls()
	require.Equal(t, MemoryCalls{}, store.Calls())
}

func TestSQLiteStoreSharedDatabaseSurvivesClose(t *testing.T) {
	ctx := context.Background()
	owner, err := OpenSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = owner.Close() }()

	borrowed, err := NewSQLiteStore(owner.db)
	require.NoError(t, err)
	require.NoError(t, borrowed.Write(ctx, recipes.PrimaryList, []byte(`1`)))
	require.NoError(t, borrowed.Close())

	got, err := owner.ReadAll(ctx, recipes.PrimaryList)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.CacheConfig{Backend: config.CacheBackendMemory}, nil)
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, s)

	_, err = Open(ctx, config.CacheConfig{Backend: config.CacheBackendSQLite}, nil)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = Open(ctx, config.CacheConfig{Backend: "redis"}, nil)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
