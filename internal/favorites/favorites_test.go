package favorites

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
	"git.home.luguber.info/inful/recipefeed/internal/sqlitedb"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	db, err := sqlitedb.Open(sqlitedb.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqliteStore, err := NewSQLiteStore(db)
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
	}
}

func TestInsertAssignsAscendingIDs(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			a, err := store.Insert(ctx, Favorite{Result: recipes.Result{RecipeID: 10, Title: "A"}})
			require.NoError(t, err)
			b, err := store.Insert(ctx, Favorite{Result: recipes.Result{RecipeID: 11, Title: "B"}})
			require.NoError(t, err)
			require.Less(t, a.ID, b.ID)

			list, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			require.Equal(t, "A", list[0].Result.Title)
			require.Equal(t, "B", list[1].Result.Title)
		})
	}
}

func TestInsertReplacesOnIDConflict(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			first, err := store.Insert(ctx, Favorite{Result: recipes.Result{Title: "Old"}})
			require.NoError(t, err)
			_, err = store.Insert(ctx, Favorite{ID: first.ID, Result: recipes.Result{Title: "New"}})
			require.NoError(t, err)

			list, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 1)
			require.Equal(t, "New", list[0].Result.Title)
		})
	}
}

func TestDeleteAndDeleteAll(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			a, err := store.Insert(ctx, Favorite{Result: recipes.Result{Title: "A"}})
			require.NoError(t, err)
			_, err = store.Insert(ctx, Favorite{Result: recipes.Result{Title: "B"}})
			require.NoError(t, err)

			require.NoError(t, store.Delete(ctx, a.ID))
			err = store.Delete(ctx, a.ID)
			require.ErrorIs(t, err, ErrNotFound)
			require.True(t, errors.HasCategory(err, errors.CategoryNotFound))

			list, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 1)

			require.NoError(t, store.DeleteAll(ctx))
			list, err = store.List(ctx)
			require.NoError(t, err)
			require.Empty(t, list)
			require.NoError(t, store.Close())
		})
	}
}
