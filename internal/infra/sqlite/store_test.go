package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/PocketPalCo/catalog-bot/internal/core/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func Test_Open_EmptyPath(t *testing.T) {
	_, err := Open("  ")

	assert.EqualError(t, err, "storage path is required")
}

func Test_Store_EmptyCatalog(t *testing.T) {
	store := openTestStore(t)

	c, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, c)
}

func Test_Store_RoundTripKeepsOrder(t *testing.T) {
	// given
	store := openTestStore(t)
	ctx := context.Background()
	want := catalog.Catalog{
		{ID: 5, Name: "SEO", Price: "120", Description: "Monthly report"},
		{ID: 1, Name: "Website Audit", Price: "50", Description: ""},
		{ID: 2, Name: "Logo", Price: "30", Description: "Two; revisions"},
	}

	// when
	require.NoError(t, store.Save(ctx, want))
	got, err := store.Load(ctx)

	// then
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func Test_Store_SaveReplaces(t *testing.T) {
	// given
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, catalog.Catalog{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}))

	// when
	require.NoError(t, store.Save(ctx, catalog.Catalog{{ID: 2, Name: "b"}}))
	got, err := store.Load(ctx)

	// then
	require.NoError(t, err)
	assert.Equal(t, catalog.Catalog{{ID: 2, Name: "b"}}, got)
}

func Test_Store_FailedSaveKeepsPrevious(t *testing.T) {
	// given
	store := openTestStore(t)
	ctx := context.Background()
	previous := catalog.Catalog{{ID: 1, Name: "a"}}
	require.NoError(t, store.Save(ctx, previous))

	// when
	err := store.Save(ctx, catalog.Catalog{{ID: 3, Name: "x"}, {ID: 3, Name: "y"}})
	got, loadErr := store.Load(ctx)

	// then
	assert.Error(t, err)
	require.NoError(t, loadErr)
	assert.Equal(t, previous, got)
}

func Test_Store_WithService(t *testing.T) {
	// given
	store := openTestStore(t)
	service := catalog.NewService(store, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	// when
	first, err := service.AddProduct(ctx, catalog.Product{Name: "a", Price: "1"})
	require.NoError(t, err)
	second, err := service.AddProduct(ctx, catalog.Product{Name: "b", Price: "2"})
	require.NoError(t, err)
	removed, err := service.DeleteProduct(ctx, first.ID)
	require.NoError(t, err)

	// then
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, 1, removed)
	products, err := service.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Catalog{{ID: 2, Name: "b", Price: "2"}}, products)
}

func Test_Store_CancelledContext(t *testing.T) {
	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, loadErr := store.Load(ctx)
	saveErr := store.Save(ctx, catalog.Catalog{})

	assert.ErrorIs(t, loadErr, context.Canceled)
	assert.ErrorIs(t, saveErr, context.Canceled)
}
