//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/postgres/pgtest"
)

func newOrder(t *testing.T, id string, productID *string) *domain.Order {
	t.Helper()
	o, err := domain.NewOrder(id, "Ada", "ada@example.com", decimal.RequireFromString("575.00"), []domain.OrderItem{
		{ID: id + "-1", ProductID: productID, ProductName: "Coral Hoodie", Price: "€280", Size: "M", Quantity: 2},
		{ID: id + "-2", ProductName: "Sand Hoodie", Price: "€0", Size: "S", Quantity: 1},
	})
	require.NoError(t, err)
	return o
}

func TestRepository_SaveGetList(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()
	coral := "coral"

	first, err := repo.Save(ctx, newOrder(t, "o1", &coral))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, first.Entity.Status)
	assert.True(t, first.Entity.Total.Equal(decimal.NewFromInt(575)))
	require.Len(t, first.Entity.Items, 2)
	assert.Equal(t, "o1-1", first.Entity.Items[0].ID)
	require.NotNil(t, first.Entity.Items[0].ProductID)

	time.Sleep(10 * time.Millisecond)
	_, err = repo.Save(ctx, newOrder(t, "o2", nil))
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "o2", list[0].Entity.ID)

	again, err := repo.Save(ctx, newOrder(t, "o1", &coral))
	require.NoError(t, err)
	assert.Equal(t, first.Metadata.CreatedAt.Unix(), again.Metadata.CreatedAt.Unix())
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_DetachProducts(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()
	coral := "coral"

	_, err := repo.Save(ctx, newOrder(t, "o1", &coral))
	require.NoError(t, err)

	n, err := repo.DetachProducts(ctx, []string{"coral"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	loaded, err := repo.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Nil(t, loaded.Entity.Items[0].ProductID)
	assert.Equal(t, "Coral Hoodie", loaded.Entity.Items[0].ProductName)
}

func TestIdempotencyStore_Reservation(t *testing.T) {
	store := NewIdempotencyStore(pgtest.Start(t))
	ctx := context.Background()

	rec, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", OrderID: "o1"})
	require.NoError(t, err)
	assert.Equal(t, "o1", rec.OrderID)

	again, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", OrderID: "o2"})
	require.NoError(t, err)
	assert.Equal(t, "o1", again.OrderID)

	_, err = store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "other", OrderID: "o3"})
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	require.NoError(t, store.Release(ctx, "k1"))
	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIdempotencyStore_ExpiryAndPurge(t *testing.T) {
	store := NewIdempotencyStore(pgtest.Start(t))
	ctx := context.Background()

	_, err := store.Save(ctx, ports.IdempotencyRecord{Key: "old", RequestHash: "a", OrderID: "o1"})
	require.NoError(t, err)

	later := time.Now().Add(ports.IdempotencyRetention + time.Minute)
	store.now = func() time.Time { return later }

	got, err := store.Get(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, got)

	reused, err := store.Save(ctx, ports.IdempotencyRecord{Key: "old", RequestHash: "b", OrderID: "o2"})
	require.NoError(t, err)
	assert.Equal(t, "o2", reused.OrderID)

	store.now = func() time.Time { return later.Add(ports.IdempotencyRetention + time.Minute) }
	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
