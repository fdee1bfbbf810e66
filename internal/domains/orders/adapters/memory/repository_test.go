package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

func newOrder(t *testing.T, id string, productID string) *domain.Order {
	t.Helper()
	ref := productID
	order, err := domain.NewOrder(id, "Ada", "ada@example.com", decimal.NewFromInt(295),
		[]domain.OrderItem{{ID: id + "-line", ProductID: &ref, ProductName: "Coral Hoodie", Price: "€280", Size: "M", Quantity: 1}})
	require.NoError(t, err)
	return order
}

func TestRepository_ListNewestFirst(t *testing.T) {
	repo := NewRepository()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})
	ctx := context.Background()
	for _, id := range []string{"first", "second", "third"} {
		_, err := repo.Save(ctx, newOrder(t, id, "coral"))
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "third", list[0].Entity.ID)
	require.Equal(t, "first", list[2].Entity.ID)
}

func TestRepository_SaveIsUpsert(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	first, err := repo.Save(ctx, newOrder(t, "o-1", "coral"))
	require.NoError(t, err)
	second, err := repo.Save(ctx, newOrder(t, "o-1", "coral"))
	require.NoError(t, err)
	require.Equal(t, first.Metadata.CreatedAt, second.Metadata.CreatedAt)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRepository_DetachProducts(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	_, err := repo.Save(ctx, newOrder(t, "o-1", "coral"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, newOrder(t, "o-2", "sand"))
	require.NoError(t, err)

	changed, err := repo.DetachProducts(ctx, []string{"coral"})
	require.NoError(t, err)
	require.Equal(t, 1, changed)

	detached, err := repo.GetByID(ctx, "o-1")
	require.NoError(t, err)
	require.Nil(t, detached.Entity.Items[0].ProductID)
	require.Equal(t, "Coral Hoodie", detached.Entity.Items[0].ProductName)

	untouched, err := repo.GetByID(ctx, "o-2")
	require.NoError(t, err)
	require.NotNil(t, untouched.Entity.Items[0].ProductID)

	_, err = repo.GetByID(ctx, "ghost")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestIdempotencyStore(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()

	missing, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, missing)

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h1", OrderID: "o-1"})
	require.NoError(t, err)
	require.Equal(t, "o-1", saved.OrderID)

	replay, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h1", OrderID: "o-2"})
	require.NoError(t, err)
	require.Equal(t, "o-1", replay.OrderID)

	conflict, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h2", OrderID: "o-3"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.Equal(t, "o-1", conflict.OrderID)

	require.NoError(t, store.Release(ctx, "k"))
	released, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, released)
}
