package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

func TestIdempotencyStore_ReplayAndConflict(t *testing.T) {
	ctx := context.Background()
	store := NewIdempotencyStore()

	first, err := store.Save(ctx, ports.IdempotencyRecord{Key: "checkout-1", RequestHash: "a", OrderID: "order-1"})
	require.NoError(t, err)
	require.Equal(t, "order-1", first.OrderID)

	replay, err := store.Save(ctx, ports.IdempotencyRecord{Key: "checkout-1", RequestHash: "a", OrderID: "order-2"})
	require.NoError(t, err)
	require.Equal(t, "order-1", replay.OrderID)

	conflict, err := store.Save(ctx, ports.IdempotencyRecord{Key: "checkout-1", RequestHash: "b", OrderID: "order-3"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.Equal(t, "order-1", conflict.OrderID)
}

func TestIdempotencyStore_ExpiredKeyIsReusable(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewIdempotencyStore()
	store.WithClock(func() time.Time { return now })

	_, err := store.Save(ctx, ports.IdempotencyRecord{Key: "checkout-1", RequestHash: "a", OrderID: "order-1"})
	require.NoError(t, err)

	now = now.Add(ports.IdempotencyRetention)
	got, err := store.Get(ctx, "checkout-1")
	require.NoError(t, err)
	require.Nil(t, got)

	fresh, err := store.Save(ctx, ports.IdempotencyRecord{Key: "checkout-1", RequestHash: "b", OrderID: "order-2"})
	require.NoError(t, err)
	require.Equal(t, "order-2", fresh.OrderID)
	require.Equal(t, now, fresh.CreatedAt)
}

func TestIdempotencyStore_Release(t *testing.T) {
	ctx := context.Background()
	store := NewIdempotencyStore()
	_, err := store.Save(ctx, ports.IdempotencyRecord{Key: "checkout-1", RequestHash: "a", OrderID: "order-1"})
	require.NoError(t, err)

	require.NoError(t, store.Release(ctx, "checkout-1"))
	got, err := store.Get(ctx, "checkout-1")
	require.NoError(t, err)
	require.Nil(t, got)
}
