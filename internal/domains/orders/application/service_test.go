package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	types "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/projection"
)

type recordingNotifier struct {
	events []domain.OrderPlaced
	err    error
}

func (r *recordingNotifier) OrderPlaced(_ context.Context, event domain.OrderPlaced) error {
	r.events = append(r.events, event)
	return r.err
}

type failingRepo struct {
	*memory.Repository
	err error
}

func (f *failingRepo) Save(context.Context, *domain.Order) (*projection.Projection[*domain.Order], error) {
	return nil, f.err
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func placeInput() types.PlaceOrderInput {
	productID := "coral"
	return types.PlaceOrderInput{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		Items: []types.OrderItemInput{
			{ProductID: &productID, ProductName: "Coral Hoodie", Price: "€280", Size: "M", Quantity: 2},
		},
		Total: decimal.NewFromInt(575),
	}
}

func TestPlaceOrder_PersistsPending(t *testing.T) {
	svc := NewService(memory.NewRepository(), WithIDGenerator(sequentialIDs()))

	saved, err := svc.PlaceOrder(context.Background(), placeInput())
	require.NoError(t, err)
	require.Equal(t, "id-1", saved.Entity.ID)
	require.Equal(t, domain.StatusPending, saved.Entity.Status)
	require.Len(t, saved.Entity.Items, 1)
	require.Equal(t, "id-2", saved.Entity.Items[0].ID)
	require.True(t, saved.Entity.Total.Equal(decimal.NewFromInt(575)))
}

func TestPlaceOrder_UsesPreassignedID(t *testing.T) {
	svc := NewService(memory.NewRepository())
	input := placeInput()
	input.OrderID = "fixed"

	first, err := svc.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	second, err := svc.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, "fixed", first.Entity.ID)
	require.Equal(t, first.Metadata.CreatedAt, second.Metadata.CreatedAt)

	orders, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
}

func TestPlaceOrder_InvalidInput(t *testing.T) {
	svc := NewService(memory.NewRepository())
	input := placeInput()
	input.Items = nil
	_, err := svc.PlaceOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNoItems)

	input = placeInput()
	input.Items[0].Quantity = 0
	_, err = svc.PlaceOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlaceOrder_IdempotentReplay(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewService(repo, WithIdempotencyStore(memory.NewIdempotencyStore()))
	ctx := context.Background()

	input := placeInput()
	input.IdempotencyKey = "checkout-1"
	first, err := svc.PlaceOrder(ctx, input)
	require.NoError(t, err)

	replay, err := svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	require.Equal(t, first.Entity.ID, replay.Entity.ID)

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	changed := placeInput()
	changed.IdempotencyKey = "checkout-1"
	changed.Total = decimal.NewFromInt(15)
	_, err = svc.PlaceOrder(ctx, changed)
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestPlaceOrder_ReleasesKeyWhenPersistFails(t *testing.T) {
	idem := memory.NewIdempotencyStore()
	repo := &failingRepo{Repository: memory.NewRepository(), err: errors.New("db down")}
	svc := NewService(repo, WithIdempotencyStore(idem))
	ctx := context.Background()

	input := placeInput()
	input.IdempotencyKey = "checkout-2"
	_, err := svc.PlaceOrder(ctx, input)
	require.Error(t, err)

	record, err := idem.Get(ctx, "checkout-2")
	require.NoError(t, err)
	require.Nil(t, record)
}

func TestPlaceOrder_InProgressKey(t *testing.T) {
	idem := memory.NewIdempotencyStore()
	svc := NewService(memory.NewRepository(), WithIdempotencyStore(idem))
	ctx := context.Background()

	input := placeInput()
	input.IdempotencyKey = "checkout-3"
	hash, err := FingerprintPlaceOrder(input)
	require.NoError(t, err)
	_, err = idem.Save(ctx, ports.IdempotencyRecord{Key: "checkout-3", RequestHash: hash, OrderID: "not-yet-written"})
	require.NoError(t, err)

	_, err = svc.PlaceOrder(ctx, input)
	require.ErrorIs(t, err, ports.ErrIdempotencyInProgress)
	require.ErrorIs(t, err, ErrConflict)
}

func TestFingerprintIgnoresKeyAndOrderID(t *testing.T) {
	a := placeInput()
	b := placeInput()
	b.IdempotencyKey = "other"
	b.OrderID = "preassigned"
	b.CustomerEmail = " ADA@example.com "

	ha, err := FingerprintPlaceOrder(a)
	require.NoError(t, err)
	hb, err := FingerprintPlaceOrder(b)
	require.NoError(t, err)
	require.Equal(t, ha, hb)

	b.Items[0].Size = "L"
	hc, err := FingerprintPlaceOrder(b)
	require.NoError(t, err)
	require.NotEqual(t, ha, hc)
}

func TestNotifyOrderPlaced(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(memory.NewRepository(), WithNotifier(notifier))
	ctx := context.Background()

	saved, err := svc.PlaceOrder(ctx, placeInput())
	require.NoError(t, err)
	require.NoError(t, svc.NotifyOrderPlaced(ctx, types.OrderIdentifier{ID: saved.Entity.ID}))
	require.Len(t, notifier.events, 1)
	require.Equal(t, saved.Entity.ID, notifier.events[0].OrderID)
	require.Equal(t, saved.Metadata.CreatedAt, notifier.events[0].PlacedAt)

	notifier.err = errors.New("smtp down")
	require.Error(t, svc.NotifyOrderPlaced(ctx, types.OrderIdentifier{ID: saved.Entity.ID}))

	require.ErrorIs(t, svc.NotifyOrderPlaced(ctx, types.OrderIdentifier{ID: "ghost"}), ports.ErrNotFound)
}

func TestDetachProducts(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()
	saved, err := svc.PlaceOrder(ctx, placeInput())
	require.NoError(t, err)

	require.NoError(t, svc.DetachProducts(ctx, []string{" ", "coral"}))
	require.NoError(t, svc.DetachProducts(ctx, nil))

	loaded, err := svc.GetOrder(ctx, types.OrderIdentifier{ID: saved.Entity.ID})
	require.NoError(t, err)
	require.Nil(t, loaded.Entity.Items[0].ProductID)
}
