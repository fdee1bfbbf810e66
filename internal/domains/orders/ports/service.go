package ports

import (
	"context"

	orderstypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
)

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input orderstypes.PlaceOrderInput) (*orderstypes.OrderProjection, error)
	GetOrder(ctx context.Context, input orderstypes.OrderIdentifier) (*orderstypes.OrderProjection, error)
	ListOrders(ctx context.Context) ([]*orderstypes.OrderProjection, error)
	// NotifyOrderPlaced sends confirmation for a persisted order.
	NotifyOrderPlaced(ctx context.Context, input orderstypes.OrderIdentifier) error
	// DetachProducts keeps order history intact when products are deleted.
	DetachProducts(ctx context.Context, productIDs []string) error
}
