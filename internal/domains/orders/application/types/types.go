package types

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/projection"
)

// OrderProjection transports an order with its persistence timestamps.
type OrderProjection = projection.Projection[*domain.Order]

// OrderItemInput is one flattened cart line.
type OrderItemInput struct {
	ProductID   *string
	ProductName string
	Price       string
	Size        string
	Quantity    int
}

// PlaceOrderInput is the checkout submission. OrderID may be pre-assigned so
// retried placements write the same row; when empty the service generates one.
type PlaceOrderInput struct {
	OrderID        string
	CustomerName   string
	CustomerEmail  string
	Items          []OrderItemInput
	Total          decimal.Decimal
	IdempotencyKey string
}

type OrderIdentifier struct {
	ID string
}
