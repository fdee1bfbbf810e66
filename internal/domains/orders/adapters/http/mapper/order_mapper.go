package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	orderstypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
)

// Order totals travel as JSON numbers, matching what checkout sends.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// OrderItem is the transport shape of an order line.
type OrderItem struct {
	ID          string  `json:"id,omitempty"`
	ProductID   *string `json:"productId"`
	ProductName string  `json:"productName"`
	Price       string  `json:"price"`
	Size        string  `json:"size"`
	Quantity    int     `json:"quantity"`
}

// PlaceOrder is the POST /orders body produced by checkout.
type PlaceOrder struct {
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	Items         []OrderItem     `json:"items"`
	Total         decimal.Decimal `json:"total"`
}

// Order is returned by POST /orders and GET /orders.
type Order struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	Items         []OrderItem     `json:"items"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ToPlaceOrderInput maps the request body; the idempotency key comes from the header.
func ToPlaceOrderInput(body PlaceOrder, idempotencyKey string) orderstypes.PlaceOrderInput {
	items := make([]orderstypes.OrderItemInput, 0, len(body.Items))
	for _, item := range body.Items {
		var productID *string
		if item.ProductID != nil {
			ref := *item.ProductID
			productID = &ref
		}
		items = append(items, orderstypes.OrderItemInput{
			ProductID:   productID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Size:        item.Size,
			Quantity:    item.Quantity,
		})
	}
	return orderstypes.PlaceOrderInput{
		CustomerName:   body.CustomerName,
		CustomerEmail:  body.CustomerEmail,
		Items:          items,
		Total:          body.Total,
		IdempotencyKey: idempotencyKey,
	}
}

// FromProjection maps a stored order to its transport shape.
func FromProjection(projection *orderstypes.OrderProjection) Order {
	if projection == nil || projection.Entity == nil {
		return Order{}
	}
	o := projection.Entity
	items := make([]OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Size:        item.Size,
			Quantity:    item.Quantity,
		})
	}
	return Order{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Total:         o.Total,
		Status:        string(o.Status),
		Items:         items,
		CreatedAt:     projection.Metadata.CreatedAt,
		UpdatedAt:     projection.Metadata.UpdatedAt,
	}
}

// FromProjectionList preserves order and never returns nil.
func FromProjectionList(list []*orderstypes.OrderProjection) []Order {
	result := make([]Order, 0, len(list))
	for _, projection := range list {
		result = append(result, FromProjection(projection))
	}
	return result
}
