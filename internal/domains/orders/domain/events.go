package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the base interface for order domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// OrderPlacedLine summarises one line of a placed order.
type OrderPlacedLine struct {
	ProductName string `json:"productName"`
	Size        string `json:"size"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
}

// OrderPlaced is raised once an order has been persisted.
type OrderPlaced struct {
	OrderID       string            `json:"orderId"`
	CustomerName  string            `json:"customerName"`
	CustomerEmail string            `json:"customerEmail"`
	Total         decimal.Decimal   `json:"total"`
	Lines         []OrderPlacedLine `json:"lines"`
	PlacedAt      time.Time         `json:"placedAt"`
}

// EventName returns the event type identifier.
func (e OrderPlaced) EventName() string {
	return "orders.order.placed"
}

// OccurredAt returns when the order was persisted.
func (e OrderPlaced) OccurredAt() time.Time {
	return e.PlacedAt
}

// NewOrderPlaced builds the event from a persisted order.
func NewOrderPlaced(order *Order, placedAt time.Time) OrderPlaced {
	lines := make([]OrderPlacedLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, OrderPlacedLine{
			ProductName: item.ProductName,
			Size:        item.Size,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}
	return OrderPlaced{
		OrderID:       order.ID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Total:         order.Total,
		Lines:         lines,
		PlacedAt:      placedAt,
	}
}
