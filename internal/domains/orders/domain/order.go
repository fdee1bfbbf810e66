package domain

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"
)

// Status is the order state. Placement is the only transition, so every
// stored order is pending.
type Status string

const StatusPending Status = "pending"

var (
	ErrEmptyCustomerName = errors.New("customer name is required")
	ErrInvalidEmail      = errors.New("customer email is invalid")
	ErrNoItems           = errors.New("order must contain at least one item")
	ErrEmptyProductName  = errors.New("order item product name is required")
	ErrInvalidQuantity   = errors.New("order item quantity must be greater than zero")
	ErrNegativeTotal     = errors.New("order total must not be negative")
	ErrInvalidStatus     = errors.New("order status is invalid")
)

// OrderItem is a denormalized line. ProductID is nil once the product has been deleted.
type OrderItem struct {
	ID          string
	ProductID   *string
	ProductName string
	Price       string
	Size        string
	Quantity    int
}

// Order is the purchase aggregate submitted at checkout.
type Order struct {
	ID            string
	CustomerName  string
	CustomerEmail string
	Total         decimal.Decimal
	Status        Status
	Items         []OrderItem
}

// NewOrder validates and constructs a pending order.
func NewOrder(id, customerName, customerEmail string, total decimal.Decimal, items []OrderItem) (*Order, error) {
	order := &Order{
		ID:            id,
		CustomerName:  strings.TrimSpace(customerName),
		CustomerEmail: strings.TrimSpace(customerEmail),
		Total:         total,
		Status:        StatusPending,
		Items:         cloneItems(items),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.CustomerName == "" {
		return ErrEmptyCustomerName
	}
	if _, err := mail.ParseAddress(o.CustomerEmail); err != nil {
		return ErrInvalidEmail
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.Items {
		if strings.TrimSpace(item.ProductName) == "" {
			return ErrEmptyProductName
		}
		if item.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	if o.Total.IsNegative() {
		return ErrNegativeTotal
	}
	if o.Status != StatusPending {
		return ErrInvalidStatus
	}
	return nil
}

// DetachProducts clears the product reference on lines pointing at any of the ids.
// It returns the number of lines changed.
func (o *Order) DetachProducts(ids map[string]struct{}) int {
	changed := 0
	for i := range o.Items {
		ref := o.Items[i].ProductID
		if ref == nil {
			continue
		}
		if _, ok := ids[*ref]; ok {
			o.Items[i].ProductID = nil
			changed++
		}
	}
	return changed
}

// ItemCount sums quantities across lines.
func (o *Order) ItemCount() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	copy := *o
	copy.Items = cloneItems(o.Items)
	return &copy
}

func cloneItems(items []OrderItem) []OrderItem {
	if items == nil {
		return nil
	}
	out := make([]OrderItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.ProductID != nil {
			ref := *item.ProductID
			out[i].ProductID = &ref
		}
	}
	return out
}
