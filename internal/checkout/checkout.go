// Package checkout turns the cart into an order submission.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/cart"
	"github.com/Apurer/go-gin-storefront/internal/clients/http/storefront"
)

// ShippingFee is the flat delivery charge added to every non-empty order.
var ShippingFee = decimal.NewFromInt(15)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidCustomer = errors.New("customer name and a valid email are required")
)

// OrderPlacer submits orders. *storefront.Client satisfies it.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order storefront.PlaceOrderRequest, opts ...storefront.PlaceOrderOption) (*storefront.Order, error)
}

// Customer identifies who is ordering. IdempotencyKey is generated when empty;
// pass the same key to retry a submission without creating a second order.
type Customer struct {
	Name           string
	Email          string
	IdempotencyKey string
}

// Totals is the order summary shown before submission.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Summary prices the cart at listed prices plus shipping.
func Summary(store *cart.Store) Totals {
	subtotal := store.CartTotal()
	shipping := decimal.Zero
	if subtotal.IsPositive() {
		shipping = ShippingFee
	}
	return Totals{Subtotal: subtotal, Shipping: shipping, Total: subtotal.Add(shipping)}
}

// Checkout submits the contents of a cart.
type Checkout struct {
	cart   *cart.Store
	orders OrderPlacer
}

func New(store *cart.Store, orders OrderPlacer) *Checkout {
	return &Checkout{cart: store, orders: orders}
}

// Submit places the order and clears the cart on success. On failure the cart is untouched.
func (c *Checkout) Submit(ctx context.Context, customer Customer) (*storefront.Order, error) {
	items := c.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	name := strings.TrimSpace(customer.Name)
	email := strings.TrimSpace(customer.Email)
	if name == "" || email == "" {
		return nil, ErrInvalidCustomer
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCustomer, err)
	}

	request := storefront.PlaceOrderRequest{
		CustomerName:  name,
		CustomerEmail: email,
		Items:         make([]storefront.OrderItem, 0, len(items)),
		Total:         Summary(c.cart).Total,
	}
	for _, item := range items {
		line := storefront.OrderItem{
			ProductName: item.Product.Name,
			Price:       item.Product.Price,
			Size:        item.Size,
			Quantity:    item.Quantity,
		}
		if id := strings.TrimSpace(item.Product.ID); id != "" {
			line.ProductID = &id
		}
		request.Items = append(request.Items, line)
	}

	key := strings.TrimSpace(customer.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}
	order, err := c.orders.PlaceOrder(ctx, request, storefront.WithIdempotencyKey(key))
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	c.cart.ClearCart()
	return order, nil
}
