package storefront

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant is a colour variant linking to another product page.
type Variant struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

// Product mirrors the API product resource.
type Product struct {
	ID             string    `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	Price          string    `json:"price"`
	Discount       int       `json:"discount"`
	Image          string    `json:"image"`
	Images         []string  `json:"images"`
	Description    string    `json:"description"`
	Details        []string  `json:"details"`
	Composition    string    `json:"composition"`
	Care           string    `json:"care"`
	Sizing         string    `json:"sizing"`
	Sustainability string    `json:"sustainability"`
	Category       string    `json:"category"`
	IsFeatured     bool      `json:"isFeatured"`
	IsHidden       bool      `json:"isHidden"`
	Variants       []Variant `json:"variants"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProductUpdate is a partial product body for create and update calls.
// Nil fields are omitted from the request and left untouched by the server.
type ProductUpdate struct {
	Slug           *string    `json:"slug,omitempty"`
	Name           *string    `json:"name,omitempty"`
	Price          *string    `json:"price,omitempty"`
	Discount       *int       `json:"discount,omitempty"`
	Image          *string    `json:"image,omitempty"`
	Images         *[]string  `json:"images,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Details        *[]string  `json:"details,omitempty"`
	Composition    *string    `json:"composition,omitempty"`
	Care           *string    `json:"care,omitempty"`
	Sizing         *string    `json:"sizing,omitempty"`
	Sustainability *string    `json:"sustainability,omitempty"`
	Category       *string    `json:"category,omitempty"`
	IsFeatured     *bool      `json:"isFeatured,omitempty"`
	Variants       *[]Variant `json:"variants,omitempty"`
}

// ListProductsParams filters GET /products.
type ListProductsParams struct {
	Category      string
	IncludeHidden bool
}

// BulkAction is one of hide, show or delete.
type BulkAction string

const (
	BulkHide   BulkAction = "hide"
	BulkShow   BulkAction = "show"
	BulkDelete BulkAction = "delete"
)

// BulkActionResult reports how many products a bulk action touched.
type BulkActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// DeleteResult acknowledges a single deletion.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OrderItem is one order line. ProductID is nil once the product was deleted.
type OrderItem struct {
	ID          string  `json:"id,omitempty"`
	ProductID   *string `json:"productId"`
	ProductName string  `json:"productName"`
	Price       string  `json:"price"`
	Size        string  `json:"size"`
	Quantity    int     `json:"quantity"`
}

// PlaceOrderRequest is the checkout submission.
type PlaceOrderRequest struct {
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	Items         []OrderItem     `json:"items"`
	Total         decimal.Decimal `json:"total"`
}

// Order mirrors the API order resource.
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

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type visibilityRequest struct {
	IsHidden bool `json:"isHidden"`
}

type bulkActionRequest struct {
	IDs    []string   `json:"ids"`
	Action BulkAction `json:"action"`
}
