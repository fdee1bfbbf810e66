package types

import (
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/projection"
)

// ProductProjection transports a product together with its persistence metadata.
type ProductProjection = projection.Projection[*domain.Product]

// VariantInput describes one variant in a create or update request.
type VariantInput struct {
	ID    string
	Name  string
	Slug  string
	Color string
}

// ProductMutationInput carries product fields while preserving presence: nil
// pointers leave the stored value untouched.
type ProductMutationInput struct {
	Slug           *string
	Name           *string
	Price          *string
	Discount       *int
	Image          *string
	Images         *[]string
	Description    *string
	Details        *[]string
	Composition    *string
	Care           *string
	Sizing         *string
	Sustainability *string
	Category       *string
	IsFeatured     *bool
	Variants       *[]VariantInput
}

type CreateProductInput struct {
	ProductMutationInput
}

type UpdateProductInput struct {
	ID string
	ProductMutationInput
}

type ProductIdentifier struct {
	ID string
}

type ProductSlug struct {
	Slug string
}

// ListProductsInput filters the catalog listing. Hidden products are excluded unless IncludeHidden is set.
type ListProductsInput struct {
	Category      string
	IncludeHidden bool
}

type SetVisibilityInput struct {
	ID     string
	Hidden bool
}

// BulkAction enumerates the admin bulk operations.
type BulkAction string

const (
	BulkActionHide   BulkAction = "hide"
	BulkActionShow   BulkAction = "show"
	BulkActionDelete BulkAction = "delete"
)

// Valid reports whether the action is one of hide, show or delete.
func (a BulkAction) Valid() bool {
	switch a {
	case BulkActionHide, BulkActionShow, BulkActionDelete:
		return true
	default:
		return false
	}
}

// PastTense renders the action for result messages.
func (a BulkAction) PastTense() string {
	switch a {
	case BulkActionHide:
		return "hidden"
	case BulkActionShow:
		return "shown"
	case BulkActionDelete:
		return "deleted"
	default:
		return string(a)
	}
}

type BulkActionInput struct {
	IDs    []string
	Action BulkAction
}

type BulkActionResult struct {
	Action  BulkAction
	Count   int
	Message string
}
