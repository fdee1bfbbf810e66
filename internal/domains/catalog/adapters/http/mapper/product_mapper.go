package mapper

import (
	"time"

	catalogtypes "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
)

// Variant is the HTTP representation of a colour variant.
type Variant struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

// Product is the HTTP representation returned by every product route.
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

// MutationProduct captures create/update payloads while preserving field presence.
type MutationProduct struct {
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

// Visibility is the PATCH /products/:id/visibility body.
type Visibility struct {
	IsHidden *bool `json:"isHidden"`
}

// BulkActionRequest is the POST /products/bulk-actions body.
type BulkActionRequest struct {
	IDs    []string `json:"ids"`
	Action string   `json:"action"`
}

// BulkActionResponse reports how many products a bulk action touched.
type BulkActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// DeleteResponse acknowledges a single product deletion.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ToMutationInput converts a mutation payload into application input, keeping nil for absent fields.
func ToMutationInput(model MutationProduct) catalogtypes.ProductMutationInput {
	input := catalogtypes.ProductMutationInput{
		Slug:           cloneString(model.Slug),
		Name:           cloneString(model.Name),
		Price:          cloneString(model.Price),
		Image:          cloneString(model.Image),
		Description:    cloneString(model.Description),
		Composition:    cloneString(model.Composition),
		Care:           cloneString(model.Care),
		Sizing:         cloneString(model.Sizing),
		Sustainability: cloneString(model.Sustainability),
		Category:       cloneString(model.Category),
	}
	if model.Discount != nil {
		discount := *model.Discount
		input.Discount = &discount
	}
	if model.IsFeatured != nil {
		featured := *model.IsFeatured
		input.IsFeatured = &featured
	}
	if model.Images != nil {
		images := append([]string{}, (*model.Images)...)
		input.Images = &images
	}
	if model.Details != nil {
		details := append([]string{}, (*model.Details)...)
		input.Details = &details
	}
	if model.Variants != nil {
		variants := make([]catalogtypes.VariantInput, 0, len(*model.Variants))
		for _, v := range *model.Variants {
			variants = append(variants, catalogtypes.VariantInput{ID: v.ID, Name: v.Name, Slug: v.Slug, Color: v.Color})
		}
		input.Variants = &variants
	}
	return input
}

// ToBulkActionInput maps the bulk request body; validation happens in the service.
func ToBulkActionInput(req BulkActionRequest) catalogtypes.BulkActionInput {
	return catalogtypes.BulkActionInput{
		IDs:    append([]string{}, req.IDs...),
		Action: catalogtypes.BulkAction(req.Action),
	}
}

// FromBulkActionResult maps the service result to the response body.
func FromBulkActionResult(result *catalogtypes.BulkActionResult) BulkActionResponse {
	if result == nil {
		return BulkActionResponse{}
	}
	return BulkActionResponse{Success: true, Message: result.Message, Count: result.Count}
}

// FromDomainProduct maps the aggregate into its transport shape. Slices are never nil so clients always see arrays.
func FromDomainProduct(p *domain.Product) Product {
	if p == nil {
		return Product{}
	}
	variants := make([]Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, Variant{ID: v.ID, Name: v.Name, Slug: v.Slug, Color: v.Color})
	}
	return Product{
		ID:             p.ID,
		Slug:           p.Slug,
		Name:           p.Name,
		Price:          p.Price,
		Discount:       p.Discount,
		Image:          p.Image,
		Images:         append([]string{}, p.Images...),
		Description:    p.Description,
		Details:        append([]string{}, p.Details...),
		Composition:    p.Composition,
		Care:           p.Care,
		Sizing:         p.Sizing,
		Sustainability: p.Sustainability,
		Category:       p.Category,
		IsFeatured:     p.IsFeatured,
		IsHidden:       p.IsHidden,
		Variants:       variants,
	}
}

// FromProjection maps a projection into a transport product enriched with metadata.
func FromProjection(projection *catalogtypes.ProductProjection) Product {
	if projection == nil {
		return Product{}
	}
	product := FromDomainProduct(projection.Entity)
	product.CreatedAt = projection.Metadata.CreatedAt
	product.UpdatedAt = projection.Metadata.UpdatedAt
	return product
}

// FromProjectionList maps a slice of projections; an empty input yields an empty, non-nil slice.
func FromProjectionList(list []*catalogtypes.ProductProjection) []Product {
	result := make([]Product, 0, len(list))
	for _, projection := range list {
		result = append(result, FromProjection(projection))
	}
	return result
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	copy := *v
	return &copy
}
