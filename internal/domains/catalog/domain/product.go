package domain

import (
	"errors"
	"strings"
)

// DefaultFeaturedLimit caps how many visible products can be featured at once.
const DefaultFeaturedLimit = 5

var (
	ErrEmptyName        = errors.New("product name is required")
	ErrEmptySlug        = errors.New("product slug is required")
	ErrEmptyPrice       = errors.New("product price is required")
	ErrInvalidDiscount  = errors.New("discount must be between 0 and 100")
	ErrFeaturedHidden   = errors.New("hidden products cannot be featured")
	ErrInvalidVariant   = errors.New("variant name and slug are required")
	ErrDuplicateVariant = errors.New("variant slugs must be unique within a product")
)

// Variant is a color option. Each variant is itself a browsable product reachable by its slug.
type Variant struct {
	ID    string
	Name  string
	Slug  string
	Color string
}

// Product is the catalog aggregate.
type Product struct {
	ID             string
	Slug           string
	Name           string
	Price          string
	Discount       int
	Image          string
	Images         []string
	Description    string
	Details        []string
	Composition    string
	Care           string
	Sizing         string
	Sustainability string
	Category       string
	IsFeatured     bool
	IsHidden       bool
	Variants       []Variant
}

// NewProduct validates and constructs a visible, non-featured product without discount.
func NewProduct(id, slug, name, price string) (*Product, error) {
	p := &Product{ID: id}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.ChangeSlug(slug); err != nil {
		return nil, err
	}
	if err := p.ChangePrice(price); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces aggregate invariants.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(p.Slug) == "" {
		return ErrEmptySlug
	}
	if strings.TrimSpace(p.Price) == "" {
		return ErrEmptyPrice
	}
	if p.Discount < 0 || p.Discount > 100 {
		return ErrInvalidDiscount
	}
	if p.IsHidden && p.IsFeatured {
		return ErrFeaturedHidden
	}
	return validateVariants(p.Variants)
}

func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

func (p *Product) ChangeSlug(slug string) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ErrEmptySlug
	}
	p.Slug = slug
	return nil
}

func (p *Product) ChangePrice(price string) error {
	price = strings.TrimSpace(price)
	if price == "" {
		return ErrEmptyPrice
	}
	p.Price = price
	return nil
}

func (p *Product) SetDiscount(percent int) error {
	if percent < 0 || percent > 100 {
		return ErrInvalidDiscount
	}
	p.Discount = percent
	return nil
}

// SetFeatured toggles the featured flag. Hidden products cannot become featured.
func (p *Product) SetFeatured(featured bool) error {
	if featured && p.IsHidden {
		return ErrFeaturedHidden
	}
	p.IsFeatured = featured
	return nil
}

// SetHidden toggles visibility. Hiding always clears the featured flag.
func (p *Product) SetHidden(hidden bool) {
	p.IsHidden = hidden
	if hidden {
		p.IsFeatured = false
	}
}

func (p *Product) ReplaceImages(images []string) {
	p.Images = append([]string{}, images...)
}

func (p *Product) ReplaceDetails(details []string) {
	p.Details = append([]string{}, details...)
}

func (p *Product) ReplaceVariants(variants []Variant) error {
	if err := validateVariants(variants); err != nil {
		return err
	}
	p.Variants = append([]Variant{}, variants...)
	return nil
}

// Clone returns a deep copy.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Images = append([]string(nil), p.Images...)
	clone.Details = append([]string(nil), p.Details...)
	clone.Variants = append([]Variant(nil), p.Variants...)
	return &clone
}

func validateVariants(variants []Variant) error {
	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		if strings.TrimSpace(v.Name) == "" || strings.TrimSpace(v.Slug) == "" {
			return ErrInvalidVariant
		}
		if _, ok := seen[v.Slug]; ok {
			return ErrDuplicateVariant
		}
		seen[v.Slug] = struct{}{}
	}
	return nil
}
