package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	types "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

// Service orchestrates the catalog use cases.
type Service struct {
	repo          ports.Repository
	orders        ports.OrderReferences
	featuredLimit int
	newID         func() string
}

type Option func(*Service)

// WithOrderReferences wires the order store used to detach lines before deletion.
func WithOrderReferences(refs ports.OrderReferences) Option {
	return func(s *Service) {
		if refs != nil {
			s.orders = refs
		}
	}
}

// WithFeaturedLimit overrides domain.DefaultFeaturedLimit.
func WithFeaturedLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.featuredLimit = limit
		}
	}
}

// WithIDGenerator overrides uuid-based product and variant identifiers.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		orders:        ports.NoopOrderReferences,
		featuredLimit: domain.DefaultFeaturedLimit,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) ListProducts(ctx context.Context, input types.ListProductsInput) ([]*types.ProductProjection, error) {
	result, err := s.repo.List(ctx, ports.ListFilter{
		Category:      strings.TrimSpace(input.Category),
		IncludeHidden: input.IncludeHidden,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// FeaturedProducts returns visible featured products, at most the featured limit.
func (s *Service) FeaturedProducts(ctx context.Context) ([]*types.ProductProjection, error) {
	result, err := s.repo.List(ctx, ports.ListFilter{FeaturedOnly: true, Limit: s.featuredLimit})
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// GetBySlug loads a product by slug, hidden or not.
func (s *Service) GetBySlug(ctx context.Context, input types.ProductSlug) (*types.ProductProjection, error) {
	result, err := s.repo.GetBySlug(ctx, strings.TrimSpace(input.Slug))
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, input types.ProductIdentifier) (*types.ProductProjection, error) {
	result, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// CreateProduct persists a new product. Discount defaults to 0 and featured to false.
func (s *Service) CreateProduct(ctx context.Context, input types.CreateProductInput) (*types.ProductProjection, error) {
	product, err := s.buildProduct(input.ProductMutationInput)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, product, s.featuredLimit)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateProduct applies only the supplied fields; relation arrays replace the stored ones when present.
func (s *Service) UpdateProduct(ctx context.Context, input types.UpdateProductInput) (*types.ProductProjection, error) {
	current, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	product := current.Entity
	if err := s.applyPartialMutation(product, input.ProductMutationInput); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, product, s.featuredLimit)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// SetVisibility hides or shows one product. Hiding clears featured.
func (s *Service) SetVisibility(ctx context.Context, input types.SetVisibilityInput) (*types.ProductProjection, error) {
	current, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	current.Entity.SetHidden(input.Hidden)
	saved, err := s.repo.Save(ctx, current.Entity, s.featuredLimit)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// DeleteProduct detaches order lines that reference the product, then deletes it.
func (s *Service) DeleteProduct(ctx context.Context, input types.ProductIdentifier) error {
	if _, err := s.repo.GetByID(ctx, input.ID); err != nil {
		return mapError(err)
	}
	if err := s.orders.DetachProducts(ctx, []string{input.ID}); err != nil {
		return fmt.Errorf("detach order items: %w", err)
	}
	removed, err := s.repo.Delete(ctx, []string{input.ID})
	if err != nil {
		return mapError(err)
	}
	if removed == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// BulkAction hides, shows or deletes every listed product.
func (s *Service) BulkAction(ctx context.Context, input types.BulkActionInput) (*types.BulkActionResult, error) {
	ids := normalizeIDs(input.IDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: ids must be a non-empty list", ErrInvalidInput)
	}
	if !input.Action.Valid() {
		return nil, fmt.Errorf("%w: action must be hide, show, or delete", ErrInvalidInput)
	}

	var (
		count int
		err   error
	)
	switch input.Action {
	case types.BulkActionHide:
		count, err = s.repo.SetHidden(ctx, ids, true)
	case types.BulkActionShow:
		count, err = s.repo.SetHidden(ctx, ids, false)
	case types.BulkActionDelete:
		if err := s.orders.DetachProducts(ctx, ids); err != nil {
			return nil, fmt.Errorf("detach order items: %w", err)
		}
		count, err = s.repo.Delete(ctx, ids)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &types.BulkActionResult{
		Action:  input.Action,
		Count:   count,
		Message: fmt.Sprintf("Successfully %s %d product(s)", input.Action.PastTense(), count),
	}, nil
}

func (s *Service) buildProduct(input types.ProductMutationInput) (*domain.Product, error) {
	if input.Name == nil {
		return nil, domain.ErrEmptyName
	}
	if input.Slug == nil {
		return nil, domain.ErrEmptySlug
	}
	if input.Price == nil {
		return nil, domain.ErrEmptyPrice
	}
	product, err := domain.NewProduct(s.newID(), *input.Slug, *input.Name, *input.Price)
	if err != nil {
		return nil, err
	}
	partial := input
	partial.Name, partial.Slug, partial.Price = nil, nil, nil
	if err := s.applyPartialMutation(product, partial); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) applyPartialMutation(target *domain.Product, input types.ProductMutationInput) error {
	if input.Name != nil {
		if err := target.Rename(*input.Name); err != nil {
			return err
		}
	}
	if input.Slug != nil {
		if err := target.ChangeSlug(*input.Slug); err != nil {
			return err
		}
	}
	if input.Price != nil {
		if err := target.ChangePrice(*input.Price); err != nil {
			return err
		}
	}
	if input.Discount != nil {
		if err := target.SetDiscount(*input.Discount); err != nil {
			return err
		}
	}
	assignString(&target.Image, input.Image)
	assignString(&target.Description, input.Description)
	assignString(&target.Composition, input.Composition)
	assignString(&target.Care, input.Care)
	assignString(&target.Sizing, input.Sizing)
	assignString(&target.Sustainability, input.Sustainability)
	assignString(&target.Category, input.Category)
	if input.Images != nil {
		target.ReplaceImages(*input.Images)
	}
	if input.Details != nil {
		target.ReplaceDetails(*input.Details)
	}
	if input.Variants != nil {
		variants := make([]domain.Variant, 0, len(*input.Variants))
		for _, v := range *input.Variants {
			id := strings.TrimSpace(v.ID)
			if id == "" {
				id = s.newID()
			}
			variants = append(variants, domain.Variant{ID: id, Name: strings.TrimSpace(v.Name), Slug: strings.TrimSpace(v.Slug), Color: v.Color})
		}
		if err := target.ReplaceVariants(variants); err != nil {
			return err
		}
	}
	if input.IsFeatured != nil {
		if err := target.SetFeatured(*input.IsFeatured); err != nil {
			return err
		}
	}
	return target.Validate()
}

func assignString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func normalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

var _ ports.Service = (*Service)(nil)
