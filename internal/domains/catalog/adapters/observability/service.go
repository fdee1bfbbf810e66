package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogtypes "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) ListProducts(ctx context.Context, input catalogtypes.ListProductsInput) ([]*catalogtypes.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts",
		trace.WithAttributes(attribute.String("product.category", input.Category), attribute.Bool("product.include_hidden", input.IncludeHidden)))
	defer span.End()

	result, err := s.inner.ListProducts(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products", slog.String("category", input.Category))
	}
	span.SetAttributes(attribute.Int("product.count", len(result)))
	return result, nil
}

func (s *Service) FeaturedProducts(ctx context.Context) ([]*catalogtypes.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.FeaturedProducts")
	defer span.End()

	result, err := s.inner.FeaturedProducts(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list featured products")
	}
	span.SetAttributes(attribute.Int("product.count", len(result)))
	return result, nil
}

func (s *Service) GetBySlug(ctx context.Context, input catalogtypes.ProductSlug) (*catalogtypes.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetBySlug", trace.WithAttributes(attribute.String("product.slug", input.Slug)))
	defer span.End()

	result, err := s.inner.GetBySlug(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.String("product.slug", input.Slug))
	}
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, input catalogtypes.ProductIdentifier) (*catalogtypes.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetByID", trace.WithAttributes(attribute.String("product.id", input.ID)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.String("product.id", input.ID))
	}
	return result, nil
}

func (s *Service) CreateProduct(ctx context.Context, input catalogtypes.CreateProductInput) (*catalogtypes.ProductProjection, error) {
	slug := derefString(input.Slug)
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct", trace.WithAttributes(attribute.String("product.slug", slug)))
	defer span.End()

	s.logInfo(ctx, "creating product", slog.String("product.slug", slug))
	result, err := s.inner.CreateProduct(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("product.slug", slug))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "product created", slog.String("product.id", result.Entity.ID), slog.String("product.slug", result.Entity.Slug))
	return result, nil
}

func (s *Service) UpdateProduct(ctx context.Context, input catalogtypes.UpdateProductInput) (*catalogtypes.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(attribute.String("product.id", input.ID)))
	defer span.End()

	s.logInfo(ctx, "updating product", slog.String("product.id", input.ID))
	result, err := s.inner.UpdateProduct(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.String("product.id", input.ID))
	}
	s.logInfo(ctx, "product updated", slog.String("product.id", result.Entity.ID), slog.Bool("product.featured", result.Entity.IsFeatured))
	return result, nil
}

func (s *Service) SetVisibility(ctx context.Context, input catalogtypes.SetVisibilityInput) (*catalogtypes.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.SetVisibility",
		trace.WithAttributes(attribute.String("product.id", input.ID), attribute.Bool("product.hidden", input.Hidden)))
	defer span.End()

	s.logInfo(ctx, "changing product visibility", slog.String("product.id", input.ID), slog.Bool("hidden", input.Hidden))
	result, err := s.inner.SetVisibility(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change product visibility", slog.String("product.id", input.ID))
	}
	return result, nil
}

func (s *Service) DeleteProduct(ctx context.Context, input catalogtypes.ProductIdentifier) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(attribute.String("product.id", input.ID)))
	defer span.End()

	s.logInfo(ctx, "deleting product", slog.String("product.id", input.ID))
	if err := s.inner.DeleteProduct(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.String("product.id", input.ID))
	}
	s.metrics.recordDeleted(ctx, 1)
	s.logInfo(ctx, "product deleted", slog.String("product.id", input.ID))
	return nil
}

func (s *Service) BulkAction(ctx context.Context, input catalogtypes.BulkActionInput) (*catalogtypes.BulkActionResult, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.BulkAction",
		trace.WithAttributes(attribute.String("bulk.action", string(input.Action)), attribute.Int("bulk.requested", len(input.IDs))))
	defer span.End()

	s.logInfo(ctx, "running bulk action", slog.String("action", string(input.Action)), slog.Int("requested", len(input.IDs)))
	result, err := s.inner.BulkAction(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "bulk action failed", slog.String("action", string(input.Action)))
	}
	s.metrics.recordBulk(ctx, result.Action, result.Count)
	if result.Action == catalogtypes.BulkActionDelete {
		s.metrics.recordDeleted(ctx, result.Count)
	}
	span.SetAttributes(attribute.Int("bulk.affected", result.Count))
	s.logInfo(ctx, "bulk action applied", slog.String("action", string(result.Action)), slog.Int("affected", result.Count))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

type serviceMetrics struct {
	productsCreated metric.Int64Counter
	productsDeleted metric.Int64Counter
	bulkActions     metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("catalog.service.products_created", metric.WithDescription("Number of products created"))
	deleted, _ := m.Int64Counter("catalog.service.products_deleted", metric.WithDescription("Number of products deleted"))
	bulk, _ := m.Int64Counter("catalog.service.bulk_actions", metric.WithDescription("Products affected by admin bulk actions"))
	return serviceMetrics{productsCreated: created, productsDeleted: deleted, bulkActions: bulk}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.productsCreated != nil {
		m.productsCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context, n int) {
	if m.productsDeleted != nil && n > 0 {
		m.productsDeleted.Add(ctx, int64(n))
	}
}

func (m serviceMetrics) recordBulk(ctx context.Context, action catalogtypes.BulkAction, n int) {
	if m.bulkActions != nil {
		m.bulkActions.Add(ctx, int64(n), metric.WithAttributes(attribute.String("bulk.action", string(action))))
	}
}

var _ catalogports.Service = (*Service)(nil)
