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

	orderstypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
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

// New wraps the core orders service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
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

func (s *Service) PlaceOrder(ctx context.Context, input orderstypes.PlaceOrderInput) (*orderstypes.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder",
		trace.WithAttributes(
			attribute.Int("order.lines", len(input.Items)),
			attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
		))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int("lines", len(input.Items)), slog.String("total", input.Total.String()))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.Int("lines", len(input.Items)))
	}
	span.SetAttributes(attribute.String("order.id", result.Entity.ID))
	s.metrics.recordPlaced(ctx, result.Entity.ItemCount())
	s.logInfo(ctx, "order placed", slog.String("order.id", result.Entity.ID), slog.String("status", string(result.Entity.Status)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, input orderstypes.OrderIdentifier) (*orderstypes.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder", trace.WithAttributes(attribute.String("order.id", input.ID)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", input.ID))
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*orderstypes.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) NotifyOrderPlaced(ctx context.Context, input orderstypes.OrderIdentifier) error {
	ctx, span := s.tracer.Start(ctx, "OrdersService.NotifyOrderPlaced", trace.WithAttributes(attribute.String("order.id", input.ID)))
	defer span.End()

	if err := s.inner.NotifyOrderPlaced(ctx, input); err != nil {
		s.metrics.recordNotification(ctx, false)
		return s.handleError(ctx, span, err, "failed to notify order placed", slog.String("order.id", input.ID))
	}
	s.metrics.recordNotification(ctx, true)
	s.logInfo(ctx, "order confirmation sent", slog.String("order.id", input.ID))
	return nil
}

func (s *Service) DetachProducts(ctx context.Context, productIDs []string) error {
	ctx, span := s.tracer.Start(ctx, "OrdersService.DetachProducts", trace.WithAttributes(attribute.StringSlice("product.ids", productIDs)))
	defer span.End()

	if err := s.inner.DetachProducts(ctx, productIDs); err != nil {
		return s.handleError(ctx, span, err, "failed to detach products from order items", slog.Int("products", len(productIDs)))
	}
	s.logInfo(ctx, "detached products from order items", slog.Int("products", len(productIDs)))
	return nil
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

type serviceMetrics struct {
	ordersPlaced  metric.Int64Counter
	unitsOrdered  metric.Int64Counter
	notifications metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	units, _ := m.Int64Counter("orders.service.units_ordered", metric.WithDescription("Garments ordered across all lines"))
	notifications, _ := m.Int64Counter("orders.service.notifications", metric.WithDescription("Order confirmation attempts"))
	return serviceMetrics{ordersPlaced: placed, unitsOrdered: units, notifications: notifications}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, units int) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
	if m.unitsOrdered != nil {
		m.unitsOrdered.Add(ctx, int64(units))
	}
}

func (m serviceMetrics) recordNotification(ctx context.Context, ok bool) {
	if m.notifications != nil {
		m.notifications.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", ok)))
	}
}

var _ ordersports.Service = (*Service)(nil)
