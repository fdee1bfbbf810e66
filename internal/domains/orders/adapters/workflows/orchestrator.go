package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	orderstypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-storefront/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-storefront/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order placement on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder runs the placement workflow and waits for the persisted order.
// The order ID is assigned here so activity retries upsert the same row.
func (o *TemporalOrderWorkflows) PlaceOrder(ctx context.Context, input orderstypes.PlaceOrderInput) (*orderstypes.OrderProjection, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	if strings.TrimSpace(input.OrderID) == "" {
		input.OrderID = uuid.NewString()
	}
	workflowID := buildOrderPlacementWorkflowID(input)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderPlacementWorkflow,
		orderworkflows.OrderPlacementWorkflowInput{Command: input, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var projection orderstypes.OrderProjection
			if err := existingRun.Get(ctx, &projection); err != nil {
				return nil, translateWorkflowError(err)
			}
			return &projection, nil
		}
		return nil, err
	}
	var projection orderstypes.OrderProjection
	if err := run.Get(ctx, &projection); err != nil {
		return nil, translateWorkflowError(err)
	}
	return &projection, nil
}

// translateWorkflowError restores the application sentinels carried by non-retryable activity failures.
func translateWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case orderactivities.InvalidOrderErrorType:
		return fmt.Errorf("%w: %s", ordersapp.ErrInvalidInput, appErr.Message())
	case orderactivities.OrderConflictErrorType:
		return fmt.Errorf("%w: %s", ordersapp.ErrConflict, appErr.Message())
	}
	return err
}

// InlineOrderWorkflows places and notifies in-process when no Temporal cluster is configured.
type InlineOrderWorkflows struct {
	service ports.Service
	logger  *slog.Logger
}

func NewInlineOrderWorkflows(service ports.Service, logger *slog.Logger) *InlineOrderWorkflows {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &InlineOrderWorkflows{service: service, logger: logger}
}

// PlaceOrder persists the order, then sends the confirmation. A failed
// confirmation is logged and never fails the placement.
func (o *InlineOrderWorkflows) PlaceOrder(ctx context.Context, input orderstypes.PlaceOrderInput) (*orderstypes.OrderProjection, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	projection, err := o.service.PlaceOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	if projection != nil && projection.Entity != nil {
		if err := o.service.NotifyOrderPlaced(ctx, orderstypes.OrderIdentifier{ID: projection.Entity.ID}); err != nil {
			o.logger.WarnContext(ctx, "order confirmation not delivered",
				slog.String("order.id", projection.Entity.ID),
				slog.String("error", err.Error()))
		}
	}
	return projection, nil
}

func buildOrderPlacementWorkflowID(input orderstypes.PlaceOrderInput) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("order-placement-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("order-placement-%s", input.OrderID)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
