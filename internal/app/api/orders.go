package api

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	redisidempotency "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/idempotency/redis"
	ordersmemory "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/notification"
	natsnotify "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/notification/nats"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/notification/sendgrid"
	ordersobs "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/migrations"
	platformnats "github.com/Apurer/go-gin-storefront/internal/platform/nats"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	platformredis "github.com/Apurer/go-gin-storefront/internal/platform/redis"
)

// MigrateDatabase creates or updates the storefront tables.
func MigrateDatabase(db *gorm.DB) error {
	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// BuildOrdersService wires the orders service with whatever infrastructure is reachable:
// postgres or memory storage, a Redis or table-backed idempotency store, and NATS/SendGrid notifiers.
// The API and the Temporal worker share it so both persist orders the same way.
func BuildOrdersService(ctx context.Context, cfg Config, db *gorm.DB, instruments *platformobservability.Instruments) (ordersports.Service, func()) {
	logger := instruments.Logger
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var (
		repo        ordersports.Repository       = ordersmemory.NewRepository()
		idempotency ordersports.IdempotencyStore = ordersmemory.NewIdempotencyStore()
	)
	if db != nil {
		repo = orderspostgres.NewRepository(db)
		idempotency = orderspostgres.NewIdempotencyStore(db)
	}
	if rdb, closeRedis := platformredis.ConnectFromEnv(ctx, logger); rdb != nil {
		cleanups = append(cleanups, closeRedis)
		idempotency = redisidempotency.NewStore(rdb, redisidempotency.DefaultTTL)
		logger.Info("order idempotency keys stored in redis")
	}

	var notifiers []ordersports.Notifier
	if nc, drain := platformnats.ConnectFromEnv(serviceName, logger); nc != nil {
		cleanups = append(cleanups, drain)
		notifiers = append(notifiers, natsnotify.NewPublisher(nc))
	}
	if cfg.SendGridAPIKey != "" {
		mailer, err := sendgrid.NewMailer(cfg.SendGridAPIKey, cfg.OrderEmailFrom)
		if err != nil {
			logger.Warn("order confirmation emails disabled", slog.String("error", err.Error()))
		} else {
			notifiers = append(notifiers, mailer)
		}
	}

	core := ordersapp.NewService(
		repo,
		ordersapp.WithIdempotencyStore(idempotency),
		ordersapp.WithNotifier(notification.New(notifiers...)),
	)
	service := ordersobs.New(
		core,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return service, cleanup
}
