package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	storefrontserver "github.com/Apurer/go-gin-storefront/go"

	adminmemory "github.com/Apurer/go-gin-storefront/internal/domains/admin/adapters/memory"
	adminobs "github.com/Apurer/go-gin-storefront/internal/domains/admin/adapters/observability"
	adminpostgres "github.com/Apurer/go-gin-storefront/internal/domains/admin/adapters/persistence/postgres"
	adminapp "github.com/Apurer/go-gin-storefront/internal/domains/admin/application"
	admindomain "github.com/Apurer/go-gin-storefront/internal/domains/admin/domain"
	adminports "github.com/Apurer/go-gin-storefront/internal/domains/admin/ports"
	catalogmemory "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	ordersworkflows "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/workflows"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	platformmetrics "github.com/Apurer/go-gin-storefront/internal/platform/metrics"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-storefront/internal/platform/postgres"
	"github.com/Apurer/go-gin-storefront/internal/platform/ratelimit"
)

const serviceName = "storefront-api"

// Run boots the storefront HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	if db != nil {
		if err := MigrateDatabase(db); err != nil {
			return err
		}
	}

	orderService, cleanupOrders := BuildOrdersService(ctx, cfg, db, instruments)
	defer cleanupOrders()

	catalogService := buildCatalogService(cfg, db, orderService, instruments)
	if db == nil {
		seeded, err := SeedCatalog(ctx, catalogService)
		if err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		logger.Info("in-memory catalog seeded", slog.Int("products", seeded))
	}

	adminService, err := buildAdminService(cfg, db, instruments)
	if err != nil {
		return err
	}

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService, logger)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	adminAPI := storefrontserver.NewAdminAPI(adminService)
	handlers := storefrontserver.ApiHandleFunctions{
		ProductAPI:   storefrontserver.NewProductAPI(catalogService),
		OrderAPI:     storefrontserver.NewOrderAPI(orderService, orderWorkflows),
		AdminAPI:     adminAPI,
		LoginLimiter: ratelimit.PerMinute(cfg.LoginRatePerMinute, logger).Middleware(),
	}
	if cfg.AdminAuthEnforced {
		handlers.AdminGuard = adminAPI.RequireAdmin()
	} else {
		logger.Warn("ADMIN_AUTH_ENFORCED is off, admin routes are open")
	}

	httpMetrics := platformmetrics.New("storefront")
	router := gin.Default()
	router.Use(
		cors.New(corsConfig(cfg.CORSAllowedOrigins)),
		otelgin.Middleware(serviceName),
		httpMetrics.Middleware(),
	)
	router.GET("/metrics", gin.WrapH(httpMetrics.Handler()))
	storefrontserver.NewRouterWithGinEngine(router, handlers)

	srv := &http.Server{Addr: cfg.Addr(), Handler: router, ReadHeaderTimeout: 10 * time.Second}
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("storefront API listening", slog.String("addr", srv.Addr))
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("storefront API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("storefront API shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func corsConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", storefrontserver.IdempotencyKeyHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func buildCatalogService(cfg Config, db *gorm.DB, refs catalogports.OrderReferences, instruments *platformobservability.Instruments) catalogports.Service {
	var repo catalogports.Repository = catalogmemory.NewRepository()
	if db != nil {
		repo = catalogpostgres.NewRepository(db)
	}
	core := catalogapp.NewService(
		repo,
		catalogapp.WithOrderReferences(refs),
		catalogapp.WithFeaturedLimit(cfg.FeaturedLimit),
	)
	return catalogobs.New(
		core,
		catalogobs.WithLogger(instruments.Logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
}

func buildAdminService(cfg Config, db *gorm.DB, instruments *platformobservability.Instruments) (adminports.Service, error) {
	var (
		creds *admindomain.Credentials
		err   error
	)
	if cfg.AdminPasswordBcrypt != "" {
		creds, err = admindomain.NewCredentials(cfg.AdminUsername, []byte(cfg.AdminPasswordBcrypt))
	} else {
		creds, err = admindomain.NewCredentialsFromPassword(cfg.AdminUsername, cfg.AdminPassword)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to configure admin credentials: %w", err)
	}
	var sessions adminports.SessionStore = adminmemory.NewSessionStore()
	if db != nil {
		sessions = adminpostgres.NewSessionStore(db)
	}
	core := adminapp.NewService(creds, sessions, adminapp.WithSessionTTL(cfg.SessionTTL))
	return adminobs.New(
		core,
		adminobs.WithLogger(instruments.Logger),
		adminobs.WithTracer(instruments.Tracer("internal.admin.application")),
		adminobs.WithMeter(instruments.Meter("internal.admin.application")),
	), nil
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	return DialTemporal(cfg, instruments, "temporal-client")
}

// DialTemporal connects to the configured Temporal frontend with tracing and structured logging.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
