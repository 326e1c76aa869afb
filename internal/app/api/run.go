package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	orderserver "github.com/Apurer/shop-order-service/go"
	inventoryclient "github.com/Apurer/shop-order-service/internal/clients/http/inventory"
	notificationclient "github.com/Apurer/shop-order-service/internal/clients/http/notification"
	productclient "github.com/Apurer/shop-order-service/internal/clients/http/product"
	"github.com/Apurer/shop-order-service/internal/clients/http/rest"
	"github.com/Apurer/shop-order-service/internal/domains/orders/adapters/external/catalog"
	"github.com/Apurer/shop-order-service/internal/domains/orders/adapters/external/inventory"
	"github.com/Apurer/shop-order-service/internal/domains/orders/adapters/external/notification"
	ordersmemory "github.com/Apurer/shop-order-service/internal/domains/orders/adapters/memory"
	"github.com/Apurer/shop-order-service/internal/domains/orders/adapters/notify"
	ordersobs "github.com/Apurer/shop-order-service/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/shop-order-service/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/Apurer/shop-order-service/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/shop-order-service/internal/domains/orders/application"
	ordersports "github.com/Apurer/shop-order-service/internal/domains/orders/ports"
	platformkafka "github.com/Apurer/shop-order-service/internal/platform/kafka"
	"github.com/Apurer/shop-order-service/internal/platform/migrations"
	platformobservability "github.com/Apurer/shop-order-service/internal/platform/observability"
	platformpostgres "github.com/Apurer/shop-order-service/internal/platform/postgres"
)

const serviceName = "order-service"

// Run boots the order HTTP API with observability, persistence, collaborators and
// notification delivery wired. It returns once ctx is cancelled and the server has drained.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
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

	repo, cleanupRepo := buildOrderRepository(ctx, cfg, logger)
	defer cleanupRepo()

	httpClient := rest.NewHTTPClient(cfg.HTTPClientTimeout)
	ledger, lookup, err := buildCollaborators(cfg, httpClient)
	if err != nil {
		return err
	}
	lookup, cleanupCache := withCatalogCache(ctx, cfg, lookup, logger)
	defer cleanupCache()

	temporalClient, err := ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Warn("Temporal workflows unavailable, delivering notifications directly", slog.String("error", err.Error()))
		temporalClient = nil
	} else {
		defer temporalClient.Close()
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}
	sender, cleanupSender, err := selectNotificationSender(cfg, httpClient, temporalClient)
	if err != nil {
		return err
	}
	defer cleanupSender()
	dispatcher := notify.NewAsyncDispatcher(
		sender,
		notify.WithLogger(logger),
		notify.WithQueueSize(cfg.NotificationQueueSize),
		notify.WithWorkers(cfg.NotificationWorkers),
		notify.WithMeter(instruments.Meter("internal.orders.notify")),
	)
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), notify.DefaultSendTimeout)
		defer cancel()
		if err := dispatcher.Close(drainCtx); err != nil {
			logger.Warn("notification queue not drained", slog.String("error", err.Error()))
		}
	}()

	coreService := ordersapp.NewService(repo, ledger, lookup, dispatcher)
	orderService := ordersobs.New(
		coreService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	// Middleware must be attached before routes are registered to wrap them.
	engine := gin.Default()
	engine.Use(otelgin.Middleware(serviceName))
	router := orderserver.NewRouterWithGinEngine(engine, orderserver.ApiHandleFunctions{
		OrderAPI: orderserver.NewOrderAPI(orderService, cfg.ErrorStatusMode),
		Metrics:  instruments.Metrics(),
	})

	server := &http.Server{Addr: cfg.Addr(), Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Order API listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("Order API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	logger.Info("Order API shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildOrderRepository(ctx context.Context, cfg Config, logger *slog.Logger) (ordersports.Repository, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory order store")
		return ordersmemory.NewRepository(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return ordersmemory.NewRepository(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return ordersmemory.NewRepository(), func() {}
	}
	if cfg.AutoMigrate {
		if err := migrateSchema(db, logger); err != nil {
			_ = sqlDB.Close()
			return ordersmemory.NewRepository(), func() {}
		}
	}
	logger.Info("order store configured with postgres")
	return orderspostgres.NewRepository(db), func() { _ = sqlDB.Close() }
}

func migrateSchema(db *gorm.DB, logger *slog.Logger) error {
	if err := migrations.Run(db); err != nil {
		logger.Error("schema migration failed, falling back to memory", slog.String("error", err.Error()))
		return err
	}
	logger.Info("order schema migrated")
	return nil
}

func buildCollaborators(cfg Config, httpClient *http.Client) (ordersports.InventoryLedger, ordersports.CatalogLookup, error) {
	inventoryClient, err := inventoryclient.NewInventoryClient(cfg.InventoryServiceURL, httpClient)
	if err != nil {
		return nil, nil, fmt.Errorf("inventory client: %w", err)
	}
	productClient, err := productclient.NewProductClient(cfg.ProductServiceURL, httpClient)
	if err != nil {
		return nil, nil, fmt.Errorf("product client: %w", err)
	}
	return inventory.NewLedger(inventoryClient), catalog.NewLookup(productClient), nil
}

func withCatalogCache(ctx context.Context, cfg Config, lookup ordersports.CatalogLookup, logger *slog.Logger) (ordersports.CatalogLookup, func()) {
	if cfg.RedisAddr == "" {
		return lookup, func() {}
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, product lookups are not cached", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
		_ = rdb.Close()
		return lookup, func() {}
	}
	logger.Info("product lookups cached in redis", slog.String("addr", cfg.RedisAddr), slog.Duration("ttl", cfg.CatalogCacheTTL))
	return catalog.NewCachedLookup(lookup, rdb, cfg.CatalogCacheTTL, logger), func() { _ = rdb.Close() }
}

// selectNotificationSender hands notifications to Temporal when a client is
// available and only builds a direct sender otherwise.
func selectNotificationSender(cfg Config, httpClient *http.Client, temporalClient client.Client) (ordersports.NotificationSender, func(), error) {
	if temporalClient != nil {
		return ordersworkflows.NewTemporalNotifier(temporalClient), func() {}, nil
	}
	return BuildNotificationSender(cfg, httpClient)
}

// BuildNotificationSender returns the sender that talks to the notification
// channel directly, over HTTP or Kafka depending on cfg.Notifier.
func BuildNotificationSender(cfg Config, httpClient *http.Client) (ordersports.NotificationSender, func(), error) {
	switch cfg.Notifier {
	case NotifierKafka:
		publisher, err := platformkafka.NewPublisher(cfg.KafkaBrokers, cfg.NotificationTopic)
		if err != nil {
			return nil, nil, fmt.Errorf("kafka publisher: %w", err)
		}
		return notification.NewKafkaSender(publisher), func() { _ = publisher.Close() }, nil
	default:
		notificationClient, err := notificationclient.NewNotificationClient(cfg.NotificationServiceURL, httpClient)
		if err != nil {
			return nil, nil, fmt.Errorf("notification client: %w", err)
		}
		return notification.NewHTTPSender(notificationClient), func() {}, nil
	}
}

// ConnectTemporalClient dials Temporal with tracing and the process logger attached.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
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
