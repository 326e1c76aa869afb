package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/Apurer/shop-order-service/internal/clients/http/rest"
	"github.com/Apurer/shop-order-service/internal/domains/orders/adapters/external/catalog"
	"github.com/Apurer/shop-order-service/internal/domains/orders/adapters/notify"
	"github.com/Apurer/shop-order-service/internal/platform/kafka"
	apierrors "github.com/Apurer/shop-order-service/internal/shared/errors"
)

// Notifier transports for the direct notification sender.
const (
	NotifierHTTP  = "http"
	NotifierKafka = "kafka"
)

// DefaultNotificationTopic is the Kafka topic order notifications are published to.
const DefaultNotificationTopic = "order-notifications"

// Config carries environment-driven settings for the API process.
type Config struct {
	Port        string
	PostgresDSN string
	AutoMigrate bool

	ProductServiceURL      string
	InventoryServiceURL    string
	NotificationServiceURL string
	HTTPClientTimeout      time.Duration

	RedisAddr       string
	CatalogCacheTTL time.Duration

	Notifier              string
	KafkaBrokers          []string
	NotificationTopic     string
	NotificationQueueSize int
	NotificationWorkers   int

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	ErrorStatusMode apierrors.StatusMode
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                   envDefault("PORT", "8080"),
		PostgresDSN:            strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		AutoMigrate:            isTruthy(os.Getenv("AUTO_MIGRATE")),
		ProductServiceURL:      envDefault("PRODUCT_SERVICE_URL", "http://localhost:8081"),
		InventoryServiceURL:    envDefault("INVENTORY_SERVICE_URL", "http://localhost:8082"),
		NotificationServiceURL: envDefault("NOTIFICATION_SERVICE_URL", "http://localhost:8084"),
		RedisAddr:              strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		Notifier:               strings.ToLower(envDefault("NOTIFIER", NotifierHTTP)),
		KafkaBrokers:           kafka.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		NotificationTopic:      envDefault("NOTIFICATION_TOPIC", DefaultNotificationTopic),
		TemporalAddress:        envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:      envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:       isTruthy(os.Getenv("TEMPORAL_DISABLED")),
	}

	var err error
	if cfg.HTTPClientTimeout, err = envDuration("HTTP_CLIENT_TIMEOUT", rest.DefaultTimeout); err != nil {
		return Config{}, err
	}
	if cfg.CatalogCacheTTL, err = envDuration("CATALOG_CACHE_TTL", catalog.DefaultCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.NotificationQueueSize, err = envPositiveInt("NOTIFICATION_QUEUE_SIZE", notify.DefaultQueueSize); err != nil {
		return Config{}, err
	}
	if cfg.NotificationWorkers, err = envPositiveInt("NOTIFICATION_WORKERS", notify.DefaultWorkers); err != nil {
		return Config{}, err
	}
	if cfg.ErrorStatusMode, err = apierrors.ParseStatusMode(os.Getenv("ERROR_STATUS_MODE")); err != nil {
		return Config{}, fmt.Errorf("ERROR_STATUS_MODE: %w", err)
	}

	switch cfg.Notifier {
	case NotifierHTTP:
	case NotifierKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return Config{}, fmt.Errorf("KAFKA_BROKERS is required when NOTIFIER=kafka")
		}
	default:
		return Config{}, fmt.Errorf("NOTIFIER must be %q or %q", NotifierHTTP, NotifierKafka)
	}
	return cfg, nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envPositiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 5s", key)
	}
	return value, nil
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
