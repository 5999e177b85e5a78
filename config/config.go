package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Settings struct {
	StorefrontAddr   string
	ArchiveAddr      string
	GatewayAddr      string
	StorefrontURL    string
	ArchiveURL       string
	PublicBaseURL    string
	AllowedOrigins   []string
	PlaceholderImage string

	StepInterval   time.Duration
	DeliveryETA    time.Duration
	OrderRetention time.Duration
	DeliveryFee    decimal.Decimal
	TaxRate        decimal.Decimal

	CartBackend string
	CartTTL     time.Duration

	KafkaBroker      string
	OrderEventsTopic string
	ArchiveGroupID   string

	LogLevel  string
	LogFormat string
}

// Load reads settings from the environment, falling back to defaults for
// anything unset. Malformed values are reported rather than ignored.
func Load() (Settings, error) {
	s := Settings{
		StorefrontAddr:   getEnv("STOREFRONT_ADDR", ":8080"),
		ArchiveAddr:      getEnv("ARCHIVE_ADDR", ":8082"),
		GatewayAddr:      getEnv("GATEWAY_ADDR", ":8000"),
		StorefrontURL:    getEnv("STOREFRONT_URL", "http://localhost:8080"),
		ArchiveURL:       getEnv("ARCHIVE_URL", "http://localhost:8082"),
		PublicBaseURL:    getEnv("PUBLIC_BASE_URL", "http://localhost:5173"),
		AllowedOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
		PlaceholderImage: getEnv("PLACEHOLDER_IMAGE", "/placeholder.svg"),
		CartBackend:      getEnv("CART_BACKEND", "memory"),
		KafkaBroker:      os.Getenv("KAFKA_BROKER"),
		OrderEventsTopic: getEnv("ORDER_EVENTS_TOPIC", "order-events"),
		ArchiveGroupID:   getEnv("ARCHIVE_GROUP_ID", "archive-svc"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
	}

	var err error
	if s.StepInterval, err = getDuration("PROGRESS_INTERVAL", 15*time.Second); err != nil {
		return Settings{}, err
	}
	if s.DeliveryETA, err = getDuration("DELIVERY_ETA", 45*time.Minute); err != nil {
		return Settings{}, err
	}
	if s.OrderRetention, err = getDuration("ORDER_RETENTION", 30*time.Minute); err != nil {
		return Settings{}, err
	}
	if s.CartTTL, err = getDuration("CART_TTL", 24*time.Hour); err != nil {
		return Settings{}, err
	}
	if s.DeliveryFee, err = getDecimal("DELIVERY_FEE", "5.00"); err != nil {
		return Settings{}, err
	}
	if s.TaxRate, err = getDecimal("TAX_RATE", "0.10"); err != nil {
		return Settings{}, err
	}

	if s.StepInterval <= 0 {
		return Settings{}, fmt.Errorf("PROGRESS_INTERVAL must be positive, got %s", s.StepInterval)
	}
	if s.OrderRetention <= 0 {
		return Settings{}, fmt.Errorf("ORDER_RETENTION must be positive, got %s", s.OrderRetention)
	}
	if s.DeliveryFee.IsNegative() || s.TaxRate.IsNegative() {
		return Settings{}, fmt.Errorf("DELIVERY_FEE and TAX_RATE must not be negative")
	}
	switch s.CartBackend {
	case "memory", "redis":
	default:
		return Settings{}, fmt.Errorf("CART_BACKEND must be memory or redis, got %q", s.CartBackend)
	}
	return s, nil
}

// NewLogger builds the process logger: JSON unless LOG_FORMAT=text.
func NewLogger(s Settings) *logrus.Logger {
	logger := logrus.New()
	if s.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		logger.WithField("log_level", s.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func PostgresDSN() string {
	return "host=" + getEnv("DB_HOST", "localhost") + " port=" + getEnv("DB_PORT", "5432") +
		" user=" + getEnv("DB_USER", "postgres") + " password=" + os.Getenv("DB_PASSWORD") +
		" dbname=" + getEnv("DB_NAME", "foodfleet") + " sslmode=" + getEnv("DB_SSLMODE", "disable")
}

func MustInitPostgres(logger *logrus.Logger) *sql.DB {
	db, err := sql.Open("postgres", PostgresDSN())
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	if err = db.Ping(); err != nil {
		logger.WithError(err).Fatal("Failed to ping database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(logger *logrus.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: getEnv("REDIS_HOST", "localhost") + ":" + getEnv("REDIS_PORT", "6379"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	return client
}

func NewKafkaReader(broker, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getDecimal(key, fallback string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
