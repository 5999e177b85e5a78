package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PROGRESS_INTERVAL", "DELIVERY_ETA", "ORDER_RETENTION", "DELIVERY_FEE", "TAX_RATE", "CART_BACKEND", "CORS_ORIGINS", "GATEWAY_ADDR", "ARCHIVE_URL"} {
		t.Setenv(key, "")
	}

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", s.StorefrontAddr)
	assert.Equal(t, 15*time.Second, s.StepInterval)
	assert.Equal(t, 45*time.Minute, s.DeliveryETA)
	assert.Equal(t, 30*time.Minute, s.OrderRetention)
	assert.Equal(t, "5.00", s.DeliveryFee.StringFixed(2))
	assert.Equal(t, "0.10", s.TaxRate.StringFixed(2))
	assert.Equal(t, "memory", s.CartBackend)
	assert.Equal(t, []string{"*"}, s.AllowedOrigins)
	assert.Equal(t, ":8000", s.GatewayAddr)
	assert.Equal(t, "http://localhost:8082", s.ArchiveURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PROGRESS_INTERVAL", "2s")
	t.Setenv("DELIVERY_FEE", "3.50")
	t.Setenv("ORDER_RETENTION", "2h")
	t.Setenv("CART_BACKEND", "redis")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, s.StepInterval)
	assert.Equal(t, "3.50", s.DeliveryFee.StringFixed(2))
	assert.Equal(t, 2*time.Hour, s.OrderRetention)
	assert.Equal(t, "redis", s.CartBackend)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, s.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad interval", key: "PROGRESS_INTERVAL", value: "soon"},
		{name: "zero interval", key: "PROGRESS_INTERVAL", value: "0s"},
		{name: "bad fee", key: "DELIVERY_FEE", value: "five"},
		{name: "negative tax", key: "TAX_RATE", value: "-0.1"},
		{name: "unknown backend", key: "CART_BACKEND", value: "mongo"},
		{name: "bad ttl", key: "CART_TTL", value: "1 day"},
		{name: "negative retention", key: "ORDER_RETENTION", value: "-1m"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Setenv(testCase.key, testCase.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(Settings{LogLevel: "debug", LogFormat: "text"})
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	logger = NewLogger(Settings{LogLevel: "loud"})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestPostgresDSN(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "archive")
	t.Setenv("DB_PASSWORD", "secret")

	dsn := PostgresDSN()
	assert.Contains(t, dsn, "host=db")
	assert.Contains(t, dsn, "dbname=archive")
	assert.Contains(t, dsn, "password=secret")
	assert.Contains(t, dsn, "sslmode=disable")
}
