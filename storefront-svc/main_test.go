package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodfleet/config"
	"foodfleet/storefront-svc/internal/cart"
	"foodfleet/storefront-svc/internal/storage"
)

func TestNewCartStore(t *testing.T) {
	pricing := cart.DefaultPricing()
	assert.IsType(t, &cart.MemoryStore{}, newCartStore(config.Settings{}, pricing, nil))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	assert.IsType(t, &cart.RedisStore{}, newCartStore(config.Settings{CartTTL: time.Hour}, pricing, rdb))
}

func TestNewPublisher(t *testing.T) {
	logger, hook := test.NewNullLogger()

	pub, closer := newPublisher(config.Settings{}, logger)
	assert.IsType(t, storage.LogPublisher{}, pub)
	assert.NoError(t, closer.Close())
	require.NotNil(t, hook.LastEntry())

	pub, closer = newPublisher(config.Settings{KafkaBroker: "localhost:9092", OrderEventsTopic: "order-events"}, logger)
	assert.IsType(t, &storage.BreakerPublisher{}, pub)
	assert.NoError(t, closer.Close())
}

func TestRunServesUntilCancelled(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	logger, _ := test.NewNullLogger()
	s := config.Settings{
		StorefrontAddr:   addr,
		AllowedOrigins:   []string{"*"},
		PlaceholderImage: "/placeholder.svg",
		StepInterval:     time.Second,
		DeliveryETA:      time.Minute,
		OrderRetention:   time.Minute,
		DeliveryFee:      cart.DefaultPricing().DeliveryFee,
		TaxRate:          cart.DefaultPricing().TaxRate,
		CartBackend:      "memory",
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, s, logger) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
