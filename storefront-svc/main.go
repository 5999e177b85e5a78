package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"foodfleet/config"
	httpapi "foodfleet/storefront-svc/internal/api/http"
	"foodfleet/storefront-svc/internal/api/ws"
	"foodfleet/storefront-svc/internal/cart"
	"foodfleet/storefront-svc/internal/catalog"
	"foodfleet/storefront-svc/internal/service"
	"foodfleet/storefront-svc/internal/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	settings, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	logger := config.NewLogger(settings)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, settings, logger); err != nil {
		logger.WithError(err).Fatal("Storefront Service stopped")
	}
	logger.Info("Storefront Service gracefully stopped")
}

func run(ctx context.Context, s config.Settings, logger *logrus.Logger) error {
	pricing := cart.Pricing{DeliveryFee: s.DeliveryFee, TaxRate: s.TaxRate}

	var rdb *redis.Client
	if s.CartBackend == "redis" {
		rdb = config.MustInitRedis(logger)
		defer rdb.Close()
	}
	store := newCartStore(s, pricing, rdb)

	publisher, closer := newPublisher(s, logger)
	defer closer.Close()

	hub := ws.NewHub(logger)
	cat := catalog.Default()
	orders := service.NewOrderService(store, publisher, hub, service.DefaultQRGenerator{BaseURL: s.PublicBaseURL},
		service.WithStepInterval(s.StepInterval),
		service.WithDeliveryETA(s.DeliveryETA),
		service.WithRetention(s.OrderRetention),
		service.WithLogger(logger),
	)

	handler := httpapi.NewHandler(cat, service.NewCartService(cat, store), orders, hub, logger)
	handler.PlaceholderImage = s.PlaceholderImage
	srv := httpapi.NewServer(s.StorefrontAddr, httpapi.NewRouter(handler, s.AllowedOrigins))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return httpapi.StartServer(srv, logger)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		orders.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newCartStore(s config.Settings, pricing cart.Pricing, rdb *redis.Client) cart.Store {
	if rdb != nil {
		return cart.NewRedisStore(rdb, pricing, s.CartTTL)
	}
	return cart.NewMemoryStore(pricing)
}

// newPublisher sends order events to kafka behind a circuit breaker, or to
// the log when no broker is configured.
func newPublisher(s config.Settings, logger *logrus.Logger) (storage.Publisher, io.Closer) {
	if s.KafkaBroker == "" {
		logger.Warn("KAFKA_BROKER not set, order events are only logged")
		return storage.LogPublisher{Logger: logger}, io.NopCloser(nil)
	}
	writer := config.NewKafkaWriter(s.KafkaBroker, s.OrderEventsTopic)
	pub := storage.NewBreakerPublisher(storage.NewKafkaPublisher(writer), storage.DefaultBreakerConfig(), logger)
	return pub, writer
}
