package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	httpapi "foodfleet/archive-svc/internal/api/http"
	"foodfleet/archive-svc/internal/service"
	"foodfleet/archive-svc/internal/storage"
	"foodfleet/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	settings, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	logger := config.NewLogger(settings)
	if settings.KafkaBroker == "" {
		logger.Fatal("KAFKA_BROKER is required")
	}

	db := config.MustInitPostgres(logger)
	defer db.Close()
	rdb := config.MustInitRedis(logger)
	defer rdb.Close()

	store := storage.NewPostgresStore(db)
	if err := store.Migrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate archive schema")
	}

	reader := config.NewKafkaReader(settings.KafkaBroker, settings.OrderEventsTopic, settings.ArchiveGroupID)
	defer reader.Close()

	popularity := storage.NewLeaderboard(rdb)
	consumer := service.NewConsumer(reader, store, popularity, logger)
	handler := httpapi.NewHandler(service.NewArchiveService(store, popularity), logger)
	srv := httpapi.NewServer(settings.ArchiveAddr, httpapi.NewRouter(handler, settings.AllowedOrigins))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, consumer, srv, logger); err != nil {
		logger.WithError(err).Fatal("Archive Service stopped")
	}
	logger.Info("Archive Service gracefully stopped")
}

type starter interface {
	Start(ctx context.Context) error
}

func run(ctx context.Context, consumer starter, srv *http.Server, logger *logrus.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Start(gctx)
	})
	g.Go(func() error {
		return httpapi.StartServer(srv, logger)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
