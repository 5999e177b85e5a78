package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"foodfleet/api-gateway/internal/gateway"
	"foodfleet/config"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	logger := config.NewLogger(settings)

	gw, err := gateway.NewGateway(gateway.Config{
		StorefrontURL: settings.StorefrontURL,
		ArchiveURL:    settings.ArchiveURL,
	}, &http.Client{Timeout: 30 * time.Second}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Invalid upstream URL")
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   settings.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	srv := &http.Server{
		Addr:              settings.GatewayAddr,
		Handler:           c.Handler(gw.SetupRoutes()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.WithField("addr", srv.Addr).Info("API Gateway starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Fatal("API Gateway stopped")
	}
}
