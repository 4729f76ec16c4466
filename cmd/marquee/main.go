package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/narwhalmedia/marquee/internal/container"
	"github.com/narwhalmedia/marquee/pkg/config"
	"github.com/narwhalmedia/marquee/pkg/interfaces"
	"github.com/narwhalmedia/marquee/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.MustLoadServiceConfig(config.DefaultServiceName, config.GetDefaults())

	// Initialize logger
	log, err := cfg.Logger.Build()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Marquee starting",
		interfaces.String("version", config.GetServiceVersion(&cfg.Service)),
		interfaces.String("environment", cfg.Service.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, cleanup, err := container.InitializeApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize service", interfaces.Error(err))
	}
	defer cleanup()

	if err := app.EventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", interfaces.Error(err))
	}

	if cfg.Catalog.CacheTTL > 0 {
		app.Cache.StartJanitor(ctx, cfg.Catalog.CacheTTL)
	}

	// Start gRPC health server
	grpcAddr := config.GetGRPCListenAddress(&cfg.Service)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatal("Failed to listen", interfaces.Error(err))
	}
	go func() {
		if err := app.GRPC.Serve(lis); err != nil {
			log.Error("gRPC server failed", interfaces.Error(err))
		}
	}()

	// Start HTTP API server
	httpServer := &http.Server{
		Addr:              config.GetListenAddress(&cfg.Service),
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return logger.WithContext(ctx, app.Logger)
		},
	}
	go func() {
		log.Info("HTTP server starting", interfaces.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to serve HTTP", interfaces.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Service.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", interfaces.Error(err))
	}

	app.GRPC.GracefulStop()

	// Let queued event deliveries finish before the forwarders close
	if err := app.EventBus.Stop(); err != nil {
		log.Error("Failed to stop event bus", interfaces.Error(err))
	}

	log.Info("Marquee stopped")
}
