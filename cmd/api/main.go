package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"stylegraph/application/commands"
	"stylegraph/infrastructure/config"
	"stylegraph/infrastructure/di"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cfg *config.Config
	var err error
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	go container.Hub.Run()

	// Load the catalog and bring up the first layout session before
	// accepting traffic, so the initial frame is never empty.
	if err := container.CommandBus.Send(ctx, commands.ReloadCatalogCommand{Source: cfg.CatalogPath}); err != nil {
		logger.Error("initial catalog load failed", zap.Error(err), zap.String("path", cfg.CatalogPath))
	} else if snapshot, err := container.Builder.Snapshot(ctx); err != nil {
		logger.Error("initial snapshot failed", zap.Error(err))
	} else {
		container.Visualizer.Start(snapshot, nil)
	}

	if cfg.WatchCatalog {
		watcher := config.NewFileWatcher(cfg.CatalogPath, func() {
			logger.Info("catalog file changed, reloading", zap.String("path", cfg.CatalogPath))
			if err := container.CommandBus.Send(ctx, commands.ReloadCatalogCommand{Source: cfg.CatalogPath}); err != nil {
				logger.Error("catalog reload failed", zap.Error(err))
				return
			}
			if snapshot, err := container.Builder.Snapshot(ctx); err == nil {
				container.Visualizer.Start(snapshot, nil)
			}
		}, logger)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("catalog watcher stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      container.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	container.Visualizer.Stop()
	container.Hub.Stop()

	if err := logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}
