package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/syntrixbase/ufoatlas/internal/config"
	"github.com/syntrixbase/ufoatlas/internal/logging"
	"github.com/syntrixbase/ufoatlas/internal/services"
)

func main() {
	// 0. Parse Command Line Flags
	configDir := flag.String("config", "config", "Directory holding config.yml and config.local.yml")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer func() {
		if err := logging.Shutdown(); err != nil {
			log.Printf("Failed to close log files: %v", err)
		}
	}()

	slog.Info("Starting ufoatlas",
		"http_addr", cfg.Server.Host,
		"http_port", cfg.Server.HTTPPort,
		"database", cfg.Storage.Mongo.DatabaseName,
		"collection", cfg.Storage.Mongo.Collection,
	)

	// 2. Initialize Service Manager
	mgr := services.NewManager(cfg, slog.Default())

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := mgr.Init(initCtx); err != nil {
		slog.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	// 3. Start Services
	// Context for background tasks
	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	if err := mgr.Start(bgCtx); err != nil {
		slog.Error("Failed to start services", "error", err)
		os.Exit(1)
	}

	// 4. Wait for Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	exitCode := 0
	select {
	case sig := <-quit:
		slog.Info("Shutting down services...", "signal", sig.String())
	case err := <-mgr.Errors():
		slog.Error("Service failed, shutting down", "error", err)
		exitCode = 1
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := mgr.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown completed with errors", "error", err)
		exitCode = 1
	}
	bgCancel()

	slog.Info("All services stopped.")
	if exitCode != 0 {
		shutdownCancel()
		_ = logging.Shutdown()
		os.Exit(exitCode)
	}
}
