package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liftctl/liftctl/internal/config"
	"github.com/liftctl/liftctl/internal/httpapi"
	"github.com/liftctl/liftctl/internal/logging"
	"github.com/liftctl/liftctl/internal/node"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logging.Init(cfg.LogLevel, cfg.NodeID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.InfoContext(ctx, "node starting up",
		slog.Int("node_id", cfg.NodeID),
		slog.Int("num_floors", cfg.NumFloors),
		slog.Int("broadcast_port", cfg.BroadcastPort),
		slog.Int("http_port", cfg.HTTPPort),
	)

	n, err := node.New(cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build node", slog.String("error", err.Error()))
		os.Exit(1)
	}

	observer := httpapi.New(cfg, n)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := observer.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	go n.Run(ctx)

	select {
	case sig := <-quit:
		slog.InfoContext(ctx, "received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		slog.ErrorContext(ctx, "observer server failed", slog.String("error", err.Error()))
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownGrace)
	defer shutdownCancel()
	if err := observer.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(ctx, "observer server shutdown failed", slog.String("error", err.Error()))
	}

	time.Sleep(100 * time.Millisecond)
	slog.Info("node shutdown complete")
}
