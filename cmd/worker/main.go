package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"clienthub.app/hub/common/logger"
	"clienthub.app/hub/common/metrics"
	"clienthub.app/hub/common/otel"
	"clienthub.app/hub/core/config"
	"clienthub.app/hub/core/db"
	"clienthub.app/hub/internal/store"
	"clienthub.app/hub/internal/worker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "clienthub worker starting",
		"env", cfg.Env,
		"reap_interval", cfg.Worker.ReapInterval,
		"session_grace", cfg.Worker.SessionGrace)

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	stores := store.NewStores(database.Conn())

	reaper := worker.NewSessionReaper(stores.Sessions(), worker.SessionReaperConfig{
		Interval: cfg.Worker.ReapInterval,
		Grace:    cfg.Worker.SessionGrace,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// The worker exposes only its metrics.
	metricsRouter := gin.New()
	metricsRouter.Use(gin.Recovery())
	metricsRouter.GET("/metrics", gin.WrapH(metrics.Handler()))
	metricsServer := &http.Server{
		Addr:              ":" + cfg.Worker.MetricsPort,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "metrics server error", "error", err)
		}
	}()

	// Reap once at startup so a long-stopped worker catches up immediately.
	if _, err := reaper.ReapOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "initial reap failed", "error", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		reaper.Run(ctx)
	}()

	slog.InfoContext(ctx, "worker initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	reaper.Stop()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
	case <-done:
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "metrics server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

const banner = `
 ██████╗██╗  ██╗    ██╗    ██╗ ██████╗ ██████╗ ██╗  ██╗███████╗██████╗
██╔════╝██║  ██║    ██║    ██║██╔═══██╗██╔══██╗██║ ██╔╝██╔════╝██╔══██╗
██║     ███████║    ██║ █╗ ██║██║   ██║██████╔╝█████╔╝ █████╗  ██████╔╝
██║     ██╔══██║    ██║███╗██║██║   ██║██╔══██╗██╔═██╗ ██╔══╝  ██╔══██╗
╚██████╗██║  ██║    ╚███╔███╔╝╚██████╔╝██║  ██║██║  ██╗███████╗██║  ██║
 ╚═════╝╚═╝  ╚═╝     ╚══╝╚══╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝
`
