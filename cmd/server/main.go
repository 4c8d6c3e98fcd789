package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"protocolo/internal/platform/config"
	"protocolo/internal/platform/httpserver"
	"protocolo/internal/platform/logger"
)

// main wires dependencies, serves the API and metrics listeners, and shuts
// both down on SIGINT or SIGTERM.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("PROTOCOLO_CONFIG_FILE"))
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level)
	if cfg.UsesDevSigningKey() {
		log.Warn("using the development JWT signing key; set PROTOCOLO_AUTH_JWT_SIGNING_KEY in production")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := newApp(ctx, cfg, log, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer application.Close()

	apiServer := httpserver.New(cfg.Server.Addr, application.router)
	metricsServer := httpserver.New(cfg.Server.MetricsAddr, promhttp.Handler())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting protocolo api", "addr", cfg.Server.Addr, "database", cfg.Database.Driver)
		return httpserver.Run(gctx, apiServer, cfg.Server.ShutdownTimeout)
	})
	g.Go(func() error {
		log.Info("starting metrics server", "addr", cfg.Server.MetricsAddr)
		return httpserver.Run(gctx, metricsServer, cfg.Server.ShutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server stopped with error", "error", err)
		return err
	}
	log.Info("shutdown complete")
	return nil
}
