package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"grantnet/internal/network/handler"
	"grantnet/internal/network/metrics"
	"grantnet/internal/network/service"
	"grantnet/internal/platform/config"
	"grantnet/internal/platform/httpserver"
	"grantnet/internal/platform/logger"
	httpmetrics "grantnet/internal/platform/metrics"
	"grantnet/internal/platform/middleware"
)

// main wires configuration, storage and the analysis service behind the HTTP
// router. Business logic lives in internal/network.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := openDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	m := metrics.New()
	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAnalysisConfig(cfg.Analysis),
	}
	if deps.board != nil {
		opts = append(opts, service.WithBoardStore(deps.board))
	}
	if deps.cache != nil {
		opts = append(opts, service.WithCache(deps.cache, cfg.Cache.TTL))
	}
	if deps.publisher != nil {
		opts = append(opts, service.WithPublisher(deps.publisher))
	}
	svc, err := service.New(deps.grants, opts...)
	if err != nil {
		return fmt.Errorf("build service: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics(httpmetrics.New()))
	r.Handle("/metrics", promhttp.Handler())
	handler.New(svc, log, deps.healthChecks()...).Register(r)

	if deps.purger != nil {
		go purgeExpired(ctx, deps.purger, cfg.Cache.TTL, log)
	}

	log.Info("starting grantnet", "cache_backend", cfg.Cache.Backend)
	srv := httpserver.New(cfg.Server.Addr, r)
	return httpserver.Run(ctx, srv, cfg.Server.ShutdownTimeout, log)
}
