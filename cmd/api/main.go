package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/urlchecker/internal/batch"
	"github.com/hamed0406/urlchecker/internal/config"
	"github.com/hamed0406/urlchecker/internal/httpapi"
	"github.com/hamed0406/urlchecker/internal/logging"
	"github.com/hamed0406/urlchecker/internal/metrics"
	"github.com/hamed0406/urlchecker/internal/notify"
	"github.com/hamed0406/urlchecker/internal/probe"
	"github.com/hamed0406/urlchecker/internal/repo/memory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(logging.Options{Dir: cfg.LogDir, Level: cfg.LogLevel, Stderr: cfg.LogToStderr})
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	m := metrics.NewCollector("urlchecker")
	prober := probe.New(probe.Options{
		HTTPTimeout: cfg.HTTPTimeout,
		TLSTimeout:  cfg.TLSTimeout,
		DNSServer:   cfg.DNSServer,
		DNSTimeout:  cfg.DNSTimeout,
		Logger:      logger,
	})
	coord := batch.NewCoordinator(logger, prober, cfg.MaxConcurrency, m)

	api := httpapi.NewServer(logger, coord, memory.New(cfg.HistorySize), cfg.MaxURLsPerRequest)
	api.Metrics = m
	api.AllowedOrigins = cfg.AllowedOrigins
	api.MaxConcurrency = cfg.MaxConcurrency
	// HTTP, then TLS and DNS side by side
	api.PerURLBudget = cfg.HTTPTimeout + max(cfg.TLSTimeout, cfg.DNSTimeout)
	if s := notify.NewSlack(cfg.SlackWebhookURL); s != nil {
		api.Notify = notify.NewDispatcher(s, logger)
	}

	// check handlers extend their own write deadline per batch size
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("api_listen",
			zap.String("addr", cfg.Addr),
			zap.Int("max_concurrency", cfg.MaxConcurrency),
			zap.Int("max_urls_per_request", cfg.MaxURLsPerRequest),
			zap.Bool("custom_dns", cfg.DNSServer != ""),
			zap.Bool("slack", api.Notify != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("api_listen_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("api_shutdown")
	grace := api.CheckBudget(cfg.MaxURLsPerRequest)
	if grace < srv.WriteTimeout {
		grace = srv.WriteTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("api_shutdown_failed", zap.Error(err))
	}
}
