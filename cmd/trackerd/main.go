package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/backend"
	"github.com/monukmodi/smart-expense-tracker-client/internal/cli"
	"github.com/monukmodi/smart-expense-tracker-client/internal/events"
	apphttp "github.com/monukmodi/smart-expense-tracker-client/internal/http"
	"github.com/monukmodi/smart-expense-tracker-client/internal/notify"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	// Setup structured logging
	logger := cli.SetupLogger()

	// Load and validate configuration
	cfg := cli.LoadAndValidateConfig(logger)

	// Build the data source and AI advisor for the configured backend
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger)
	res, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "source", backendCfg.Source.String())
		os.Exit(1)
	}
	if res.Cleanup != nil {
		defer func() {
			if err := res.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	// Connect to the message bus when configured; the gateway degrades to
	// cache-only refreshes without it.
	var eventsClient *events.Client
	if cfg.AMQPURL != "" {
		eventsClient, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer eventsClient.Close()
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided, refresh requests will only clear the cache")
	}

	toastOpts := []notify.Option{}
	var refresher apphttp.Refresher
	if eventsClient != nil {
		toastOpts = append(toastOpts, notify.WithSink(eventsClient))
		refresher = eventsClient
	}
	toasts := notify.NewCenter(toastOpts...)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:      ":" + cfg.Port,
		FetchSize: cfg.FetchSize,
		CacheTTL:  cfg.CacheTTL,
		Source:    res.Source,
		Advisor:   res.Advisor,
		Auth:      res.Client,
		Toasts:    toasts,
		Refresher: refresher,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting tracker gateway", "port", cfg.Port, "backend", backendCfg.Source.String(), "ai_transport", backendCfg.Transport.String())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
