package main

import (
	"context"
	"os"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/api"
	"github.com/monukmodi/smart-expense-tracker-client/internal/cli"
	"github.com/monukmodi/smart-expense-tracker-client/internal/events"
	"github.com/monukmodi/smart-expense-tracker-client/internal/session"
	"github.com/monukmodi/smart-expense-tracker-client/internal/sheets"
	gsheet "github.com/monukmodi/smart-expense-tracker-client/internal/sheets/google"
	"github.com/monukmodi/smart-expense-tracker-client/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	// Setup structured logging
	logger := cli.SetupLogger()

	logger.Info("Starting tracker-worker")

	// Load and validate configuration
	cfg := cli.LoadAndValidateConfig(logger)

	// The worker always pulls from the remote server; the mirror exists so
	// the gateway can serve dashboards while the server is unreachable.
	sess := session.NewFileStore(cfg.StateDir)
	client := api.NewClient(cfg.APIBaseURL, sess)

	// Initialize SQLite mirror
	mirror := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer mirror.Close()

	// Initialize Google Sheets exporter for overview snapshots (optional)
	var exporter sheets.OverviewWriter
	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := gsheet.New(context.Background(), gsheet.Config{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			SheetName:          cfg.GoogleSheetName,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = sheetsClient
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	// Initialize AMQP client for consuming refresh requests (optional)
	var eventsClient *events.Client
	if cfg.AMQPURL != "" {
		var err error
		eventsClient, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer eventsClient.Close()
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided, falling back to interval refreshes only")
	}

	refreshWorker := worker.NewRefreshWorker(client, mirror, exporter, cfg.FetchSize, cfg.RetentionDays)

	// Setup graceful shutdown
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	if err := refreshWorker.Run(ctx, eventsClient, cfg.WorkerInterval); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
