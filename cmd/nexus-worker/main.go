package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"nexus/internal/amqp"
	"nexus/internal/cli"
	"nexus/internal/log"
	"nexus/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.MustLoadConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	logger.Info("Starting nexus-worker")

	if !cfg.SheetsEnabled() {
		logger.Error("Ledger export needs GOOGLE_SPREADSHEET_ID")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	repo, err := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	sheets, err := cli.NewSheetsClient(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)

	syncWorker := worker.NewSyncWorker(repo, sheets, cfg.SyncBatchSize)

	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		// The scheduled sweep retries whatever is still pending.
		logger.Error("Failed startup sync check", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		g.Go(func() error {
			err := amqpClient.ConsumeLedgerSync(gctx, syncWorker.HandleSyncMessage)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		logger.Info("AMQP_URL not set, relying on scheduled sweeps only")
	}

	scheduler := worker.NewScheduler(syncWorker, cfg.SyncSchedule)
	if err := scheduler.Start(gctx); err != nil {
		logger.Error("Failed to start sync scheduler", "error", err)
		os.Exit(1)
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down worker...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return scheduler.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
