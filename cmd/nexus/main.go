package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"nexus/internal/backend"
	"nexus/internal/cache"
	"nexus/internal/cli"
	apphttp "nexus/internal/http"
	"nexus/internal/log"
	"nexus/internal/objstore"
	"nexus/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.MustLoadConfig()
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	ctx, stop := cli.SignalContext()
	defer stop()

	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, bc)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if res.Cleanup != nil {
		defer func() {
			if err := res.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", "error", err)
			}
		}()
	}

	store := res.Backend
	ledger := services.NewLedgerService(store, time.Now)
	svc := apphttp.Services{
		Ready:    store,
		Launcher: services.NewLauncherService(store, time.Now),
		Habits:   services.NewHabitService(store, time.Now),
		Ledger:   ledger,
		Notes:    services.NewNotesService(store, time.Now),
	}
	if files, err := objstore.NewFileStore(cfg.ObjectStoreDir, cfg.PublicFilesPrefix); err != nil {
		logger.Warn("Object store unavailable, screenshot uploads disabled", "error", err, "dir", cfg.ObjectStoreDir)
	} else {
		svc.Screenshots = services.NewScreenshotService(files, time.Now)
	}

	caches := cache.NewManager(logger.WithComponent(log.ComponentCache).Logger)
	caches.Register(ledger.Cache())
	caches.StartCleanup(time.Minute)
	defer caches.Stop()

	srv := apphttp.NewServer(cfg, svc, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting nexus server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"dev_tools", cfg.DevTools)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
