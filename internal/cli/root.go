package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"nexus/internal/backend"
	"nexus/internal/config"
	"nexus/internal/ports"
)

// Env carries what nexusctl commands need from the outside world. Zero
// fields fall back to the configured process defaults.
type Env struct {
	Now         func() time.Time
	LoadConfig  func() (*config.Config, error)
	OpenBackend func(ctx context.Context, cfg *config.Config) (backend.Backend, func() error, error)
	OpenSheet   func(ctx context.Context, cfg *config.Config) (ports.LedgerReader, error)
}

func (e Env) withDefaults() Env {
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.LoadConfig == nil {
		e.LoadConfig = LoadAndValidateConfig
	}
	if e.OpenBackend == nil {
		e.OpenBackend = openConfiguredBackend
	}
	if e.OpenSheet == nil {
		e.OpenSheet = func(ctx context.Context, cfg *config.Config) (ports.LedgerReader, error) {
			if !cfg.SheetsEnabled() {
				return nil, fmt.Errorf("no spreadsheet configured: set GOOGLE_SPREADSHEET_ID")
			}
			return NewSheetsClient(ctx, cfg)
		}
	}
	return e
}

func openConfiguredBackend(ctx context.Context, cfg *config.Config) (backend.Backend, func() error, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(slog.Default()).CreateBackend(ctx, bc)
	if err != nil {
		return nil, nil, err
	}
	cleanup := res.Cleanup
	if cleanup == nil {
		cleanup = func() error { return nil }
	}
	return res.Backend, cleanup, nil
}

// withBackend loads the configuration, opens the backend and closes it once
// fn returns.
func (e Env) withBackend(ctx context.Context, fn func(backend.Backend) error) error {
	cfg, err := e.LoadConfig()
	if err != nil {
		return err
	}
	b, cleanup, err := e.OpenBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}
	defer func() {
		if cerr := cleanup(); cerr != nil {
			slog.Warn("Backend cleanup failed", "error", cerr)
		}
	}()
	return fn(b)
}

// NewRootCmd builds the nexusctl command tree.
func NewRootCmd(env Env) *cobra.Command {
	env = env.withDefaults()
	root := &cobra.Command{
		Use:   "nexusctl",
		Short: "Operate the nexus launchpad from the command line",
		Long: `nexusctl computes habit streaks and split balances, manages the
SQLite schema and exports developer notes. Commands that touch stored data
read the same environment (and optional NEXUS_CONFIG_FILE) as the server.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newStreakCmd(env),
		newBalancesCmd(env),
		newMigrateCmd(env),
		newNotesCmd(env),
	)
	return root
}

// Execute runs nexusctl with process defaults and returns the exit code.
func Execute() int {
	LoadEnvFile()
	ctx, stop := SignalContext()
	defer stop()
	if err := NewRootCmd(Env{}).ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func createOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}
