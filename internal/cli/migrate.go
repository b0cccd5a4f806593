package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"nexus/internal/config"
	"nexus/internal/storage"
	"nexus/internal/storage/postgres"
)

func newMigrateCmd(env Env) *cobra.Command {
	var dbPath string

	// resolvePath prefers --db and otherwise reads SQLITE_DB_PATH.
	resolvePath := func() (string, error) {
		if dbPath != "" {
			return dbPath, nil
		}
		cfg, err := env.LoadConfig()
		if err != nil {
			return "", err
		}
		return cfg.SQLiteDBPath, nil
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default SQLITE_DB_PATH)")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Long: `Apply all pending migrations to the SQLite database, or to Postgres when
DATA_BACKEND=postgres and --db is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dbPath == "" {
				cfg, err := env.LoadConfig()
				if err != nil {
					return err
				}
				if cfg.DataBackend == "postgres" {
					return migratePostgres(cmd, cfg)
				}
				dbPath = cfg.SQLiteDBPath
			}
			if err := storage.RunMigrations(dbPath); err != nil {
				return err
			}
			return printVersion(cmd, dbPath)
		},
	}

	down := &cobra.Command{
		Use:   "down [STEPS]",
		Short: "Revert migrations (default one step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}
			path, err := resolvePath()
			if err != nil {
				return err
			}
			if err := storage.RollbackMigrations(path, steps); err != nil {
				return err
			}
			return printVersion(cmd, path)
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := resolvePath()
			if err != nil {
				return err
			}
			return printVersion(cmd, path)
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func migratePostgres(cmd *cobra.Command, cfg *config.Config) error {
	db, err := postgres.New(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.RunMigrations(cmd.Context()); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "postgres schema up to date")
	return err
}

func printVersion(cmd *cobra.Command, path string) error {
	v, dirty, ok, err := storage.MigrationVersion(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch {
	case !ok:
		_, err = fmt.Fprintln(out, "no migrations applied")
	case dirty:
		_, err = fmt.Fprintf(out, "version %d (dirty)\n", v)
	default:
		_, err = fmt.Fprintf(out, "version %d\n", v)
	}
	return err
}
