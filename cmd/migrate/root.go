package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/helpdesk-migrate/internal/config"
	"github.com/JonMunkholm/helpdesk-migrate/internal/logging"
	"github.com/JonMunkholm/helpdesk-migrate/internal/source"
	"github.com/JonMunkholm/helpdesk-migrate/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Import legacy helpdesk exports into the normalized store",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(importTicketsCmd)
	rootCmd.AddCommand(seedEntitiesCmd)
	rootCmd.AddCommand(checkTablesCmd)
}

// setup loads the environment, configuration and database pool shared by
// every subcommand. The caller owns the returned pool.
func setup(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Debug("configuration loaded", "config", cfg.String())

	// Parse and configure connection pool
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	// Log which database we connected to
	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	return cfg, pool, nil
}

// readRows picks the reader by file extension.
func readRows(path string) ([]source.Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return source.ReadCSV(path)
	case ".xlsx", ".xlsm":
		return source.ReadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported source format %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

var checkTablesCmd = &cobra.Command{
	Use:   "check-tables",
	Short: "Verify the target tables exist before running an import",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, pool, err := setup(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		ctx, cancel := context.WithTimeout(ctx, cfg.Import.Timeout)
		defer cancel()

		st := store.NewPG(pool)
		found, err := st.Probe(ctx, "tickets", "entities", "profiles")
		if err != nil {
			return err
		}

		var missing []string
		for table, ok := range found {
			if ok {
				slog.Info("table present", "table", table)
			} else {
				missing = append(missing, table)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing tables: %s", strings.Join(missing, ", "))
		}

		slog.Info("all target tables present")
		return nil
	},
}
