package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/helpdesk-migrate/internal/logging"
	"github.com/JonMunkholm/helpdesk-migrate/internal/migrate"
	"github.com/JonMunkholm/helpdesk-migrate/internal/store"
)

var seedFlags struct {
	source    string
	dryRun    bool
	batchSize int
}

var seedEntitiesCmd = &cobra.Command{
	Use:   "seed-entities",
	Short: "Seed the entities table from a legacy entity export",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Configuration failures surface before any source reading.
		cfg, pool, err := setup(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		rows, err := readRows(seedFlags.source)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, cfg.Import.Timeout)
		defer cancel()

		opts := migrate.Options{
			DryRun:    seedFlags.dryRun,
			BatchSize: seedFlags.batchSize,
		}
		if opts.BatchSize <= 0 {
			opts.BatchSize = cfg.Import.EntityBatchSize
		}

		log := logging.WithFields("source", seedFlags.source, "dry_run", opts.DryRun)
		log.Info("seeding starting", "rows", len(rows), "batch_size", opts.BatchSize)

		seeder := migrate.NewSeeder(store.NewPG(pool))
		report, err := seeder.Run(ctx, rows, opts)
		if err != nil {
			return err
		}

		for _, rec := range report.Preview {
			log.Info("sample entity", "name", rec["name"], "status", rec["status"])
		}
		for _, bf := range report.BatchFailures {
			log.Error("failed batch", "batch", bf.Index, "size", bf.Size, "error", bf.Err)
		}

		log.Info("seeding report",
			"rows_read", report.RowsRead,
			"skipped", report.Skipped,
			"duplicates", report.Duplicates,
			"seeds", report.Seeds,
			"inserted", report.Inserted,
			"failed_batches", len(report.BatchFailures),
		)

		if len(report.BatchFailures) > 0 {
			return fmt.Errorf("%d batch(es) failed", len(report.BatchFailures))
		}
		return nil
	},
}

func init() {
	seedEntitiesCmd.Flags().StringVar(&seedFlags.source, "source", "", "path to the entity export (.csv or .xlsx)")
	seedEntitiesCmd.Flags().BoolVar(&seedFlags.dryRun, "dry-run", false, "build and report seeds without writing to the store")
	seedEntitiesCmd.Flags().IntVar(&seedFlags.batchSize, "batch-size", 0, "records per insert batch (0 = configured default)")
	_ = seedEntitiesCmd.MarkFlagRequired("source")
}
