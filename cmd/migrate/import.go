package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/helpdesk-migrate/internal/logging"
	"github.com/JonMunkholm/helpdesk-migrate/internal/migrate"
	"github.com/JonMunkholm/helpdesk-migrate/internal/store"
)

var importFlags struct {
	source    string
	dryRun    bool
	limit     int
	batchSize int
}

var importTicketsCmd = &cobra.Command{
	Use:   "import-tickets",
	Short: "Import a legacy ticket export into the tickets table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Configuration failures surface before any source reading.
		cfg, pool, err := setup(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		rows, err := readRows(importFlags.source)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, cfg.Import.Timeout)
		defer cancel()

		opts := migrate.Options{
			DryRun:    importFlags.dryRun,
			Limit:     importFlags.limit,
			BatchSize: importFlags.batchSize,
		}
		if opts.BatchSize <= 0 {
			opts.BatchSize = cfg.Import.TicketBatchSize
		}

		log := logging.WithFields("source", importFlags.source, "dry_run", opts.DryRun)
		log.Info("import starting", "rows", len(rows), "batch_size", opts.BatchSize)

		importer := migrate.NewImporter(store.NewPG(pool))
		report, err := importer.Run(ctx, rows, opts)
		if err != nil {
			return err
		}

		for _, rec := range report.Preview {
			log.Info("sample ticket",
				"ticket_ref", rec["ticket_ref"],
				"title", rec["title"],
				"stage", rec["stage"],
				"priority", rec["priority"],
			)
		}
		for _, re := range report.RowErrors {
			log.Warn("skipped row", "line", re.Line, "reason", re.Err)
		}
		for _, bf := range report.BatchFailures {
			log.Error("failed batch", "batch", bf.Index, "size", bf.Size, "error", bf.Err)
		}

		log.Info("import report",
			"rows_read", report.RowsRead,
			"group_headers", report.GroupHeaders,
			"missing_id", report.MissingID,
			"malformed", report.Malformed,
			"transformed", report.Transformed,
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
	importTicketsCmd.Flags().StringVar(&importFlags.source, "source", "", "path to the ticket export (.csv or .xlsx)")
	importTicketsCmd.Flags().BoolVar(&importFlags.dryRun, "dry-run", false, "transform and report without writing to the store")
	importTicketsCmd.Flags().IntVar(&importFlags.limit, "limit", 0, "process at most N data rows (0 = all)")
	importTicketsCmd.Flags().IntVar(&importFlags.batchSize, "batch-size", 0, "records per insert batch (0 = configured default)")
	_ = importTicketsCmd.MarkFlagRequired("source")
}
