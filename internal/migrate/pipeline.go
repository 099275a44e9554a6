package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/helpdesk-migrate/internal/source"
	"github.com/JonMunkholm/helpdesk-migrate/internal/store"
)

// Default chunk sizes for the two collections.
const (
	DefaultTicketBatchSize = 100
	DefaultEntityBatchSize = 50
)

const (
	ticketCollection = "tickets"
	entityCollection = "entities"
)

// previewSize is how many transformed records a dry run shows.
const previewSize = 3

// RowError records one skipped row and why. Line is the 1-based line in
// the source file, counting the header as line 1.
type RowError struct {
	Line int
	Err  error
}

// Options control one import run.
type Options struct {
	// DryRun transforms and reports but never writes to the store.
	DryRun bool
	// Limit caps how many valid data rows are processed; 0 means all.
	Limit int
	// BatchSize overrides the default chunk size when positive.
	BatchSize int
}

// RunReport summarizes one import run.
type RunReport struct {
	RowsRead      int
	GroupHeaders  int
	MissingID     int
	Malformed     int
	Transformed   int
	Inserted      int
	RowErrors     []RowError
	BatchFailures []BatchFailure
	Preview       []Record
	DryRun        bool
}

// Importer runs the ticket pipeline: classify, transform, commit.
type Importer struct {
	transformer *Transformer
	committer   *Committer
}

func NewImporter(st store.Store) *Importer {
	return &Importer{
		transformer: NewTransformer(NewResolver(st)),
		committer:   NewCommitter(st),
	}
}

// Run processes the rows of one export. Group headers and id-less rows are
// counted and skipped. A malformed row is recorded and skipped. A store
// failure during reference resolution aborts the run: continuing would
// silently drop every reference that could not be checked.
func (im *Importer) Run(ctx context.Context, rows []source.Row, opts Options) (RunReport, error) {
	report := RunReport{RowsRead: len(rows), DryRun: opts.DryRun}

	var records []Record
	for i, row := range rows {
		line := row.Line
		if line == 0 {
			line = i + 2 // rows built without positions: header is line 1
		}

		if IsGroupHeader(row) {
			report.GroupHeaders++
			continue
		}
		if !row.Has(colID) {
			report.MissingID++
			continue
		}
		if opts.Limit > 0 && report.Transformed+report.Malformed >= opts.Limit {
			break
		}

		rec, err := im.transformer.TransformRow(ctx, row)
		if err != nil {
			var lookupErr *LookupError
			if errors.As(err, &lookupErr) {
				return report, fmt.Errorf("line %d: %w", line, err)
			}
			report.Malformed++
			report.RowErrors = append(report.RowErrors, RowError{Line: line, Err: err})
			slog.Warn("skipping malformed row", "line", line, "error", err)
			continue
		}

		report.Transformed++
		records = append(records, rec)
	}

	if len(records) > 0 {
		n := min(previewSize, len(records))
		report.Preview = records[:n]
	}

	if opts.DryRun {
		slog.Info("dry run, nothing committed", "transformed", report.Transformed)
		return report, nil
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultTicketBatchSize
	}

	commit := im.committer.Commit(ctx, ticketCollection, records, batchSize)
	report.Inserted = commit.Inserted
	report.BatchFailures = commit.Failures

	slog.Info("import finished",
		"rows", report.RowsRead,
		"transformed", report.Transformed,
		"inserted", report.Inserted,
		"malformed", report.Malformed,
		"failed_batches", len(report.BatchFailures),
	)
	return report, nil
}
