package migrate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/helpdesk-migrate/internal/source"
	"github.com/JonMunkholm/helpdesk-migrate/internal/store"
)

// Entity export column headers.
const (
	colEntityExternalID = "Id externa"
	colEntityName       = "Nombre de la entidad"
	colEntityStatus     = "Estado"
	colEntityUsage      = "Uso"
)

// SeedReport summarizes one entity seeding run.
type SeedReport struct {
	RowsRead      int
	Skipped       int
	Duplicates    int
	Seeds         int
	Inserted      int
	BatchFailures []BatchFailure
	Preview       []Record
	DryRun        bool
}

// BuildEntitySeeds turns entity export rows into records, deduplicating by
// trimmed name within the run. Rows without a name are skipped.
func BuildEntitySeeds(rows []source.Row) ([]Record, SeedReport) {
	report := SeedReport{RowsRead: len(rows)}
	seen := make(map[string]bool)

	var records []Record
	for _, row := range rows {
		name, ok := row.Get(colEntityName)
		if !ok {
			report.Skipped++
			continue
		}
		key := strings.TrimSpace(name)
		if seen[key] {
			report.Duplicates++
			continue
		}
		seen[key] = true

		rec := Record{"name": key}
		rawStatus, _ := row.Get(colEntityStatus)
		rec["status"] = MapEntityStatus(rawStatus)
		if v, ok := row.Get(colEntityExternalID); ok {
			rec["external_id"] = v
		}
		if v, ok := row.Get(colEntityUsage); ok {
			rec["usage"] = v
		}
		records = append(records, rec)
	}

	report.Seeds = len(records)
	return records, report
}

// Seeder inserts entity seed records in batches.
type Seeder struct {
	committer *Committer
}

func NewSeeder(st store.Store) *Seeder {
	return &Seeder{committer: NewCommitter(st)}
}

// Run seeds entities from export rows. Dry runs report and preview without
// writing.
func (s *Seeder) Run(ctx context.Context, rows []source.Row, opts Options) (SeedReport, error) {
	records, report := BuildEntitySeeds(rows)
	report.DryRun = opts.DryRun

	if len(records) > 0 {
		n := min(previewSize, len(records))
		report.Preview = records[:n]
	}

	if opts.DryRun {
		slog.Info("dry run, nothing committed", "seeds", report.Seeds)
		return report, nil
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultEntityBatchSize
	}

	commit := s.committer.Commit(ctx, entityCollection, records, batchSize)
	report.Inserted = commit.Inserted
	report.BatchFailures = commit.Failures

	slog.Info("seeding finished",
		"rows", report.RowsRead,
		"seeds", report.Seeds,
		"inserted", report.Inserted,
		"duplicates", report.Duplicates,
		"failed_batches", len(report.BatchFailures),
	)
	return report, nil
}
