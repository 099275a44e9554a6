package migrate

import (
	"context"
	"testing"

	"github.com/cenkalti/backoff/v4"

	"github.com/JonMunkholm/helpdesk-migrate/internal/source"
)

// ============================================================================
// BuildEntitySeeds
// ============================================================================

func TestBuildEntitySeeds(t *testing.T) {
	rows := []source.Row{
		makeRow(map[string]string{
			colEntityName:       "Acme SL",
			colEntityStatus:     "✅ Activa",
			colEntityExternalID: "EXT-001",
			colEntityUsage:      "Producción",
		}),
		makeRow(map[string]string{colEntityName: "Beta SA", colEntityStatus: "baja"}),
	}

	records, report := BuildEntitySeeds(rows)
	if report.Seeds != 2 {
		t.Fatalf("Seeds = %d, want 2", report.Seeds)
	}

	first := records[0]
	if first["name"] != "Acme SL" || first["status"] != "active" {
		t.Errorf("first seed = %v", first)
	}
	if first["external_id"] != "EXT-001" || first["usage"] != "Producción" {
		t.Errorf("optional fields = %v", first)
	}

	second := records[1]
	if second["status"] != "inactive" {
		t.Errorf("second status = %v, want inactive", second["status"])
	}
	if _, present := second["external_id"]; present {
		t.Error("external_id present for row without one")
	}
}

func TestBuildEntitySeedsDedupe(t *testing.T) {
	rows := []source.Row{
		makeRow(map[string]string{colEntityName: "Acme SL", colEntityStatus: "Activa"}),
		makeRow(map[string]string{colEntityName: "  Acme SL  ", colEntityStatus: "baja"}),
		makeRow(map[string]string{colEntityName: "Beta SA"}),
		makeRow(map[string]string{colEntityStatus: "Activa"}), // no name
	}

	records, report := BuildEntitySeeds(rows)
	if report.Seeds != 2 || len(records) != 2 {
		t.Fatalf("Seeds = %d, want 2", report.Seeds)
	}
	if report.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", report.Duplicates)
	}
	if report.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", report.Skipped)
	}

	// First occurrence wins.
	if records[0]["status"] != "active" {
		t.Errorf("deduped status = %v, want active", records[0]["status"])
	}
}

// ============================================================================
// Seeder
// ============================================================================

func TestSeederRun(t *testing.T) {
	st := newFakeStore()
	s := NewSeeder(st)
	s.committer.retry = func() backoff.BackOff { return &backoff.StopBackOff{} }

	rows := make([]source.Row, 0, 60)
	for i := 0; i < 60; i++ {
		rows = append(rows, makeRow(map[string]string{
			colEntityName:   "Entidad " + string(rune('A'+i%26)) + string(rune('0'+i/26)),
			colEntityStatus: "Activa",
		}))
	}

	report, err := s.Run(context.Background(), rows, Options{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.Inserted != 60 {
		t.Errorf("Inserted = %d, want 60", report.Inserted)
	}

	// Default entity batch size is 50, so 60 seeds need two store calls.
	if st.calls["entities"] != 2 {
		t.Errorf("store called %d times, want 2", st.calls["entities"])
	}
}

func TestSeederDryRun(t *testing.T) {
	st := newFakeStore()
	s := NewSeeder(st)

	rows := []source.Row{
		makeRow(map[string]string{colEntityName: "Acme SL", colEntityStatus: "Activa"}),
	}

	report, err := s.Run(context.Background(), rows, Options{DryRun: true})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.Inserted != 0 || st.calls["entities"] != 0 {
		t.Error("dry run wrote to the store")
	}
	if len(report.Preview) != 1 {
		t.Errorf("Preview size = %d, want 1", len(report.Preview))
	}
}
