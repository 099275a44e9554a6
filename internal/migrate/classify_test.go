package migrate

import (
	"testing"

	"github.com/JonMunkholm/helpdesk-migrate/internal/source"
)

func makeRow(cells map[string]string) source.Row {
	header := make([]string, 0, len(cells))
	record := make([]string, 0, len(cells))
	for k, v := range cells {
		header = append(header, k)
		record = append(record, v)
	}
	return source.NewRow(header, record)
}

// ============================================================================
// IsGroupHeader
// ============================================================================

func TestIsGroupHeader(t *testing.T) {
	tests := []struct {
		name string
		app  string
		want bool
	}{
		{name: "new group", app: "📧 Nuevo (135)", want: true},
		{name: "done group", app: "✔️ Completado (1024)", want: true},
		{name: "cancelled group", app: "❌ Cancelado (7)", want: true},
		{name: "paused group", app: "⏸️ Pausado (2)", want: true},
		{name: "real application value", app: "Portal Clientes", want: false},
		{name: "glyph without count", app: "📧 Nuevo", want: false},
		{name: "count without glyph", app: "Nuevo (135)", want: false},
		{name: "trailing text after count", app: "📧 Nuevo (135) extra", want: false},
		{name: "empty", app: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := makeRow(map[string]string{colApplication: tt.app})
			if got := IsGroupHeader(row); got != tt.want {
				t.Errorf("IsGroupHeader(%q) = %v, want %v", tt.app, got, tt.want)
			}
		})
	}
}

func TestSetGroupHeaderGlyphs(t *testing.T) {
	orig := GroupHeaderGlyphs
	defer SetGroupHeaderGlyphs(orig)

	row := makeRow(map[string]string{colApplication: "🔥 Incidencias (9)"})
	if IsGroupHeader(row) {
		t.Fatal("unexpected match before glyph registered")
	}

	SetGroupHeaderGlyphs(append(orig, "🔥"))
	if !IsGroupHeader(row) {
		t.Error("expected match after glyph registered")
	}
}

// ============================================================================
// IsValidDataRow
// ============================================================================

func TestIsValidDataRow(t *testing.T) {
	tests := []struct {
		name string
		row  source.Row
		want bool
	}{
		{
			name: "has id",
			row:  makeRow(map[string]string{colID: "4281", colTitle: "Fallo de acceso"}),
			want: true,
		},
		{
			name: "missing id",
			row:  makeRow(map[string]string{colTitle: "Fallo de acceso"}),
			want: false,
		},
		{
			name: "blank id",
			row:  makeRow(map[string]string{colID: "   "}),
			want: false,
		},
		{
			name: "group header with id column set",
			row:  makeRow(map[string]string{colID: "1", colApplication: "📧 Nuevo (135)"}),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidDataRow(tt.row); got != tt.want {
				t.Errorf("IsValidDataRow() = %v, want %v", got, tt.want)
			}
		})
	}
}
