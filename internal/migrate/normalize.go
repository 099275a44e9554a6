// Package migrate transforms legacy helpdesk exports into records for the
// normalized target store: it classifies source rows, normalizes field
// values, resolves name references to ids, and commits records in batches.
package migrate

import (
	"html"
	"regexp"
	"strings"
	"time"
)

// Defaults applied when a source label is absent or unrecognized.
const (
	DefaultStage    = "new"
	DefaultPriority = "medium"
)

// stageLabels maps the emoji-decorated kanban column names of the legacy
// board to stage slugs. Unknown labels fall back to DefaultStage.
var stageLabels = map[string]string{
	"📧 Nuevo":                  "new",
	"🧍Asignado":                 "assigned",
	"✍️ En Ejecución":           "in_progress",
	"💾 Pdte. Desarrollo":        "pending_dev",
	"🧑 Pdte. Cliente":           "pending_client",
	"🧪 Pruebas (Valid. Intern)": "testing",
	"⌛ Pdte. Validación":        "pending_validation",
	"✔️ Completado":             "done",
	"⏸️ Pausado":                "paused",
	"❌ Cancelado":               "cancelled",
}

// priorityLabels maps the Spanish priority labels to priority slugs.
var priorityLabels = map[string]string{
	"Prioridad baja":  "low",
	"Prioridad media": "medium",
	"Alta prioridad":  "high",
	"Urgente":         "critical",
}

var (
	tagPattern = regexp.MustCompile(`<[^>]+>`)
	spaceRuns  = regexp.MustCompile(`\s+`)
)

// CleanText strips markup tags, decodes HTML entities and collapses
// whitespace runs to single spaces. The second return is false when the
// result is empty, meaning the field should be treated as absent.
func CleanText(raw string) (string, bool) {
	s := tagPattern.ReplaceAllString(raw, " ")
	s = html.UnescapeString(s)
	s = spaceRuns.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return s, s != ""
}

// timestampLayouts lists the formats legacy exports have been observed to
// use, tried in order. Longer layouts come first so a value is never
// truncated by a shorter match.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// ParseTimestamp parses a raw timestamp against the known layouts and
// returns it in RFC 3339 form. The second return is false when the value is
// empty or matches no layout; callers then omit the field rather than
// storing a bad date.
func ParseTimestamp(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(time.RFC3339), true
		}
	}
	return "", false
}

// MapStage converts a legacy stage label to its slug, falling back to
// DefaultStage for blank or unknown labels.
func MapStage(raw string) string {
	if slug, ok := stageLabels[strings.TrimSpace(raw)]; ok {
		return slug
	}
	return DefaultStage
}

// MapPriority converts a legacy priority label to its slug, falling back to
// DefaultPriority for blank or unknown labels.
func MapPriority(raw string) string {
	if slug, ok := priorityLabels[strings.TrimSpace(raw)]; ok {
		return slug
	}
	return DefaultPriority
}

// MapEntityStatus reduces the legacy entity status label to active/inactive.
// The export marks live entities with a check mark or the word "Activa".
func MapEntityStatus(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "✅") || strings.Contains(raw, "Activa") {
		return "active"
	}
	return "inactive"
}
