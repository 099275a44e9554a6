package migrate

import (
	"regexp"
	"strings"

	"github.com/JonMunkholm/helpdesk-migrate/internal/source"
)

// GroupHeaderGlyphs are the leading glyphs of the kanban group header rows
// that spreadsheet exports interleave with data rows. Extend via
// SetGroupHeaderGlyphs if a new board column appears.
var GroupHeaderGlyphs = []string{
	"📧", "🧍", "✍", "💾", "🧑", "🧪", "⌛", "✔", "⏸", "❌",
}

var groupHeaderPattern = buildGroupHeaderPattern(GroupHeaderGlyphs)

// SetGroupHeaderGlyphs replaces the recognized glyph set. Not safe for
// concurrent use with classification; configure before reading rows.
func SetGroupHeaderGlyphs(glyphs []string) {
	GroupHeaderGlyphs = glyphs
	groupHeaderPattern = buildGroupHeaderPattern(glyphs)
}

func buildGroupHeaderPattern(glyphs []string) *regexp.Regexp {
	quoted := make([]string, len(glyphs))
	for i, g := range glyphs {
		quoted[i] = regexp.QuoteMeta(g)
	}
	return regexp.MustCompile(`^(?:` + strings.Join(quoted, "|") + `).*\(\d+\)$`)
}

// IsGroupHeader reports whether the row is a group header: a recognized
// glyph followed by the group label and a member count, e.g.
// "📧 Nuevo (135)", spilled into the application column by the export.
func IsGroupHeader(row source.Row) bool {
	v, ok := row.Get(colApplication)
	if !ok {
		return false
	}
	return groupHeaderPattern.MatchString(v)
}

// IsValidDataRow reports whether the row carries an importable record:
// not a group header, and with a non-empty source id.
func IsValidDataRow(row source.Row) bool {
	return !IsGroupHeader(row) && row.Has(colID)
}
