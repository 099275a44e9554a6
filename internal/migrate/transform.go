package migrate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/helpdesk-migrate/internal/source"
)

// Source column headers as they appear in the legacy export.
const (
	colID             = "ID"
	colTitle          = "Asunto"
	colDescription    = "Descripción"
	colStage          = "Etapa"
	colPriority       = "Prioridad"
	colAssignee       = "Asignada a"
	colEntity         = "Entidad"
	colApplication    = "Aplicación"
	colClass          = "Clase"
	colChannel        = "Canal"
	colOrigin         = "Origen"
	colType           = "Tipo"
	colCommitment     = "Fecha de compromiso"
	colEstimated      = "Tiempo estimado"
	colResponsibility = "Responsabilidad"
	colSharePoint     = "URL SharePoint"
	colSolution       = "Solución"
	colCreated        = "Creado el"
	colUpdated        = "Última actualización el"
)

// DefaultTitle is stored when the export has no subject for a ticket.
const DefaultTitle = "Sin título"

// verbatimColumns are copied through trimmed but otherwise untouched.
var verbatimColumns = map[string]string{
	colApplication:    "application",
	colClass:          "classification",
	colChannel:        "channel",
	colOrigin:         "origin",
	colType:           "ticket_type",
	colResponsibility: "responsibility",
	colSharePoint:     "sharepoint_url",
}

// Record is a target-store record. A key absent from the map is omitted
// from the insert entirely; transforms never set empty placeholders.
type Record map[string]any

// Transformer builds ticket records from classified source rows.
type Transformer struct {
	resolver *Resolver
}

func NewTransformer(r *Resolver) *Transformer {
	return &Transformer{resolver: r}
}

// parseInt reads a legacy numeric cell. Spreadsheet exports sometimes
// format integers as floats ("4281.0"), so an integral float is accepted.
func parseInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int(f)) {
		return int(f), true
	}
	return 0, false
}

// TransformRow builds one ticket record. A row without a parseable source
// id is malformed and yields an error; a failed reference resolution
// surfaces as a *LookupError via the resolver. All other absent or
// unparseable fields are simply omitted from the record.
func (t *Transformer) TransformRow(ctx context.Context, row source.Row) (Record, error) {
	rec := Record{}

	rawID, ok := row.Get(colID)
	if !ok {
		return nil, fmt.Errorf("missing %s", colID)
	}
	ref, ok := parseInt(rawID)
	if !ok {
		return nil, fmt.Errorf("non-numeric %s: %q", colID, rawID)
	}
	rec["ticket_ref"] = ref

	if title, ok := row.Get(colTitle); ok {
		rec["title"] = title
	} else {
		rec["title"] = DefaultTitle
	}

	if raw, ok := row.Get(colDescription); ok {
		if s, ok := CleanText(raw); ok {
			rec["description"] = s
		}
	}
	if raw, ok := row.Get(colSolution); ok {
		if s, ok := CleanText(raw); ok {
			rec["solution"] = s
		}
	}

	rawStage, _ := row.Get(colStage)
	rec["stage"] = MapStage(rawStage)
	rawPriority, _ := row.Get(colPriority)
	rec["priority"] = MapPriority(rawPriority)

	if name, ok := row.Get(colAssignee); ok {
		id, found, err := t.resolver.Resolve(ctx, KindProfile, name)
		if err != nil {
			return nil, err
		}
		if found {
			rec["assigned_to"] = id
		}
	}
	if name, ok := row.Get(colEntity); ok {
		id, found, err := t.resolver.Resolve(ctx, KindEntity, name)
		if err != nil {
			return nil, err
		}
		if found {
			rec["entity_id"] = id
		}
	}

	for src, dst := range verbatimColumns {
		if v, ok := row.Get(src); ok {
			rec[dst] = v
		}
	}

	if raw, ok := row.Get(colEstimated); ok {
		n, ok := parseInt(raw)
		if !ok {
			return nil, fmt.Errorf("non-numeric %s: %q", colEstimated, raw)
		}
		rec["estimated_time"] = n
	}

	if raw, ok := row.Get(colCommitment); ok {
		if ts, ok := ParseTimestamp(raw); ok {
			rec["commitment_date"] = ts
		}
	}
	if raw, ok := row.Get(colCreated); ok {
		if ts, ok := ParseTimestamp(raw); ok {
			rec["created_at"] = ts
		}
	}
	if raw, ok := row.Get(colUpdated); ok {
		if ts, ok := ParseTimestamp(raw); ok {
			rec["updated_at"] = ts
		}
	}

	return rec, nil
}
