package store

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PG implements Store against a PostgreSQL connection pool.
type PG struct {
	pool *pgxpool.Pool
}

// NewPG wraps a connection pool in the record-store contract.
func NewPG(pool *pgxpool.Pool) *PG {
	return &PG{pool: pool}
}

// identPattern restricts identifiers to the snake_case names the target
// schema uses. Collection and field names come from code constants, but
// they still never reach SQL unvalidated.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func quoteIdent(name string) (string, error) {
	if !identPattern.MatchString(name) {
		return "", fmt.Errorf("invalid identifier: %q", name)
	}
	return `"` + name + `"`, nil
}

// Select runs an exact-match lookup and decodes each row into a field→value
// map. UUID columns are decoded to their string form so callers can treat
// identifiers uniformly.
func (p *PG) Select(ctx context.Context, collection, field, value string, limit int) ([]map[string]any, error) {
	table, err := quoteIdent(collection)
	if err != nil {
		return nil, err
	}
	col, err := quoteIdent(field)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 1
	}

	sql := fmt.Sprintf(`SELECT * FROM %s WHERE %s = $1 LIMIT %d`, table, col, limit)
	rows, err := p.pool.Query(ctx, sql, value)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", collection, err)
	}
	defer rows.Close()

	descs := rows.FieldDescriptions()
	var out []map[string]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("select %s: %w", collection, err)
		}
		rec := make(map[string]any, len(descs))
		for i, d := range descs {
			rec[d.Name] = decodeValue(vals[i])
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select %s: %w", collection, err)
	}
	return out, nil
}

// decodeValue converts pgx-native values to the plain forms the pipeline
// expects. pgx scans uuid columns as [16]byte.
func decodeValue(v any) any {
	if b, ok := v.([16]byte); ok {
		return uuid.UUID(b).String()
	}
	return v
}

// InsertBatch inserts the records inside one transaction. Records are
// grouped by column signature and each group becomes one multi-row INSERT,
// so a field a record omits is genuinely omitted (not NULL) and the column
// default fires. Any failure rolls back the whole batch.
func (p *PG) InsertBatch(ctx context.Context, collection string, records []map[string]any) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	table, err := quoteIdent(collection)
	if err != nil {
		return 0, err
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin batch: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	inserted := 0
	for _, g := range groupBySignature(records) {
		sql, args, err := buildInsert(table, g)
		if err != nil {
			return 0, err
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", collection, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit batch: %w", err)
	}
	return inserted, nil
}

// sigGroup holds records that share the same column set.
type sigGroup struct {
	columns []string
	records []map[string]any
}

// groupBySignature partitions records by sorted column set, preserving
// first-seen group order and record order within each group.
func groupBySignature(records []map[string]any) []sigGroup {
	groups := make(map[string]*sigGroup)
	var order []string

	for _, rec := range records {
		cols := make([]string, 0, len(rec))
		for k := range rec {
			cols = append(cols, k)
		}
		sort.Strings(cols)
		sig := strings.Join(cols, ",")

		g, ok := groups[sig]
		if !ok {
			g = &sigGroup{columns: cols}
			groups[sig] = g
			order = append(order, sig)
		}
		g.records = append(g.records, rec)
	}

	out := make([]sigGroup, 0, len(order))
	for _, sig := range order {
		out = append(out, *groups[sig])
	}
	return out
}

// buildInsert renders one multi-row INSERT for a signature group.
func buildInsert(table string, g sigGroup) (string, []any, error) {
	if len(g.columns) == 0 {
		return "", nil, fmt.Errorf("record has no fields")
	}

	quoted := make([]string, len(g.columns))
	for i, c := range g.columns {
		q, err := quoteIdent(c)
		if err != nil {
			return "", nil, err
		}
		quoted[i] = q
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", table, strings.Join(quoted, ", "))

	args := make([]any, 0, len(g.records)*len(g.columns))
	for i, rec := range g.records {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j, c := range g.columns {
			if j > 0 {
				b.WriteString(", ")
			}
			args = append(args, rec[c])
			fmt.Fprintf(&b, "$%d", len(args))
		}
		b.WriteByte(')')
	}

	return b.String(), args, nil
}
