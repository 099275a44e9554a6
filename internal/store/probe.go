package store

import (
	"context"
	"fmt"
)

// Probe reports whether each named table exists in the public schema.
// to_regclass returns NULL for unknown relations instead of erroring,
// which keeps the precheck a plain query.
func (p *PG) Probe(ctx context.Context, tables ...string) (map[string]bool, error) {
	out := make(map[string]bool, len(tables))
	for _, t := range tables {
		var exists bool
		err := p.pool.QueryRow(ctx,
			`SELECT to_regclass($1) IS NOT NULL`, "public."+t,
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("probe %s: %w", t, err)
		}
		out[t] = exists
	}
	return out, nil
}
