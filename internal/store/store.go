// Package store provides the minimal record-store contract the migration
// pipeline depends on, together with its PostgreSQL implementation.
// The pipeline never sees SQL; it works with collections of field→value
// records so the storage backend stays swappable.
package store

import "context"

// Store is the record-store capability set the pipeline requires.
type Store interface {
	// Select returns up to limit rows from collection where field equals
	// value exactly. An empty result is not an error.
	Select(ctx context.Context, collection, field, value string, limit int) ([]map[string]any, error)

	// InsertBatch inserts the records into collection as one call and
	// returns the number of rows inserted. Fields absent from a record are
	// omitted from the insert so the store's own column defaults apply.
	InsertBatch(ctx context.Context, collection string, records []map[string]any) (int, error)
}
