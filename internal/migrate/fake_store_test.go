package migrate

import (
	"context"
	"fmt"
	"sync"
)

// fakeStore is an in-memory Store for pipeline tests. Lookup results are
// canned per collection/field/value; inserts are recorded per collection
// and can be forced to fail by batch index.
type fakeStore struct {
	mu sync.Mutex

	// rows maps "collection/field/value" to canned lookup results.
	rows map[string][]map[string]any
	// selectErr, when set, fails every Select.
	selectErr error
	// selects counts Select calls per "collection/field/value".
	selects map[string]int

	// failOn fails the Nth InsertBatch call (0-based) per collection.
	failOn map[string]map[int]error
	// inserted records each successful InsertBatch per collection.
	inserted map[string][][]map[string]any
	// calls counts InsertBatch calls per collection.
	calls map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows:     make(map[string][]map[string]any),
		selects:  make(map[string]int),
		failOn:   make(map[string]map[int]error),
		inserted: make(map[string][][]map[string]any),
		calls:    make(map[string]int),
	}
}

func (f *fakeStore) addRow(collection, field, value string, row map[string]any) {
	key := collection + "/" + field + "/" + value
	f.rows[key] = append(f.rows[key], row)
}

func (f *fakeStore) failBatch(collection string, index int, err error) {
	if f.failOn[collection] == nil {
		f.failOn[collection] = make(map[int]error)
	}
	f.failOn[collection][index] = err
}

func (f *fakeStore) Select(_ context.Context, collection, field, value string, limit int) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.selectErr != nil {
		return nil, f.selectErr
	}

	key := collection + "/" + field + "/" + value
	f.selects[key]++

	rows := f.rows[key]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeStore) InsertBatch(_ context.Context, collection string, records []map[string]any) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := f.calls[collection]
	f.calls[collection]++

	if err, ok := f.failOn[collection][idx]; ok {
		return 0, fmt.Errorf("batch %d: %w", idx, err)
	}

	f.inserted[collection] = append(f.inserted[collection], records)
	return len(records), nil
}

func (f *fakeStore) insertedCount(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := 0
	for _, batch := range f.inserted[collection] {
		total += len(batch)
	}
	return total
}
