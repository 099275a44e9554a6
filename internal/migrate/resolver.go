package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/helpdesk-migrate/internal/store"
)

// RefKind names a reference target the resolver knows how to look up.
type RefKind string

const (
	KindEntity  RefKind = "entity"
	KindProfile RefKind = "profile"
)

// refTarget describes where a reference kind lives in the store.
type refTarget struct {
	collection string
	field      string
}

var refTargets = map[RefKind]refTarget{
	KindEntity:  {collection: "entities", field: "name"},
	KindProfile: {collection: "profiles", field: "full_name"},
}

// LookupError wraps a store failure during reference resolution. It is
// distinct from a miss: a miss means the name is not in the store, a
// LookupError means the store could not be asked.
type LookupError struct {
	Kind RefKind
	Name string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// cacheEntry records the outcome of one lookup. Misses are cached too, so
// a name that is absent from the store costs exactly one query per run.
type cacheEntry struct {
	id   string
	miss bool
}

// Resolver resolves display names to store ids with a per-run cache.
type Resolver struct {
	store store.Store
	cache map[RefKind]map[string]cacheEntry
}

func NewResolver(st store.Store) *Resolver {
	cache := make(map[RefKind]map[string]cacheEntry, len(refTargets))
	for kind := range refTargets {
		cache[kind] = make(map[string]cacheEntry)
	}
	return &Resolver{store: st, cache: cache}
}

// Resolve maps a raw name to its store id. The second return is false when
// the reference is absent: the name is empty or no record carries it. A
// miss is not an error. A non-nil error is always a *LookupError and means
// the store itself failed.
func (r *Resolver) Resolve(ctx context.Context, kind RefKind, rawName string) (string, bool, error) {
	name := strings.TrimSpace(rawName)
	if name == "" {
		return "", false, nil
	}

	if entry, ok := r.cache[kind][name]; ok {
		if entry.miss {
			return "", false, nil
		}
		return entry.id, true, nil
	}

	target, ok := refTargets[kind]
	if !ok {
		return "", false, &LookupError{Kind: kind, Name: name, Err: fmt.Errorf("unknown reference kind")}
	}

	rows, err := r.store.Select(ctx, target.collection, target.field, name, 1)
	if err != nil {
		return "", false, &LookupError{Kind: kind, Name: name, Err: err}
	}

	if len(rows) == 0 {
		r.cache[kind][name] = cacheEntry{miss: true}
		return "", false, nil
	}

	id, _ := rows[0]["id"].(string)
	if id == "" {
		r.cache[kind][name] = cacheEntry{miss: true}
		return "", false, nil
	}

	r.cache[kind][name] = cacheEntry{id: id}
	return id, true, nil
}
