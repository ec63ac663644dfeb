package tracker

import (
	"context"
	"fmt"

	"github.com/pbaille/jobtrack/internal/domain"
	"github.com/pbaille/jobtrack/internal/metrics"
)

// record is satisfied by pointers to the six entity types
type record[T any] interface {
	*T
	Kind() domain.Kind
	Identity() *domain.Meta
}

// Repository runs create/update/read operations for one entity kind.
// Every operation is a full load-mutate-save cycle against the store.
type Repository[T any, P record[T]] struct {
	core *core
	kind domain.Kind
	coll func(*domain.Document) *[]T
}

func newRepository[T any, P record[T]](c *core, coll func(*domain.Document) *[]T) *Repository[T, P] {
	var zero T
	return &Repository[T, P]{core: c, kind: P(&zero).Kind(), coll: coll}
}

// Kind returns the entity kind served by r
func (r *Repository[T, P]) Kind() domain.Kind {
	return r.kind
}

// Add stamps rec with a fresh id and creation time (and update time for
// kinds that track it), appends it and saves. Any id or timestamps already
// set on rec are overwritten.
func (r *Repository[T, P]) Add(ctx context.Context, rec T) (T, error) {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	doc := r.core.store.Load(ctx)
	now := r.core.now()

	p := P(&rec)
	meta := p.Identity()
	meta.ID = r.core.newID(r.kind)
	meta.CreatedAt = now
	if t, ok := any(p).(domain.Touchable); ok {
		t.Touch(now)
	}
	if err := r.core.check(p); err != nil {
		var zero T
		return zero, fmt.Errorf("add %s: %w", r.kind, err)
	}

	coll := r.coll(doc)
	*coll = append(*coll, rec)

	if err := r.core.store.Save(ctx, doc); err != nil {
		var zero T
		return zero, fmt.Errorf("add %s: %w", r.kind, err)
	}

	metrics.RecordMutations.WithLabelValues(string(r.kind), "add").Inc()
	r.core.log.Debug("record added", map[string]interface{}{"kind": r.kind, "id": meta.ID})
	return rec, nil
}

// Update merges patch, keyed by JSON field name, over the record with the
// given id. Keys id, createdAt and updatedAt are ignored. When no record
// has that id it returns found=false and leaves the store untouched. A
// patch that does not fit the record fails with ErrInvalid.
func (r *Repository[T, P]) Update(ctx context.Context, id string, patch map[string]interface{}) (T, bool, error) {
	var mergeErr error
	rec, found, err := r.UpdateFunc(ctx, id, func(cur *T) bool {
		merged, err := merge(*cur, patch)
		if err != nil {
			mergeErr = err
			return false
		}
		*cur = merged
		return true
	})
	if mergeErr != nil {
		var zero T
		return zero, true, fmt.Errorf("update %s %s: %w: %w", r.kind, id, ErrInvalid, mergeErr)
	}
	return rec, found, err
}

// UpdateFunc applies fn to the record with the given id and saves the
// result. fn may veto the change by returning false, in which case the
// current record is returned unchanged. The record's identity is
// preserved whatever fn does.
func (r *Repository[T, P]) UpdateFunc(ctx context.Context, id string, fn func(*T) bool) (T, bool, error) {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	var zero T
	doc := r.core.store.Load(ctx)
	coll := r.coll(doc)
	idx := indexOf[T, P](*coll, id)
	if idx < 0 {
		return zero, false, nil
	}

	current := (*coll)[idx]
	updated := current
	if !fn(&updated) {
		return current, true, nil
	}

	p := P(&updated)
	*p.Identity() = *P(&current).Identity()
	if t, ok := any(p).(domain.Touchable); ok {
		t.Touch(r.core.now())
	}
	if err := r.core.check(p); err != nil {
		return zero, true, fmt.Errorf("update %s %s: %w", r.kind, id, err)
	}
	(*coll)[idx] = updated

	if err := r.core.store.Save(ctx, doc); err != nil {
		return zero, true, fmt.Errorf("update %s %s: %w", r.kind, id, err)
	}

	metrics.RecordMutations.WithLabelValues(string(r.kind), "update").Inc()
	r.core.log.Debug("record updated", map[string]interface{}{"kind": r.kind, "id": id})
	return updated, true, nil
}

// All returns the collection from a fresh load, in insertion order
func (r *Repository[T, P]) All(ctx context.Context) []T {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	return *r.coll(r.core.store.Load(ctx))
}

// Get looks a record up by id
func (r *Repository[T, P]) Get(ctx context.Context, id string) (T, bool) {
	for _, rec := range r.All(ctx) {
		if P(&rec).Identity().ID == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

func indexOf[T any, P record[T]](recs []T, id string) int {
	for i := range recs {
		if P(&recs[i]).Identity().ID == id {
			return i
		}
	}
	return -1
}
