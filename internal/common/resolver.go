// internal/common/resolver.go
package common

import (
	"sort"

	"ribopred-core/seq"
)

// Resolver maps a global position id back to the record that owns it.
// Built once per run from the validated (overlap-free) record set.
type Resolver struct {
	recs []seq.Record // sorted by IDMin
}

// NewResolver copies and sorts recs by IDMin.
func NewResolver(recs []seq.Record) *Resolver {
	sorted := make([]seq.Record, len(recs))
	copy(sorted, recs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].IDMin < sorted[j].IDMin })
	return &Resolver{recs: sorted}
}

// Record returns the record owning id, or false when no range covers
// it.
func (r *Resolver) Record(id int64) (seq.Record, bool) {
	i := sort.Search(len(r.recs), func(i int) bool { return r.recs[i].IDMax >= id })
	if i == len(r.recs) || r.recs[i].IDMin > id {
		return seq.Record{}, false
	}
	return r.recs[i], true
}

// SequenceID returns the provenance id for a global position, or ""
// when unknown.
func (r *Resolver) SequenceID(id int64) string {
	rec, ok := r.Record(id)
	if !ok {
		return ""
	}
	return rec.SequenceID
}
