// core/seq/seq.go
package seq

import (
	"fmt"
	"sort"

	"ribopred-core/alphabet"
)

// Record is one nucleotide sequence plus the inclusive range of global
// position ids it owns: position j of Seq carries id IDMin+j.
// Records are immutable once loaded.
type Record struct {
	SequenceID string // provenance only; may be empty
	Seq        string
	IDMin      int64
	IDMax      int64
}

// Len returns the sequence length.
func (r Record) Len() int { return len(r.Seq) }

// Validate checks the id-range invariant and the alphabet.
func (r Record) Validate() error {
	if len(r.Seq) == 0 {
		return fmt.Errorf("record %s: empty sequence", r.name())
	}
	if r.IDMin < 0 {
		return fmt.Errorf("record %s: negative id_min %d", r.name(), r.IDMin)
	}
	if span := r.IDMax - r.IDMin + 1; span != int64(len(r.Seq)) {
		return fmt.Errorf("record %s: id range [%d,%d] spans %d ids but sequence has %d bases",
			r.name(), r.IDMin, r.IDMax, span, len(r.Seq))
	}
	if err := alphabet.Validate(r.Seq); err != nil {
		return fmt.Errorf("record %s: %w", r.name(), err)
	}
	return nil
}

func (r Record) name() string {
	if r.SequenceID != "" {
		return r.SequenceID
	}
	return fmt.Sprintf("[%d,%d]", r.IDMin, r.IDMax)
}

// OverlapError names two records whose id ranges intersect.
type OverlapError struct {
	A, B Record
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("records %s and %s overlap in global id range ([%d,%d] vs [%d,%d])",
		e.A.name(), e.B.name(), e.A.IDMin, e.A.IDMax, e.B.IDMin, e.B.IDMax)
}

// CheckOverlap verifies that no two records claim the same global id.
// The input order is not modified.
func CheckOverlap(recs []Record) error {
	if len(recs) < 2 {
		return nil
	}
	byMin := make([]Record, len(recs))
	copy(byMin, recs)
	sort.Slice(byMin, func(i, j int) bool { return byMin[i].IDMin < byMin[j].IDMin })
	for i := 1; i < len(byMin); i++ {
		if byMin[i].IDMin <= byMin[i-1].IDMax {
			return &OverlapError{A: byMin[i-1], B: byMin[i]}
		}
	}
	return nil
}

// MaxLen returns the dataset-wide maximum sequence length. It is
// computed once at load time and threaded into every batch build.
func MaxLen(recs []Record) int {
	max := 0
	for _, r := range recs {
		if l := len(r.Seq); l > max {
			max = l
		}
	}
	return max
}
