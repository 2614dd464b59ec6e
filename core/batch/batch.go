// core/batch/batch.go
package batch

import (
	"fmt"

	"ribopred-core/alphabet"
	"ribopred-core/seq"
)

// PadID is the global-id value stored at padded positions. Real ids
// are non-negative, so the sentinel is unambiguous. Padded codes are 0
// and collide with 'A'; only the mask separates them.
const PadID int64 = -1

// Batch is a fixed-width view over a group of records: row-major
// codes, validity mask and global ids, all Rows*Cols long. Cols is the
// dataset-wide Lmax, not the widest row of this batch.
type Batch struct {
	Codes []uint8
	Mask  []bool
	IDs   []int64
	Rows  int
	Cols  int
}

// Builder pads record groups to a fixed width. The width is the
// dataset-wide maximum length, computed once by the loader and passed
// in explicitly; the builder holds no other state.
type Builder struct {
	lmax int
}

// NewBuilder returns a Builder padding to lmax columns.
func NewBuilder(lmax int) *Builder {
	return &Builder{lmax: lmax}
}

// Width returns the fixed column count of built batches.
func (b *Builder) Width() int { return b.lmax }

// Build pads recs into one batch, preserving input order. Records are
// expected to be pre-validated; an over-long or malformed record is
// still rejected rather than silently truncated.
func (b *Builder) Build(recs []seq.Record) (*Batch, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("empty record group")
	}
	out := &Batch{
		Codes: make([]uint8, len(recs)*b.lmax),
		Mask:  make([]bool, len(recs)*b.lmax),
		IDs:   make([]int64, len(recs)*b.lmax),
		Rows:  len(recs),
		Cols:  b.lmax,
	}
	for i := range out.IDs {
		out.IDs[i] = PadID
	}
	for i, r := range recs {
		if len(r.Seq) > b.lmax {
			return nil, fmt.Errorf("record %d has length %d exceeding batch width %d", i, len(r.Seq), b.lmax)
		}
		cs, err := alphabet.EncodeSeq(r.Seq)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		base := i * b.lmax
		copy(out.Codes[base:], cs)
		for j := 0; j < len(cs); j++ {
			out.Mask[base+j] = true
			out.IDs[base+j] = r.IDMin + int64(j)
		}
	}
	return out, nil
}

// Code returns the code at row i, column j.
func (b *Batch) Code(i, j int) uint8 { return b.Codes[i*b.Cols+j] }

// Valid reports whether position (i, j) holds a real base.
func (b *Batch) Valid(i, j int) bool { return b.Mask[i*b.Cols+j] }

// ID returns the global id at (i, j), or PadID.
func (b *Batch) ID(i, j int) int64 { return b.IDs[i*b.Cols+j] }

// ValidLen returns the number of real bases in row i. The mask is a
// prefix mask, so this equals the row's sequence length.
func (b *Batch) ValidLen(i int) int {
	n := 0
	for j := 0; j < b.Cols; j++ {
		if b.Mask[i*b.Cols+j] {
			n++
		}
	}
	return n
}

// MaxValidLen returns the widest valid span in this batch. The
// encoder narrows to it before the forward pass: attention cost is
// quadratic in width, and a batch of short sequences must not pay for
// the dataset-wide maximum.
func (b *Batch) MaxValidLen() int {
	max := 0
	for i := 0; i < b.Rows; i++ {
		if l := b.ValidLen(i); l > max {
			max = l
		}
	}
	return max
}

// NarrowTo returns the first cols columns of every row. The receiver
// is returned unchanged when cols >= Cols; otherwise rows are
// re-strided into a copy (the flat layout cannot express a narrower
// stride over shared backing).
func (b *Batch) NarrowTo(cols int) *Batch {
	if cols >= b.Cols {
		return b
	}
	out := &Batch{
		Codes: make([]uint8, b.Rows*cols),
		Mask:  make([]bool, b.Rows*cols),
		IDs:   make([]int64, b.Rows*cols),
		Rows:  b.Rows,
		Cols:  cols,
	}
	for i := 0; i < b.Rows; i++ {
		src, dst := i*b.Cols, i*cols
		copy(out.Codes[dst:dst+cols], b.Codes[src:src+cols])
		copy(out.Mask[dst:dst+cols], b.Mask[src:src+cols])
		copy(out.IDs[dst:dst+cols], b.IDs[src:src+cols])
	}
	return out
}
