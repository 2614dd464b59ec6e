// core/assemble/assemble.go
package assemble

import (
	"fmt"

	"ribopred-core/batch"
	"ribopred-core/encoder"
)

// Prediction is one per-position result: a global position id plus the
// two reactivity channels.
type Prediction struct {
	ID    int64
	DMS   float64 // channel 0, reactivity_DMS_MaP
	TwoA3 float64 // channel 1, reactivity_2A3_MaP
}

// Gather selects the valid positions of one batch's output and pairs
// them with their global ids, in row-major production order. The
// output was produced over the batch-local width, so only the first
// out.Cols columns of the mask are consulted; predictions past that
// width do not exist and are never indexed.
func Gather(b *batch.Batch, out *encoder.Output) ([]Prediction, error) {
	if b.Rows != out.Rows {
		return nil, fmt.Errorf("batch has %d rows, output has %d", b.Rows, out.Rows)
	}
	if out.Cols > b.Cols {
		return nil, fmt.Errorf("output width %d exceeds batch width %d", out.Cols, b.Cols)
	}
	if out.Channels < 2 {
		return nil, fmt.Errorf("output carries %d channels, need 2", out.Channels)
	}
	preds := make([]Prediction, 0, b.Rows*out.Cols)
	for i := 0; i < b.Rows; i++ {
		for j := 0; j < out.Cols; j++ {
			if !b.Valid(i, j) {
				continue
			}
			preds = append(preds, Prediction{
				ID:    b.ID(i, j),
				DMS:   out.At(i, j, 0),
				TwoA3: out.At(i, j, 1),
			})
		}
	}
	return preds, nil
}

// Assembler accumulates gathered predictions across batches. Order is
// batch order times within-row order, never id-sorted: downstream
// writers sort only on request.
type Assembler struct {
	preds []Prediction
}

// Add gathers one batch's output and appends it.
func (a *Assembler) Add(b *batch.Batch, out *encoder.Output) error {
	ps, err := Gather(b, out)
	if err != nil {
		return err
	}
	a.preds = append(a.preds, ps...)
	return nil
}

// Len returns the number of accumulated predictions.
func (a *Assembler) Len() int { return len(a.preds) }

// Rows returns the accumulated predictions in production order. The
// returned slice is the accumulator's backing store; callers must not
// mutate it while still adding batches.
func (a *Assembler) Rows() []Prediction { return a.preds }
