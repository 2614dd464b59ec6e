// core/assemble/assemble_test.go
package assemble

import (
	"testing"

	"ribopred-core/batch"
	"ribopred-core/encoder"
	"ribopred-core/seq"
)

func buildBatch(t *testing.T, lmax int, recs ...seq.Record) *batch.Batch {
	t.Helper()
	b, err := batch.NewBuilder(lmax).Build(recs)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return b
}

// synthOutput fills a Rows x Cols x 2 output where channel 0 holds
// 100*i+j and channel 1 holds its negation, so provenance of every
// gathered value is checkable.
func synthOutput(rows, cols int) *encoder.Output {
	out := &encoder.Output{
		Data:     make([]float64, rows*cols*2),
		Rows:     rows,
		Cols:     cols,
		Channels: 2,
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := float64(100*i + j)
			out.Data[(i*cols+j)*2] = v
			out.Data[(i*cols+j)*2+1] = -v
		}
	}
	return out
}

func TestGatherSingleRow(t *testing.T) {
	b := buildBatch(t, 4, seq.Record{Seq: "ACGU", IDMin: 0, IDMax: 3})
	out := synthOutput(1, 4)

	ps, err := Gather(b, out)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(ps) != 4 {
		t.Fatalf("expected 4 predictions, got %d", len(ps))
	}
	for j, p := range ps {
		if p.ID != int64(j) {
			t.Errorf("prediction %d: id %d, want %d", j, p.ID, j)
		}
		if p.DMS != float64(j) || p.TwoA3 != -float64(j) {
			t.Errorf("prediction %d: channels (%v, %v)", j, p.DMS, p.TwoA3)
		}
	}
}

func TestGatherDropsPaddedColumns(t *testing.T) {
	// Lengths 3 and 5 with dataset Lmax 5: row 0's columns 3,4 are
	// padding and must never surface.
	b := buildBatch(t, 5,
		seq.Record{Seq: "ACG", IDMin: 0, IDMax: 2},
		seq.Record{Seq: "ACGUA", IDMin: 3, IDMax: 7},
	)
	out := synthOutput(2, 5)

	ps, err := Gather(b, out)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(ps) != 8 {
		t.Fatalf("expected 8 predictions, got %d", len(ps))
	}
	wantIDs := []int64{0, 1, 2, 3, 4, 5, 6, 7}
	for i, p := range ps {
		if p.ID != wantIDs[i] {
			t.Fatalf("prediction %d: id %d, want %d", i, p.ID, wantIDs[i])
		}
	}
	// Row 0 contributes exactly columns 0..2.
	if ps[2].DMS != 2 || ps[3].DMS != 100 {
		t.Errorf("row boundary wrong: ps[2].DMS=%v ps[3].DMS=%v", ps[2].DMS, ps[3].DMS)
	}
}

func TestGatherNarrowedOutput(t *testing.T) {
	// Output narrower than the batch width: only produced columns are
	// indexed.
	b := buildBatch(t, 10, seq.Record{Seq: "ACG", IDMin: 5, IDMax: 7})
	out := synthOutput(1, 3)

	ps, err := Gather(b, out)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(ps) != 3 {
		t.Fatalf("expected 3 predictions, got %d", len(ps))
	}
	if ps[0].ID != 5 || ps[2].ID != 7 {
		t.Errorf("ids %d..%d, want 5..7", ps[0].ID, ps[2].ID)
	}
}

func TestGatherGeometryMismatch(t *testing.T) {
	b := buildBatch(t, 4, seq.Record{Seq: "ACGU", IDMin: 0, IDMax: 3})
	if _, err := Gather(b, synthOutput(2, 4)); err == nil {
		t.Fatal("expected row-count mismatch error")
	}
	if _, err := Gather(b, synthOutput(1, 6)); err == nil {
		t.Fatal("expected width mismatch error")
	}
}

func TestAssemblerPreservesProductionOrder(t *testing.T) {
	var asm Assembler

	b1 := buildBatch(t, 4, seq.Record{Seq: "ACGU", IDMin: 4, IDMax: 7})
	b2 := buildBatch(t, 4, seq.Record{Seq: "AC", IDMin: 0, IDMax: 1})
	if err := asm.Add(b1, synthOutput(1, 4)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := asm.Add(b2, synthOutput(1, 2)); err != nil {
		t.Fatalf("add: %v", err)
	}

	if asm.Len() != 6 {
		t.Fatalf("len %d, want 6", asm.Len())
	}
	// Batch order wins over id order.
	want := []int64{4, 5, 6, 7, 0, 1}
	for i, p := range asm.Rows() {
		if p.ID != want[i] {
			t.Fatalf("row %d: id %d, want %d", i, p.ID, want[i])
		}
	}
}
