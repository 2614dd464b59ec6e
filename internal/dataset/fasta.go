// internal/dataset/fasta.go
package dataset

import (
	"context"

	"ribopred-core/fasta"
	"ribopred-core/seq"
)

// loadFASTA reads records in file order and assigns each position a
// global id sequentially from idBase, so a FASTA file behaves like a
// table whose ids enumerate every position without gaps or overlap.
func loadFASTA(ctx context.Context, path string, idBase int64) ([]seq.Record, error) {
	var recs []seq.Record
	next := idBase
	err := fasta.StreamPathCtx(ctx, path, func(r fasta.Record) error {
		n := int64(len(r.Seq))
		recs = append(recs, seq.Record{
			SequenceID: r.ID,
			Seq:        string(r.Seq),
			IDMin:      next,
			IDMax:      next + n - 1,
		})
		next += n
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &FormatError{Path: path, Reason: err.Error()}
	}
	return recs, nil
}
