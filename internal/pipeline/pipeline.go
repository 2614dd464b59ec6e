// internal/pipeline/pipeline.go
package pipeline

import (
	"context"

	"ribopred-core/assemble"
	"ribopred-core/batch"
	"ribopred-core/seq"
	"ribopred/internal/predictor"
)

// Config controls the inference pipeline.
type Config struct {
	BatchSize int // records per batch (>=1)
	Prefetch  int // built batches kept ahead of the encoder (>=1)
	Lmax      int // dataset-wide padded width, fixed at load time
}

// built carries one padded batch (or the error that prevented it) plus
// its position in the run.
type built struct {
	index int
	batch *batch.Batch
	err   error
}

// BatchObserver is called after each consumed batch with its index and
// the number of predictions it produced. Used for progress meters and
// per-batch debug logs; nil disables it.
type BatchObserver func(index, preds int)

// ForEachPrediction slices records into consecutive BatchSize groups,
// builds padded batches ahead of the encoder on a producer goroutine,
// runs fwd over each batch in order, and calls visit once per valid
// position in production order (batch order times within-row order).
//
// It returns the number of predictions visited and the first error
// encountered, including context cancellation. Any error cancels the
// whole run; there is no partial-failure mode. Record order is never
// shuffled, so output ids are reproducible across runs.
func ForEachPrediction(
	ctx context.Context,
	cfg Config,
	recs []seq.Record,
	fwd predictor.Forwarder,
	visit func(assemble.Prediction) error,
	observe BatchObserver,
) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.Prefetch < 1 {
		cfg.Prefetch = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	builder := batch.NewBuilder(cfg.Lmax)

	// Producer: builds the next batches while the encoder runs the
	// current one. The bounded channel is the prefetch queue.
	out := make(chan built, cfg.Prefetch)
	go func() {
		defer close(out)
		idx := 0
		for lo := 0; lo < len(recs); lo += cfg.BatchSize {
			hi := lo + cfg.BatchSize
			if hi > len(recs) {
				hi = len(recs)
			}
			b, err := builder.Build(recs[lo:hi])
			select {
			case out <- built{index: idx, batch: b, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
			idx++
		}
	}()

	// Consumer: the caller's goroutine owns the forward pass and all
	// downstream accumulation.
	total := 0
	for bt := range out {
		if bt.err != nil {
			return total, bt.err
		}
		preds, err := predictor.Predict(ctx, fwd, bt.batch)
		if err != nil {
			return total, err
		}
		for _, pr := range preds {
			if err := visit(pr); err != nil {
				return total, err
			}
			total++
		}
		if observe != nil {
			observe(bt.index, len(preds))
		}
	}
	if err := ctx.Err(); err != nil {
		return total, err
	}
	return total, nil
}
