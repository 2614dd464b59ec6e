// internal/cmdutil/run.go
package cmdutil

import (
	"context"

	"ribopred-core/assemble"
	"ribopred-core/seq"
	"ribopred/internal/pipeline"
	"ribopred/internal/predictor"
)

// RunStream runs the shared pipeline, applies a visitor, and streams
// kept outputs via send. It returns the number of kept outputs and the
// first error encountered.
func RunStream[T any](
	ctx context.Context,
	cfg pipeline.Config,
	recs []seq.Record,
	fwd predictor.Forwarder,
	visit func(assemble.Prediction) (bool, T, error),
	send func(T) error,
	observe pipeline.BatchObserver,
) (int, error) {
	total := 0
	_, err := pipeline.ForEachPrediction(ctx, cfg, recs, fwd, func(p assemble.Prediction) error {
		keep, out, vErr := visit(p)
		if vErr != nil {
			return vErr
		}
		if !keep {
			return nil
		}
		if err := send(out); err != nil {
			return err
		}
		total++
		return nil
	}, observe)
	return total, err
}
