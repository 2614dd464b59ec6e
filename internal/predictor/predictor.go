// internal/predictor/predictor.go
package predictor

import (
	"context"

	"github.com/pkg/errors"

	"ribopred-core/assemble"
	"ribopred-core/batch"
	"ribopred-core/encoder"
)

// Forwarder is the minimal capability the pipeline needs from a model.
// encoder.Model satisfies it; tests use fakes.
type Forwarder interface {
	Forward(ctx context.Context, b *batch.Batch) (*encoder.Output, error)
}

// Predict runs one batch through fwd and gathers the valid positions.
// A panic inside the forward pass (gonum allocation failure on an
// oversized batch, index bugs) is recovered into a fatal error at the
// batch boundary; the run is never retried with a smaller batch, that
// is an operator decision.
func Predict(ctx context.Context, fwd Forwarder, b *batch.Batch) (ps []assemble.Prediction, err error) {
	defer func() {
		if r := recover(); r != nil {
			ps, err = nil, errors.Errorf("forward pass failed: %v", r)
		}
	}()
	out, err := fwd.Forward(ctx, b)
	if err != nil {
		return nil, err
	}
	return assemble.Gather(b, out)
}
