// internal/visitors/pass.go
package visitors

import "ribopred-core/assemble"

// PassThrough returns the prediction unchanged.
type PassThrough struct{}

func (PassThrough) Visit(p assemble.Prediction) (keep bool, out assemble.Prediction, err error) {
	return true, p, nil
}
