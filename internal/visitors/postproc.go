// internal/visitors/postproc.go
package visitors

import (
	"ribopred-core/assemble"
	"ribopred-core/postproc"
)

// PostProc applies the opt-in prediction cleanups in stream order:
// ZeroNaN first so a NaN is clamped to 0, not to an arbitrary bound.
type PostProc struct {
	Clip    bool
	ZeroNaN bool
}

func (v PostProc) Visit(p assemble.Prediction) (bool, assemble.Prediction, error) {
	buf := [1]assemble.Prediction{p}
	if v.ZeroNaN {
		postproc.ZeroNaN(buf[:])
	}
	if v.Clip {
		postproc.Clip01(buf[:])
	}
	return true, buf[0], nil
}
