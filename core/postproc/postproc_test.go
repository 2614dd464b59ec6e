// core/postproc/postproc_test.go
package postproc

import (
	"math"
	"testing"

	"ribopred-core/assemble"
)

func TestClip01(t *testing.T) {
	ps := []assemble.Prediction{
		{ID: 0, DMS: -0.5, TwoA3: 1.5},
		{ID: 1, DMS: 0.25, TwoA3: 0.75},
	}
	Clip01(ps)
	if ps[0].DMS != 0 || ps[0].TwoA3 != 1 {
		t.Errorf("row 0 not clamped: %+v", ps[0])
	}
	if ps[1].DMS != 0.25 || ps[1].TwoA3 != 0.75 {
		t.Errorf("in-range values changed: %+v", ps[1])
	}
}

func TestZeroNaN(t *testing.T) {
	ps := []assemble.Prediction{
		{ID: 0, DMS: math.NaN(), TwoA3: math.Inf(1)},
		{ID: 1, DMS: math.Inf(-1), TwoA3: 0.5},
	}
	ZeroNaN(ps)
	if ps[0].DMS != 0 || ps[0].TwoA3 != 0 {
		t.Errorf("row 0 not zeroed: %+v", ps[0])
	}
	if ps[1].DMS != 0 || ps[1].TwoA3 != 0.5 {
		t.Errorf("row 1 wrong: %+v", ps[1])
	}
}
