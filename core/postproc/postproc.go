// core/postproc/postproc.go
package postproc

import (
	"math"

	"ribopred-core/assemble"
)

// Clip01 clamps both channels of every prediction into [0,1], in
// place. Raw model output can overshoot the unit range slightly;
// clipping is opt-in so the default output stays faithful to the
// model.
func Clip01(ps []assemble.Prediction) {
	for i := range ps {
		ps[i].DMS = clip(ps[i].DMS)
		ps[i].TwoA3 = clip(ps[i].TwoA3)
	}
}

func clip(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// ZeroNaN replaces NaN and infinite channel values with 0, in place.
func ZeroNaN(ps []assemble.Prediction) {
	for i := range ps {
		if bad(ps[i].DMS) {
			ps[i].DMS = 0
		}
		if bad(ps[i].TwoA3) {
			ps[i].TwoA3 = 0
		}
	}
}

func bad(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
