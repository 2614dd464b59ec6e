// core/posenc/posenc.go
package posenc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultScale is the classic sinusoidal frequency base.
const DefaultScale = 10000

// Table returns an n x dim matrix whose row p is the sinusoidal
// encoding of position p:
//
//	half = dim/2
//	freq[k] = exp(-k * ln(scale) / half)        k in [0, half)
//	row(p)  = [sin(p*freq[0..half)), cos(p*freq[0..half))]
//
// n is the widest valid span of the batch at hand, never the
// dataset-wide maximum. Pure function of (n, dim, scale).
func Table(n, dim int, scale float64) (*mat.Dense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("position count %d must be positive", n)
	}
	if dim <= 0 || dim%2 != 0 {
		return nil, fmt.Errorf("encoding dim %d must be positive and even", dim)
	}
	if scale <= 1 {
		return nil, fmt.Errorf("scale %g must exceed 1", scale)
	}

	half := dim / 2
	freq := make([]float64, half)
	for k := 0; k < half; k++ {
		freq[k] = math.Exp(-float64(k) * math.Log(scale) / float64(half))
	}

	out := mat.NewDense(n, dim, nil)
	for p := 0; p < n; p++ {
		row := out.RawRowView(p)
		fp := float64(p)
		for k := 0; k < half; k++ {
			s, c := math.Sincos(fp * freq[k])
			row[k] = s
			row[half+k] = c
		}
	}
	return out, nil
}

// At computes a single encoding value without building a table:
// component k of position p. Used by tests as an independent oracle.
func At(p, k, dim int, scale float64) float64 {
	half := dim / 2
	if k < half {
		return math.Sin(float64(p) * math.Exp(-float64(k)*math.Log(scale)/float64(half)))
	}
	return math.Cos(float64(p) * math.Exp(-float64(k-half)*math.Log(scale)/float64(half)))
}
