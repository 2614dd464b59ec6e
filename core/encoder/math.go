// core/encoder/math.go
package encoder

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// maskBias is added to attention scores at excluded key positions
// before softmax, driving their weight to zero.
const maskBias = -1e9

// affine returns x*w + b broadcast over rows.
func affine(x, w *mat.Dense, b []float64) *mat.Dense {
	var y mat.Dense
	y.Mul(x, w)
	r, _ := y.Dims()
	for i := 0; i < r; i++ {
		row := y.RawRowView(i)
		for k, bv := range b {
			row[k] += bv
		}
	}
	return &y
}

// layerNorm normalizes each row of x to zero mean and unit variance
// (biased variance, eps inside the square root) and applies the
// learned gamma/beta.
func layerNorm(x *mat.Dense, gamma, beta []float64, eps float64) *mat.Dense {
	r, c := x.Dims()
	y := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		src := x.RawRowView(i)
		dst := y.RawRowView(i)

		mean := 0.0
		for _, v := range src {
			mean += v
		}
		mean /= float64(c)

		variance := 0.0
		for _, v := range src {
			d := v - mean
			variance += d * d
		}
		variance /= float64(c)

		inv := 1 / math.Sqrt(variance+eps)
		for k, v := range src {
			dst[k] = (v-mean)*inv*gamma[k] + beta[k]
		}
	}
	return y
}

// geluInPlace applies the tanh-approximated GELU elementwise.
func geluInPlace(x *mat.Dense) {
	const (
		sqrt2OverPi = 0.7978845608028654
		coeff       = 0.044715
	)
	raw := x.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
		for k, v := range row {
			row[k] = 0.5 * v * (1 + math.Tanh(sqrt2OverPi*(v+coeff*v*v*v)))
		}
	}
}

// addInPlace accumulates b into a.
func addInPlace(a, b *mat.Dense) {
	ar := a.RawMatrix()
	br := b.RawMatrix()
	for i := 0; i < ar.Rows; i++ {
		dst := ar.Data[i*ar.Stride : i*ar.Stride+ar.Cols]
		src := br.Data[i*br.Stride : i*br.Stride+br.Cols]
		for k := range dst {
			dst[k] += src[k]
		}
	}
}

// softmaxMaskedRows scales each row of scores by invTemp, adds
// keyBias (the attention-exclusion vector: 0 for real keys, maskBias
// for padding) and normalizes with a numerically stable softmax.
func softmaxMaskedRows(scores *mat.Dense, invTemp float64, keyBias []float64) {
	raw := scores.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]

		max := math.Inf(-1)
		for k := range row {
			row[k] = row[k]*invTemp + keyBias[k]
			if row[k] > max {
				max = row[k]
			}
		}
		sum := 0.0
		for k := range row {
			row[k] = math.Exp(row[k] - max)
			sum += row[k]
		}
		inv := 1 / sum
		for k := range row {
			row[k] *= inv
		}
	}
}
