// core/encoder/weights.go
package encoder

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// BlockWeights holds one encoder block. Projection matrices are stored
// input x output so activations (rows) multiply on the left.
type BlockWeights struct {
	Norm1Gamma, Norm1Beta []float64

	WQ, WK, WV, WO *mat.Dense // Dim x Dim
	BQ, BK, BV, BO []float64

	Norm2Gamma, Norm2Beta []float64

	W1 *mat.Dense // Dim x FFNDim
	B1 []float64
	W2 *mat.Dense // FFNDim x Dim
	B2 []float64
}

// Weights holds every learned parameter of the encoder.
type Weights struct {
	Embedding *mat.Dense // Vocab x Dim
	Blocks    []BlockWeights

	NormGamma, NormBeta []float64 // final layer norm

	Head     *mat.Dense // Dim x OutChannels
	HeadBias []float64
}

func checkDims(name string, m *mat.Dense, r, c int) error {
	if m == nil {
		return fmt.Errorf("missing tensor %s", name)
	}
	gr, gc := m.Dims()
	if gr != r || gc != c {
		return fmt.Errorf("tensor %s has shape %dx%d, want %dx%d", name, gr, gc, r, c)
	}
	return nil
}

func checkVec(name string, v []float64, n int) error {
	if v == nil {
		return fmt.Errorf("missing tensor %s", name)
	}
	if len(v) != n {
		return fmt.Errorf("tensor %s has length %d, want %d", name, len(v), n)
	}
	return nil
}

// Validate checks every tensor against cfg.
func (w *Weights) Validate(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := checkDims("embed.weight", w.Embedding, cfg.Vocab, cfg.Dim); err != nil {
		return err
	}
	if len(w.Blocks) != cfg.Depth {
		return fmt.Errorf("have %d blocks, want depth %d", len(w.Blocks), cfg.Depth)
	}
	for i := range w.Blocks {
		b := &w.Blocks[i]
		pre := fmt.Sprintf("enc.%d.", i)
		checks := []error{
			checkVec(pre+"norm1.gamma", b.Norm1Gamma, cfg.Dim),
			checkVec(pre+"norm1.beta", b.Norm1Beta, cfg.Dim),
			checkDims(pre+"attn.wq.weight", b.WQ, cfg.Dim, cfg.Dim),
			checkDims(pre+"attn.wk.weight", b.WK, cfg.Dim, cfg.Dim),
			checkDims(pre+"attn.wv.weight", b.WV, cfg.Dim, cfg.Dim),
			checkDims(pre+"attn.wo.weight", b.WO, cfg.Dim, cfg.Dim),
			checkVec(pre+"attn.wq.bias", b.BQ, cfg.Dim),
			checkVec(pre+"attn.wk.bias", b.BK, cfg.Dim),
			checkVec(pre+"attn.wv.bias", b.BV, cfg.Dim),
			checkVec(pre+"attn.wo.bias", b.BO, cfg.Dim),
			checkVec(pre+"norm2.gamma", b.Norm2Gamma, cfg.Dim),
			checkVec(pre+"norm2.beta", b.Norm2Beta, cfg.Dim),
			checkDims(pre+"ffn.w1.weight", b.W1, cfg.Dim, cfg.FFNDim()),
			checkVec(pre+"ffn.w1.bias", b.B1, cfg.FFNDim()),
			checkDims(pre+"ffn.w2.weight", b.W2, cfg.FFNDim(), cfg.Dim),
			checkVec(pre+"ffn.w2.bias", b.B2, cfg.Dim),
		}
		for _, err := range checks {
			if err != nil {
				return err
			}
		}
	}
	if err := checkVec("norm.gamma", w.NormGamma, cfg.Dim); err != nil {
		return err
	}
	if err := checkVec("norm.beta", w.NormBeta, cfg.Dim); err != nil {
		return err
	}
	if err := checkDims("head.weight", w.Head, cfg.Dim, cfg.OutChannels); err != nil {
		return err
	}
	return checkVec("head.bias", w.HeadBias, cfg.OutChannels)
}

func randDense(rng *rand.Rand, r, c int, std float64) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rng.NormFloat64() * std
	}
	return mat.NewDense(r, c, data)
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

// NewRandomWeights builds a deterministic, seeded random parameter set
// matching cfg. Used by the benchmark binary and by tests; predictions
// from random weights are meaningless but structurally valid.
func NewRandomWeights(cfg Config, seed int64) *Weights {
	rng := rand.New(rand.NewSource(seed))
	std := 1 / math.Sqrt(float64(cfg.Dim))

	w := &Weights{
		Embedding: randDense(rng, cfg.Vocab, cfg.Dim, 1),
		Blocks:    make([]BlockWeights, cfg.Depth),
		NormGamma: ones(cfg.Dim),
		NormBeta:  make([]float64, cfg.Dim),
		Head:      randDense(rng, cfg.Dim, cfg.OutChannels, std),
		HeadBias:  make([]float64, cfg.OutChannels),
	}
	for i := range w.Blocks {
		w.Blocks[i] = BlockWeights{
			Norm1Gamma: ones(cfg.Dim),
			Norm1Beta:  make([]float64, cfg.Dim),
			WQ:         randDense(rng, cfg.Dim, cfg.Dim, std),
			WK:         randDense(rng, cfg.Dim, cfg.Dim, std),
			WV:         randDense(rng, cfg.Dim, cfg.Dim, std),
			WO:         randDense(rng, cfg.Dim, cfg.Dim, std),
			BQ:         make([]float64, cfg.Dim),
			BK:         make([]float64, cfg.Dim),
			BV:         make([]float64, cfg.Dim),
			BO:         make([]float64, cfg.Dim),
			Norm2Gamma: ones(cfg.Dim),
			Norm2Beta:  make([]float64, cfg.Dim),
			W1:         randDense(rng, cfg.Dim, cfg.FFNDim(), std),
			B1:         make([]float64, cfg.FFNDim()),
			W2:         randDense(rng, cfg.FFNDim(), cfg.Dim, std),
			B2:         make([]float64, cfg.Dim),
		}
	}
	return w
}
