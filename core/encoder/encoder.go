// core/encoder/encoder.go
package encoder

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"ribopred-core/batch"
	"ribopred-core/posenc"
)

// Model is a loaded encoder: architecture plus weights. It is
// read-only after New and safe for concurrent Forward calls.
type Model struct {
	cfg     Config
	w       *Weights
	workers int
}

// New validates w against cfg and returns a ready model.
func New(cfg Config, w *Weights) (*Model, error) {
	if err := w.Validate(cfg); err != nil {
		return nil, err
	}
	return &Model{cfg: cfg, w: w}, nil
}

// Config returns the model architecture.
func (m *Model) Config() Config { return m.cfg }

// SetWorkers caps the row-level worker pool (0 = all CPUs). Worker
// count never changes results, only wall time.
func (m *Model) SetWorkers(n int) { m.workers = n }

// Output holds per-position channel predictions for one batch,
// row-major: value (i, j, c) is row i, position j, channel c.
// Cols is the batch-local valid width, not the dataset maximum.
type Output struct {
	Data     []float64
	Rows     int
	Cols     int
	Channels int
}

// At returns the prediction for row i, position j, channel c.
func (o *Output) At(i, j, c int) float64 {
	return o.Data[(i*o.Cols+j)*o.Channels+c]
}

// Forward runs the encoder over one batch and returns per-position
// predictions. Pure with respect to the model and the batch: the same
// inputs yield bit-identical outputs.
//
// The batch is first narrowed to its own widest valid span. Attention
// cost is quadratic in width, so a batch of short sequences never pays
// for the dataset-wide maximum; outputs beyond the narrowed width do
// not exist.
func (m *Model) Forward(ctx context.Context, b *batch.Batch) (*Output, error) {
	if b == nil || b.Rows == 0 {
		return nil, fmt.Errorf("empty batch")
	}
	width := b.MaxValidLen()
	if width == 0 {
		return nil, fmt.Errorf("batch has no valid positions")
	}
	nb := b.NarrowTo(width)

	pe, err := posenc.Table(width, m.cfg.Dim, m.cfg.PosScale)
	if err != nil {
		return nil, err
	}

	out := &Output{
		Data:     make([]float64, nb.Rows*width*m.cfg.OutChannels),
		Rows:     nb.Rows,
		Cols:     width,
		Channels: m.cfg.OutChannels,
	}

	workers := m.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > nb.Rows {
		workers = nb.Rows
	}

	rows := make(chan int)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ferr error
	)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range rows {
				if ctx.Err() != nil {
					continue
				}
				if err := m.forwardRow(nb, pe, i, out); err != nil {
					mu.Lock()
					if ferr == nil {
						ferr = fmt.Errorf("row %d: %w", i, err)
					}
					mu.Unlock()
				}
			}
		}()
	}

feed:
	for i := 0; i < nb.Rows; i++ {
		select {
		case <-ctx.Done():
			break feed
		case rows <- i:
		}
	}
	close(rows)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ferr != nil {
		return nil, ferr
	}
	return out, nil
}

// forwardRow embeds one row, runs the block stack and writes the row's
// predictions into out. Rows touch disjoint output slices, so no
// locking is needed.
func (m *Model) forwardRow(b *batch.Batch, pe *mat.Dense, i int, out *Output) error {
	width := b.Cols
	dim := m.cfg.Dim

	// Token embedding + positional encoding over the narrowed span.
	x := mat.NewDense(width, dim, nil)
	for j := 0; j < width; j++ {
		code := int(b.Code(i, j))
		if code >= m.cfg.Vocab {
			return fmt.Errorf("code %d at column %d outside vocab %d", code, j, m.cfg.Vocab)
		}
		dst := x.RawRowView(j)
		copy(dst, m.w.Embedding.RawRowView(code))
		src := pe.RawRowView(j)
		for k := 0; k < dim; k++ {
			dst[k] += src[k]
		}
	}

	// Attention-exclusion vector: padded keys carry a large negative
	// bias so softmax assigns them zero weight. Padded query rows still
	// produce values; the assembler drops them via the mask.
	keyBias := make([]float64, width)
	for j := 0; j < width; j++ {
		if !b.Valid(i, j) {
			keyBias[j] = maskBias
		}
	}

	for l := range m.w.Blocks {
		x = m.block(x, &m.w.Blocks[l], keyBias)
	}
	x = layerNorm(x, m.w.NormGamma, m.w.NormBeta, m.cfg.NormEps)

	logits := affine(x, m.w.Head, m.w.HeadBias)
	for j := 0; j < width; j++ {
		row := logits.RawRowView(j)
		base := (i*width + j) * m.cfg.OutChannels
		copy(out.Data[base:base+m.cfg.OutChannels], row)
	}
	return nil
}

// block applies one pre-norm encoder block:
//
//	x = x + MHA(LN1(x)); x = x + FFN(LN2(x))
func (m *Model) block(x *mat.Dense, bw *BlockWeights, keyBias []float64) *mat.Dense {
	width, _ := x.Dims()
	heads := m.cfg.Heads()
	hs := m.cfg.HeadSize
	invTemp := 1 / math.Sqrt(float64(hs))

	normed := layerNorm(x, bw.Norm1Gamma, bw.Norm1Beta, m.cfg.NormEps)
	q := affine(normed, bw.WQ, bw.BQ)
	k := affine(normed, bw.WK, bw.BK)
	v := affine(normed, bw.WV, bw.BV)

	concat := mat.NewDense(width, m.cfg.Dim, nil)
	for h := 0; h < heads; h++ {
		lo, hi := h*hs, (h+1)*hs
		qh := q.Slice(0, width, lo, hi)
		kh := k.Slice(0, width, lo, hi)
		vh := v.Slice(0, width, lo, hi)

		var scores mat.Dense
		scores.Mul(qh, kh.T())
		softmaxMaskedRows(&scores, invTemp, keyBias)

		var ctxh mat.Dense
		ctxh.Mul(&scores, vh)
		for j := 0; j < width; j++ {
			copy(concat.RawRowView(j)[lo:hi], ctxh.RawRowView(j))
		}
	}
	attn := affine(concat, bw.WO, bw.BO)
	addInPlace(x, attn)

	normed = layerNorm(x, bw.Norm2Gamma, bw.Norm2Beta, m.cfg.NormEps)
	hidden := affine(normed, bw.W1, bw.B1)
	geluInPlace(hidden)
	ff := affine(hidden, bw.W2, bw.B2)
	addInPlace(x, ff)

	return x
}
