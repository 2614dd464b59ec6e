// core/weights/weights.go
package weights

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"

	"ribopred-core/encoder"
)

// Artifact layout, little-endian throughout:
//
//	magic "RPW1"
//	u32   JSON header length
//	JSON  {"arch": {...}, "tensors": [{"name","rows","cols"}, ...]}
//	payload: per tensor, rows*cols float32, row-major, in table order
//
// Vectors are stored as 1 x n tensors.

const magic = "RPW1"

// maxHeaderLen caps the declared JSON header size to keep corrupt
// files from driving huge allocations.
const maxHeaderLen = 16 << 20

// ErrNotWeights reports a file that is not an RPW1 artifact at all.
var ErrNotWeights = errors.New("not a ribopred weights artifact")

// ShapeMismatchError reports a tensor table that does not match the
// declared architecture: wrong shape, missing, duplicated, unknown or
// trailing tensors. Always fatal at load time.
type ShapeMismatchError struct {
	Tensor string
	Reason string
}

func (e *ShapeMismatchError) Error() string {
	if e.Tensor == "" {
		return fmt.Sprintf("weight shape mismatch: %s", e.Reason)
	}
	return fmt.Sprintf("weight shape mismatch: tensor %s: %s", e.Tensor, e.Reason)
}

type archJSON struct {
	NEmbd    int     `json:"n_embd"`
	NLayer   int     `json:"n_layer"`
	HeadSize int     `json:"head_size"`
	NVocab   int     `json:"n_vocab"`
	NOut     int     `json:"n_out"`
	FFNMult  int     `json:"ffn_mult"`
	PosScale float64 `json:"pos_scale"`
	NormEps  float64 `json:"norm_eps"`
}

type tensorJSON struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
}

type headerJSON struct {
	Arch    archJSON     `json:"arch"`
	Tensors []tensorJSON `json:"tensors"`
}

func archFromConfig(c encoder.Config) archJSON {
	return archJSON{
		NEmbd:    c.Dim,
		NLayer:   c.Depth,
		HeadSize: c.HeadSize,
		NVocab:   c.Vocab,
		NOut:     c.OutChannels,
		FFNMult:  c.FFNMult,
		PosScale: c.PosScale,
		NormEps:  c.NormEps,
	}
}

func configFromArch(a archJSON) encoder.Config {
	return encoder.Config{
		Dim:         a.NEmbd,
		Depth:       a.NLayer,
		HeadSize:    a.HeadSize,
		Vocab:       a.NVocab,
		OutChannels: a.NOut,
		FFNMult:     a.FFNMult,
		PosScale:    a.PosScale,
		NormEps:     a.NormEps,
	}
}

// slot pairs a canonical tensor with the assignment writing it into a
// Weights under construction.
type slot struct {
	name       string
	rows, cols int
	assign     func(data []float64)
}

// slots enumerates every tensor of cfg in canonical order and binds it
// to w. The same enumeration drives Save, Load and the header table,
// so the three can never disagree.
func slots(cfg encoder.Config, w *encoder.Weights) []slot {
	dim, ffn := cfg.Dim, cfg.FFNDim()
	out := []slot{
		{"embed.weight", cfg.Vocab, dim, func(d []float64) { w.Embedding = mat.NewDense(cfg.Vocab, dim, d) }},
	}
	for i := 0; i < cfg.Depth; i++ {
		i := i
		b := func() *encoder.BlockWeights { return &w.Blocks[i] }
		pre := fmt.Sprintf("enc.%d.", i)
		out = append(out,
			slot{pre + "norm1.gamma", 1, dim, func(d []float64) { b().Norm1Gamma = d }},
			slot{pre + "norm1.beta", 1, dim, func(d []float64) { b().Norm1Beta = d }},
			slot{pre + "attn.wq.weight", dim, dim, func(d []float64) { b().WQ = mat.NewDense(dim, dim, d) }},
			slot{pre + "attn.wq.bias", 1, dim, func(d []float64) { b().BQ = d }},
			slot{pre + "attn.wk.weight", dim, dim, func(d []float64) { b().WK = mat.NewDense(dim, dim, d) }},
			slot{pre + "attn.wk.bias", 1, dim, func(d []float64) { b().BK = d }},
			slot{pre + "attn.wv.weight", dim, dim, func(d []float64) { b().WV = mat.NewDense(dim, dim, d) }},
			slot{pre + "attn.wv.bias", 1, dim, func(d []float64) { b().BV = d }},
			slot{pre + "attn.wo.weight", dim, dim, func(d []float64) { b().WO = mat.NewDense(dim, dim, d) }},
			slot{pre + "attn.wo.bias", 1, dim, func(d []float64) { b().BO = d }},
			slot{pre + "norm2.gamma", 1, dim, func(d []float64) { b().Norm2Gamma = d }},
			slot{pre + "norm2.beta", 1, dim, func(d []float64) { b().Norm2Beta = d }},
			slot{pre + "ffn.w1.weight", dim, ffn, func(d []float64) { b().W1 = mat.NewDense(dim, ffn, d) }},
			slot{pre + "ffn.w1.bias", 1, ffn, func(d []float64) { b().B1 = d }},
			slot{pre + "ffn.w2.weight", ffn, dim, func(d []float64) { b().W2 = mat.NewDense(ffn, dim, d) }},
			slot{pre + "ffn.w2.bias", 1, dim, func(d []float64) { b().B2 = d }},
		)
	}
	out = append(out,
		slot{"norm.gamma", 1, dim, func(d []float64) { w.NormGamma = d }},
		slot{"norm.beta", 1, dim, func(d []float64) { w.NormBeta = d }},
		slot{"head.weight", dim, cfg.OutChannels, func(d []float64) { w.Head = mat.NewDense(dim, cfg.OutChannels, d) }},
		slot{"head.bias", 1, cfg.OutChannels, func(d []float64) { w.HeadBias = d }},
	)
	return out
}

// Load reads an artifact and returns its architecture and parameters.
func Load(r io.Reader) (encoder.Config, *encoder.Weights, error) {
	var zero encoder.Config

	var mg [4]byte
	if _, err := io.ReadFull(r, mg[:]); err != nil {
		return zero, nil, fmt.Errorf("%w: %v", ErrNotWeights, err)
	}
	if string(mg[:]) != magic {
		return zero, nil, fmt.Errorf("%w: bad magic %q", ErrNotWeights, mg)
	}

	var hlen uint32
	if err := binary.Read(r, binary.LittleEndian, &hlen); err != nil {
		return zero, nil, fmt.Errorf("reading header length: %w", err)
	}
	if hlen == 0 || hlen > maxHeaderLen {
		return zero, nil, fmt.Errorf("%w: header length %d out of range", ErrNotWeights, hlen)
	}
	hbuf := make([]byte, hlen)
	if _, err := io.ReadFull(r, hbuf); err != nil {
		return zero, nil, fmt.Errorf("reading header: %w", err)
	}
	var hdr headerJSON
	if err := json.Unmarshal(hbuf, &hdr); err != nil {
		return zero, nil, fmt.Errorf("decoding header: %w", err)
	}

	cfg := configFromArch(hdr.Arch)
	if err := cfg.Validate(); err != nil {
		return zero, nil, &ShapeMismatchError{Reason: err.Error()}
	}

	w := &encoder.Weights{Blocks: make([]encoder.BlockWeights, cfg.Depth)}
	want := slots(cfg, w)
	if len(hdr.Tensors) != len(want) {
		return zero, nil, &ShapeMismatchError{Reason: fmt.Sprintf(
			"artifact declares %d tensors, architecture needs %d", len(hdr.Tensors), len(want))}
	}
	byName := make(map[string]*slot, len(want))
	for i := range want {
		byName[want[i].name] = &want[i]
	}

	seen := make(map[string]bool, len(hdr.Tensors))
	for _, th := range hdr.Tensors {
		s, ok := byName[th.Name]
		if !ok {
			return zero, nil, &ShapeMismatchError{Tensor: th.Name, Reason: "unknown tensor"}
		}
		if seen[th.Name] {
			return zero, nil, &ShapeMismatchError{Tensor: th.Name, Reason: "duplicated tensor"}
		}
		seen[th.Name] = true
		if th.Rows != s.rows || th.Cols != s.cols {
			return zero, nil, &ShapeMismatchError{Tensor: th.Name, Reason: fmt.Sprintf(
				"declared %dx%d, architecture needs %dx%d", th.Rows, th.Cols, s.rows, s.cols)}
		}

		data, err := readFloats(r, th.Rows*th.Cols)
		if err != nil {
			return zero, nil, fmt.Errorf("tensor %s: %w", th.Name, err)
		}
		s.assign(data)
	}

	var extra [1]byte
	if n, _ := r.Read(extra[:]); n != 0 {
		return zero, nil, &ShapeMismatchError{Reason: "trailing data after last tensor"}
	}

	if err := w.Validate(cfg); err != nil {
		return zero, nil, &ShapeMismatchError{Reason: err.Error()}
	}
	return cfg, w, nil
}

// LoadFile reads an artifact from disk.
func LoadFile(path string) (encoder.Config, *encoder.Weights, error) {
	f, err := os.Open(path)
	if err != nil {
		return encoder.Config{}, nil, err
	}
	defer f.Close()
	cfg, w, err := Load(f)
	if err != nil {
		return encoder.Config{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, w, nil
}

// Save writes cfg and w as an artifact. The weights are validated
// first so a malformed set can never produce a loadable file.
func Save(out io.Writer, cfg encoder.Config, w *encoder.Weights) error {
	if err := w.Validate(cfg); err != nil {
		return err
	}

	sl := slots(cfg, w)
	hdr := headerJSON{Arch: archFromConfig(cfg), Tensors: make([]tensorJSON, len(sl))}
	for i, s := range sl {
		hdr.Tensors[i] = tensorJSON{Name: s.name, Rows: s.rows, Cols: s.cols}
	}
	hbuf, err := json.Marshal(hdr)
	if err != nil {
		return err
	}

	if _, err := out.Write([]byte(magic)); err != nil {
		return err
	}
	if err := binary.Write(out, binary.LittleEndian, uint32(len(hbuf))); err != nil {
		return err
	}
	if _, err := out.Write(hbuf); err != nil {
		return err
	}

	for _, s := range sl {
		if err := writeFloats(out, tensorData(w, s)); err != nil {
			return fmt.Errorf("tensor %s: %w", s.name, err)
		}
	}
	return nil
}

// SaveFile writes an artifact to disk.
func SaveFile(path string, cfg encoder.Config, w *encoder.Weights) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Save(f, cfg, w); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// tensorData fetches the float64 payload a slot refers to. Save-side
// twin of slot.assign.
func tensorData(w *encoder.Weights, s slot) []float64 {
	switch v := valueByName(w, s.name).(type) {
	case *mat.Dense:
		raw := v.RawMatrix()
		if raw.Stride == raw.Cols {
			return raw.Data
		}
		out := make([]float64, raw.Rows*raw.Cols)
		for i := 0; i < raw.Rows; i++ {
			copy(out[i*raw.Cols:], raw.Data[i*raw.Stride:i*raw.Stride+raw.Cols])
		}
		return out
	case []float64:
		return v
	default:
		return nil
	}
}

func valueByName(w *encoder.Weights, name string) interface{} {
	switch name {
	case "embed.weight":
		return w.Embedding
	case "norm.gamma":
		return w.NormGamma
	case "norm.beta":
		return w.NormBeta
	case "head.weight":
		return w.Head
	case "head.bias":
		return w.HeadBias
	}
	var i int
	var rest string
	if _, err := fmt.Sscanf(name, "enc.%d.%s", &i, &rest); err != nil || i < 0 || i >= len(w.Blocks) {
		return nil
	}
	b := &w.Blocks[i]
	switch rest {
	case "norm1.gamma":
		return b.Norm1Gamma
	case "norm1.beta":
		return b.Norm1Beta
	case "attn.wq.weight":
		return b.WQ
	case "attn.wq.bias":
		return b.BQ
	case "attn.wk.weight":
		return b.WK
	case "attn.wk.bias":
		return b.BK
	case "attn.wv.weight":
		return b.WV
	case "attn.wv.bias":
		return b.BV
	case "attn.wo.weight":
		return b.WO
	case "attn.wo.bias":
		return b.BO
	case "norm2.gamma":
		return b.Norm2Gamma
	case "norm2.beta":
		return b.Norm2Beta
	case "ffn.w1.weight":
		return b.W1
	case "ffn.w1.bias":
		return b.B1
	case "ffn.w2.weight":
		return b.W2
	case "ffn.w2.bias":
		return b.B2
	}
	return nil
}

// readFloats reads n little-endian float32 values and widens them to
// the float64 the encoder computes in.
func readFloats(r io.Reader, n int) ([]float64, error) {
	buf := make([]byte, n*4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])))
	}
	return out, nil
}

// writeFloats narrows to float32 and writes little-endian.
func writeFloats(out io.Writer, data []float64) error {
	buf := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(v)))
	}
	_, err := out.Write(buf)
	return err
}
