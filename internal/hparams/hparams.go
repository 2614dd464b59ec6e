// internal/hparams/hparams.go
package hparams

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"ribopred-core/encoder"
)

// Params is the JSON sidecar describing an encoder architecture. It
// mirrors the arch header embedded in a weight artifact; a sidecar is
// useful for --random-init runs and for the bench tool, where no
// artifact exists.
type Params struct {
	NEmbd    int     `json:"n_embd"`
	NLayer   int     `json:"n_layer"`
	HeadSize int     `json:"head_size"`
	NVocab   int     `json:"n_vocab"`
	NOut     int     `json:"n_out"`
	FFNMult  int     `json:"ffn_mult"`
	PosScale float64 `json:"pos_scale"`
	NormEps  float64 `json:"norm_eps"`
}

// FromConfig converts an encoder config to sidecar form.
func FromConfig(cfg encoder.Config) Params {
	return Params{
		NEmbd:    cfg.Dim,
		NLayer:   cfg.Depth,
		HeadSize: cfg.HeadSize,
		NVocab:   cfg.Vocab,
		NOut:     cfg.OutChannels,
		FFNMult:  cfg.FFNMult,
		PosScale: cfg.PosScale,
		NormEps:  cfg.NormEps,
	}
}

// Config converts sidecar params to an encoder config, filling zero
// fields from the defaults so a partial sidecar stays usable.
func (p Params) Config() (encoder.Config, error) {
	cfg := encoder.DefaultConfig()
	if p.NEmbd > 0 {
		cfg.Dim = p.NEmbd
	}
	if p.NLayer > 0 {
		cfg.Depth = p.NLayer
	}
	if p.HeadSize > 0 {
		cfg.HeadSize = p.HeadSize
	}
	if p.NVocab > 0 {
		cfg.Vocab = p.NVocab
	}
	if p.NOut > 0 {
		cfg.OutChannels = p.NOut
	}
	if p.FFNMult > 0 {
		cfg.FFNMult = p.FFNMult
	}
	if p.PosScale > 0 {
		cfg.PosScale = p.PosScale
	}
	if p.NormEps > 0 {
		cfg.NormEps = p.NormEps
	}
	if err := cfg.Validate(); err != nil {
		return encoder.Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a sidecar JSON file.
func LoadFile(path string) (Params, error) {
	var p Params
	data, err := os.ReadFile(path)
	if err != nil {
		return p, errors.Wrapf(err, "hparams %s", path)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, errors.Wrapf(err, "hparams %s", path)
	}
	return p, nil
}
