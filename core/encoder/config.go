// core/encoder/config.go
package encoder

import (
	"fmt"

	"ribopred-core/alphabet"
	"ribopred-core/posenc"
)

// Config declares the encoder architecture. A loaded weight artifact
// must match it field for field.
type Config struct {
	Dim         int     // embedding dimension (d_model)
	Depth       int     // number of encoder blocks
	HeadSize    int     // per-head width; heads = Dim/HeadSize
	FFNMult     int     // feed-forward hidden dim = FFNMult*Dim
	Vocab       int     // input alphabet size
	OutChannels int     // reactivity channels per position
	PosScale    float64 // sinusoidal positional-encoding scale
	NormEps     float64 // layer-norm epsilon
}

// DefaultConfig returns the published architecture.
func DefaultConfig() Config {
	return Config{
		Dim:         192,
		Depth:       12,
		HeadSize:    32,
		FFNMult:     4,
		Vocab:       alphabet.Size,
		OutChannels: 2,
		PosScale:    posenc.DefaultScale,
		NormEps:     1e-5,
	}
}

// Heads returns the attention head count.
func (c Config) Heads() int { return c.Dim / c.HeadSize }

// FFNDim returns the feed-forward hidden width.
func (c Config) FFNDim() int { return c.FFNMult * c.Dim }

// Validate rejects inexpressible architectures.
func (c Config) Validate() error {
	switch {
	case c.Dim <= 0 || c.Dim%2 != 0:
		return fmt.Errorf("dim %d must be positive and even", c.Dim)
	case c.Depth <= 0:
		return fmt.Errorf("depth %d must be positive", c.Depth)
	case c.HeadSize <= 0 || c.Dim%c.HeadSize != 0:
		return fmt.Errorf("head size %d must divide dim %d", c.HeadSize, c.Dim)
	case c.FFNMult <= 0:
		return fmt.Errorf("ffn multiplier %d must be positive", c.FFNMult)
	case c.Vocab <= 0:
		return fmt.Errorf("vocab %d must be positive", c.Vocab)
	case c.OutChannels <= 0:
		return fmt.Errorf("output channels %d must be positive", c.OutChannels)
	case c.PosScale <= 1:
		return fmt.Errorf("positional scale %g must exceed 1", c.PosScale)
	case c.NormEps <= 0:
		return fmt.Errorf("norm epsilon %g must be positive", c.NormEps)
	}
	return nil
}
