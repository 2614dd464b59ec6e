// internal/cmdutil/model.go
package cmdutil

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"ribopred-core/encoder"
	"ribopred-core/weights"
	"ribopred/internal/clibase"
	"ribopred/internal/hparams"
	"ribopred/internal/runutil"
)

// LoadModel resolves the model from the shared CLI flags.
//
// Precedence: a weight artifact is authoritative and must agree with
// the declared architecture flags and with any --hparams sidecar. For
// --random-init runs a sidecar, when given, replaces the architecture
// flags entirely.
func LoadModel(c clibase.Common, log *logrus.Logger) (*encoder.Model, error) {
	if c.RandomInit {
		cfg, err := randomInitConfig(c, log)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"dim": cfg.Dim, "depth": cfg.Depth, "heads": cfg.Heads(), "seed": c.Seed,
		}).Info("using random-init weights")
		m, err := encoder.New(cfg, encoder.NewRandomWeights(cfg, c.Seed))
		if err != nil {
			return nil, err
		}
		m.SetWorkers(runutil.EffectiveThreads(c.Threads))
		return m, nil
	}

	cfg, w, err := weights.LoadFile(c.Weights)
	if err != nil {
		return nil, err
	}
	if err := checkOverrides(cfg, c.Config()); err != nil {
		return nil, err
	}
	if c.HParams != "" {
		p, err := hparams.LoadFile(c.HParams)
		if err != nil {
			return nil, err
		}
		hcfg, err := p.Config()
		if err != nil {
			return nil, err
		}
		if hcfg != cfg {
			return nil, &weights.ShapeMismatchError{
				Reason: fmt.Sprintf("artifact %s disagrees with sidecar %s", c.Weights, c.HParams),
			}
		}
	}
	log.WithFields(logrus.Fields{
		"weights": c.Weights, "dim": cfg.Dim, "depth": cfg.Depth, "heads": cfg.Heads(),
	}).Info("loaded weight artifact")
	m, err := encoder.New(cfg, w)
	if err != nil {
		return nil, err
	}
	m.SetWorkers(runutil.EffectiveThreads(c.Threads))
	return m, nil
}

func randomInitConfig(c clibase.Common, log *logrus.Logger) (encoder.Config, error) {
	if c.HParams != "" {
		p, err := hparams.LoadFile(c.HParams)
		if err != nil {
			return encoder.Config{}, err
		}
		log.Debugf("hparams sidecar %s overrides architecture flags", c.HParams)
		return p.Config()
	}
	cfg := encoder.DefaultConfig()
	cfg.Dim = c.Dim
	cfg.Depth = c.Depth
	cfg.HeadSize = c.HeadSize
	cfg.PosScale = c.PosScale
	return cfg, cfg.Validate()
}

// checkOverrides verifies the loaded architecture against the CLI
// declaration. Weights are authoritative; a flag that disagrees is a
// fatal mismatch, not a silent reconfiguration.
func checkOverrides(cfg encoder.Config, o clibase.ArchOverride) error {
	mismatch := func(field string, flag, got interface{}) error {
		return &weights.ShapeMismatchError{
			Reason: fmt.Sprintf("artifact %s is %v but --%s declares %v", field, got, field, flag),
		}
	}
	if cfg.Dim != o.Dim {
		return mismatch("dim", o.Dim, cfg.Dim)
	}
	if cfg.Depth != o.Depth {
		return mismatch("depth", o.Depth, cfg.Depth)
	}
	if cfg.HeadSize != o.HeadSize {
		return mismatch("head-size", o.HeadSize, cfg.HeadSize)
	}
	if cfg.PosScale != o.PosScale {
		return mismatch("pos-scale", o.PosScale, cfg.PosScale)
	}
	return nil
}
