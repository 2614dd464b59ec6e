// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"
	"fmt"
)

// Common holds the CLI fields shared by ribopred and ribopred-bench:
// the model source, architecture overrides and batching knobs.
type Common struct {
	// Model
	Weights    string
	HParams    string
	RandomInit bool
	Seed       int64

	// Architecture (must match a loaded artifact exactly)
	Dim      int
	Depth    int
	HeadSize int
	PosScale float64

	// Performance
	BatchSize int
	Threads   int
	Prefetch  int

	// Misc
	Quiet   bool
	Verbose bool
	Debug   bool
	Version bool
}

// Register wires the shared flags onto fs.
func Register(fs *flag.FlagSet, c *Common) {
	// Model
	fs.StringVar(&c.Weights, "weights", "", "pretrained weight artifact (RPW1)")
	fs.StringVar(&c.Weights, "w", "", "alias of --weights")
	fs.StringVar(&c.HParams, "hparams", "", "hyperparameter JSON sidecar")
	fs.BoolVar(&c.RandomInit, "random-init", false, "random weights instead of --weights (debugging) [false]")
	fs.Int64Var(&c.Seed, "seed", 42, "seed for --random-init [42]")

	// Architecture
	fs.IntVar(&c.Dim, "dim", 192, "embedding dimension [192]")
	fs.IntVar(&c.Depth, "depth", 12, "transformer depth [12]")
	fs.IntVar(&c.HeadSize, "head-size", 32, "attention head size [32]")
	fs.Float64Var(&c.PosScale, "pos-scale", 10000, "sinusoidal positional-encoding scale [10000]")

	// Performance
	fs.IntVar(&c.BatchSize, "batch-size", 256, "sequences per batch [256]")
	fs.IntVar(&c.Threads, "threads", 0, "encoder row workers (0 = all CPUs) [0]")
	fs.IntVar(&c.Threads, "t", 0, "alias of --threads")
	fs.IntVar(&c.Prefetch, "prefetch", 2, "batch prefetch depth [2]")

	// Misc
	fs.BoolVar(&c.Quiet, "quiet", false, "suppress all logging [false]")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&c.Verbose, "verbose", false, "info-level logging [false]")
	fs.BoolVar(&c.Debug, "debug", false, "debug-level logging (per-batch detail) [false]")
	fs.BoolVar(&c.Version, "v", false, "print version and exit [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")
}

// Validate applies the shared CLI invariants.
func Validate(c *Common) error {
	if c.Weights == "" && !c.RandomInit {
		return errors.New("provide --weights or --random-init")
	}
	if c.Weights != "" && c.RandomInit {
		return errors.New("--weights conflicts with --random-init")
	}
	if c.Dim <= 0 || c.Dim%2 != 0 {
		return fmt.Errorf("--dim must be positive and even, got %d", c.Dim)
	}
	if c.Depth <= 0 {
		return errors.New("--depth must be >= 1")
	}
	if c.HeadSize <= 0 || c.Dim%c.HeadSize != 0 {
		return fmt.Errorf("--head-size must divide --dim (%d %% %d != 0)", c.Dim, c.HeadSize)
	}
	if c.PosScale <= 1 {
		return errors.New("--pos-scale must exceed 1")
	}
	if c.BatchSize < 1 {
		return errors.New("--batch-size must be >= 1")
	}
	if c.Threads < 0 {
		return errors.New("--threads must be >= 0")
	}
	if c.Prefetch < 1 {
		return errors.New("--prefetch must be >= 1")
	}
	return nil
}

// Config assembles the declared architecture from the shared flags.
func (c *Common) Config() ArchOverride {
	return ArchOverride{
		Dim:      c.Dim,
		Depth:    c.Depth,
		HeadSize: c.HeadSize,
		PosScale: c.PosScale,
	}
}

// ArchOverride is the architecture requested on the command line.
// Weights are authoritative: a loaded artifact must agree with every
// overridden field or loading fails.
type ArchOverride struct {
	Dim      int
	Depth    int
	HeadSize int
	PosScale float64
}
