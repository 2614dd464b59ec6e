// internal/benchcli/options.go
package benchcli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"ribopred/internal/clibase"
	"ribopred/internal/cliutil"
	"ribopred/internal/dataset"
)

// Options holds the ribopred-bench flags.
type Options struct {
	clibase.Common

	// Workload
	Input  string
	Format string
	Count  int
	MinLen int
	MaxLen int
	Iters  int
}

// ParseArgs registers and parses the bench flags. Without --weights
// the bench defaults to --random-init.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	clibase.Register(fs, &opt.Common)

	fs.StringVar(&opt.Input, "input", "", "time a real table instead of synthetic sequences")
	fs.StringVar(&opt.Input, "i", "", "alias of --input")
	fs.StringVar(&opt.Format, "format", dataset.FormatAuto, "input format: auto | parquet | csv | fasta [auto]")
	fs.IntVar(&opt.Count, "count", 1024, "synthetic sequences to generate [1024]")
	fs.IntVar(&opt.MinLen, "min-len", 115, "minimum synthetic sequence length [115]")
	fs.IntVar(&opt.MaxLen, "max-len", 207, "maximum synthetic sequence length [207]")
	fs.IntVar(&opt.Iters, "iters", 5, "timed forward passes over the workload [5]")
	fs.BoolVar(&help, "h", false, "show this help message [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	if len(posArgs) > 0 {
		if opt.Input != "" {
			return opt, errors.New("exactly one input is accepted (--input or a single positional path)")
		}
		inp, err := cliutil.ExpandPositional(posArgs)
		if err != nil {
			return opt, err
		}
		opt.Input = inp
	}
	if opt.Weights == "" {
		opt.RandomInit = true
	}
	return opt, validate(&opt)
}

func validate(o *Options) error {
	if o.Input == "" {
		if o.Count < 1 {
			return errors.New("--count must be >= 1")
		}
		if o.MinLen < 1 || o.MaxLen < o.MinLen {
			return fmt.Errorf("invalid length range [%d,%d]", o.MinLen, o.MaxLen)
		}
	}
	switch o.Format {
	case dataset.FormatAuto, dataset.FormatParquet, dataset.FormatCSV, dataset.FormatFASTA:
	default:
		return fmt.Errorf("invalid --format %q", o.Format)
	}
	if o.Iters < 1 {
		return errors.New("--iters must be >= 1")
	}
	return clibase.Validate(&o.Common)
}

// Usage installs the bench help text on fs.
func Usage(fs *flag.FlagSet) {
	clibase.UsageCommon(fs, "ribopred-bench", "forward-pass benchmark", func(out io.Writer, def func(string) string) {
		fmt.Fprintln(out, "\nWorkload:")
		fmt.Fprintf(out, "  -i, --input file            Time a real table instead of synthetic sequences\n")
		fmt.Fprintf(out, "      --format string         Input format: auto | parquet | csv | fasta [%s]\n", def("format"))
		fmt.Fprintf(out, "      --count int             Synthetic sequences to generate [%s]\n", def("count"))
		fmt.Fprintf(out, "      --min-len int           Minimum synthetic length [%s]\n", def("min-len"))
		fmt.Fprintf(out, "      --max-len int           Maximum synthetic length [%s]\n", def("max-len"))
		fmt.Fprintf(out, "      --iters int             Timed forward passes [%s]\n", def("iters"))
	})
}
