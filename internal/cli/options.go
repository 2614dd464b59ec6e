// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"ribopred/internal/clibase"
	"ribopred/internal/cliutil"
	"ribopred/internal/dataset"
	"ribopred/internal/output"
)

// Options holds all ribopred CLI flags and arguments.
type Options struct {
	clibase.Common

	// Input
	Input       string
	Format      string
	FastaIDBase int64

	// Output
	Output    string
	OutFormat string
	Sort      bool
	Header    bool // true unless --no-header
	Clip      bool
	ZeroNaN   bool
	Stats     bool
	Pretty    bool
	Progress  bool

	Examples bool
}

// ParseArgs registers and parses all flags, returning an Options
// struct. A bare positional argument is taken as the input path.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help, noHeader bool

	clibase.Register(fs, &opt.Common)

	// Input
	fs.StringVar(&opt.Input, "input", "", "input table (parquet/csv/fasta; '-' = stdin csv)")
	fs.StringVar(&opt.Input, "i", "", "alias of --input")
	fs.StringVar(&opt.Format, "format", dataset.FormatAuto, "input format: auto | parquet | csv | fasta [auto]")
	fs.Int64Var(&opt.FastaIDBase, "fasta-id-base", 0, "first global id assigned to FASTA input [0]")

	// Output
	fs.StringVar(&opt.Output, "output", "-", "output path ('-' = stdout) [-]")
	fs.StringVar(&opt.Output, "o", "-", "alias of --output")
	fs.StringVar(&opt.OutFormat, "out-format", output.FormatCSV, "output format: csv | tsv | jsonl [csv]")
	fs.BoolVar(&opt.Sort, "sort", false, "sort output rows by id (default: production order) [false]")
	fs.BoolVar(&noHeader, "no-header", false, "omit CSV/TSV header [false]")
	fs.BoolVar(&opt.Clip, "clip", false, "clamp predictions into [0,1] [false]")
	fs.BoolVar(&opt.ZeroNaN, "zero-nan", false, "replace NaN/Inf predictions with 0 [false]")
	fs.BoolVar(&opt.Stats, "stats", false, "per-sequence summary table to stderr [false]")
	fs.BoolVar(&opt.Pretty, "pretty", false, "ASCII reactivity track per sequence to stderr [false]")
	fs.BoolVar(&opt.Progress, "progress", false, "per-batch progress meter to stderr [false]")

	fs.BoolVar(&opt.Examples, "examples", false, "print usage examples and exit [false]")
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
	if opt.Examples {
		return opt, clibase.ErrPrintedAndExitOK
	}
	opt.Header = !noHeader

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
	return opt, validate(&opt)
}

func validate(o *Options) error {
	if o.Input == "" {
		return errors.New("an input table is required (--input or positional path)")
	}
	switch o.Format {
	case dataset.FormatAuto, dataset.FormatParquet, dataset.FormatCSV, dataset.FormatFASTA:
	default:
		return fmt.Errorf("invalid --format %q", o.Format)
	}
	switch o.OutFormat {
	case output.FormatCSV, output.FormatTSV, output.FormatJSONL:
	default:
		return fmt.Errorf("invalid --out-format %q", o.OutFormat)
	}
	if o.FastaIDBase < 0 {
		return errors.New("--fasta-id-base must be >= 0")
	}
	return clibase.Validate(&o.Common)
}

// Usage installs the ribopred help text on fs.
func Usage(fs *flag.FlagSet) {
	clibase.UsageCommon(fs, "ribopred", "RNA reactivity inference", func(out io.Writer, def func(string) string) {
		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "  -i, --input file            Input table (parquet/csv/fasta; '-' = stdin csv) [*]")
		fmt.Fprintf(out, "      --format string         Input format: auto | parquet | csv | fasta [%s]\n", def("format"))
		fmt.Fprintf(out, "      --fasta-id-base int     First global id for FASTA input [%s]\n", def("fasta-id-base"))

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "  -o, --output file           Output path ('-' = stdout) [%s]\n", def("output"))
		fmt.Fprintf(out, "      --out-format string     Output format: csv | tsv | jsonl [%s]\n", def("out-format"))
		fmt.Fprintf(out, "      --sort                  Sort output rows by id [%s]\n", def("sort"))
		fmt.Fprintf(out, "      --no-header             Omit CSV/TSV header [%s]\n", def("no-header"))
		fmt.Fprintf(out, "      --clip                  Clamp predictions into [0,1] [%s]\n", def("clip"))
		fmt.Fprintf(out, "      --zero-nan              Replace NaN/Inf predictions with 0 [%s]\n", def("zero-nan"))
		fmt.Fprintf(out, "      --stats                 Per-sequence summary table to stderr [%s]\n", def("stats"))
		fmt.Fprintf(out, "      --pretty                ASCII reactivity track to stderr [%s]\n", def("pretty"))
		fmt.Fprintf(out, "      --progress              Per-batch progress meter to stderr [%s]\n", def("progress"))
	})
}

// Examples prints the ribopred quickstart.
func Examples(out io.Writer) {
	clibase.PrintExamples(out, "ribopred", func(w io.Writer) {
		fmt.Fprintln(w, "  # Predict reactivities for a parquet table")
		fmt.Fprintln(w, "  ribopred --weights model.rpw --input test_sequences.parquet --output preds.csv")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "  # FASTA input, JSONL output, sorted by id")
		fmt.Fprintln(w, "  ribopred -w model.rpw -i seqs.fa --out-format jsonl --sort")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "  # Smoke-test the pipeline without an artifact")
		fmt.Fprintln(w, "  ribopred --random-init --input seqs.csv --stats")
	})
}
