// internal/clibase/usage.go
package clibase

import (
	"flag"
	"fmt"
	"io"

	"ribopred/internal/version"
)

// UsageCommon installs a shared Usage() handler on fs. extra prints
// tool-specific sections (input/output blocks, usage examples).
func UsageCommon(fs *flag.FlagSet, name, oneliner string, extra func(out io.Writer, def func(string) string)) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s – %s\n\n", name, oneliner)
		fmt.Fprintf(out, "Version: %s\n", version.Version)

		if extra != nil {
			extra(out, def)
		}

		fmt.Fprintln(out, "\nModel:")
		fmt.Fprintln(out, "  -w, --weights file          Pretrained weight artifact (RPW1)")
		fmt.Fprintln(out, "      --hparams file          Hyperparameter JSON sidecar")
		fmt.Fprintf(out, "      --random-init           Random weights instead of --weights [%s]\n", def("random-init"))
		fmt.Fprintf(out, "      --seed int              Seed for --random-init [%s]\n", def("seed"))
		fmt.Fprintf(out, "      --dim int               Embedding dimension [%s]\n", def("dim"))
		fmt.Fprintf(out, "      --depth int             Transformer depth [%s]\n", def("depth"))
		fmt.Fprintf(out, "      --head-size int         Attention head size [%s]\n", def("head-size"))
		fmt.Fprintf(out, "      --pos-scale float       Positional-encoding scale [%s]\n", def("pos-scale"))

		fmt.Fprintln(out, "\nPerformance:")
		fmt.Fprintf(out, "      --batch-size int        Sequences per batch [%s]\n", def("batch-size"))
		fmt.Fprintf(out, "  -t, --threads int           Encoder row workers (0 = all CPUs) [%s]\n", def("threads"))
		fmt.Fprintf(out, "      --prefetch int          Batch prefetch depth [%s]\n", def("prefetch"))

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintf(out, "  -q, --quiet                 Suppress all logging [%s]\n", def("quiet"))
		fmt.Fprintf(out, "      --verbose               Info-level logging [%s]\n", def("verbose"))
		fmt.Fprintf(out, "      --debug                 Debug-level logging [%s]\n", def("debug"))
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
	}
}
