// internal/app/app.go
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"ribopred-core/assemble"
	"ribopred-core/seq"
	"ribopred/internal/appcore"
	"ribopred/internal/cli"
	"ribopred/internal/clibase"
	"ribopred/internal/cmdutil"
	"ribopred/internal/common"
	"ribopred/internal/dataset"
	"ribopred/internal/output"
	"ribopred/internal/pretty"
	"ribopred/internal/version"
	"ribopred/internal/visitors"
)

// RunContext is the ribopred entry point behind main. Exit codes:
// 0 success (including empty input and broken stdout pipe), 2 usage,
// input or weights errors, 3 write or runtime errors, 130 canceled.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("ribopred")
	fs.SetOutput(io.Discard)
	cli.Usage(fs)

	if len(argv) == 0 {
		fs.SetOutput(stdout)
		fs.Usage()
		return 0
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fs.SetOutput(stdout)
			fs.Usage()
			return 0
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			cli.Examples(stdout)
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	if opts.Version {
		fmt.Fprintf(stdout, "ribopred version %s\n", version.Version)
		return 0
	}

	log := cmdutil.NewLogger(stderr, opts.Quiet, opts.Verbose, opts.Debug)
	start := time.Now()

	model, err := cmdutil.LoadModel(opts.Common, log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	tab, err := dataset.Load(parent, opts.Input, opts.Format, opts.FastaIDBase)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	log.WithFields(logrus.Fields{
		"records": len(tab.Records), "lmax": tab.Lmax,
	}).Info("dataset loaded")

	// The output file is created only after model and dataset loaded,
	// so a failed setup leaves nothing behind.
	dst := stdout
	var outFile *os.File
	if opts.Output != "-" {
		outFile, err = os.Create(opts.Output)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 3
		}
		dst = outFile
	}

	resolver := common.NewResolver(tab.Records)
	post := visitors.PostProc{Clip: opts.Clip, ZeroNaN: opts.ZeroNaN}

	var stats *visitors.Stats
	if opts.Stats {
		stats = visitors.NewStats(resolver)
	}
	var track *trackCollector
	if opts.Pretty {
		track = newTrackCollector(resolver)
	}

	positions := 0
	visit := func(p assemble.Prediction) (bool, assemble.Prediction, error) {
		keep, out, err := post.Visit(p)
		if err != nil || !keep {
			return keep, out, err
		}
		positions++
		if stats != nil {
			stats.Observe(out)
		}
		if track != nil {
			track.observe(out)
		}
		return true, out, nil
	}

	batches := 0
	totalBatches := (len(tab.Records) + opts.BatchSize - 1) / opts.BatchSize
	observe := func(index, preds int) {
		batches++
		log.WithFields(logrus.Fields{"batch": index, "predictions": preds}).Debug("batch done")
		if opts.Progress {
			fmt.Fprintf(stderr, "\rbatch %d/%d", index+1, totalBatches)
		}
	}

	var resolve func(int64) string
	if opts.OutFormat == output.FormatJSONL {
		resolve = resolver.SequenceID
	}
	writer := appcore.NewPredictionWriterFactory(opts.OutFormat, opts.Sort, opts.Header, resolve)

	code := appcore.Run[assemble.Prediction](parent, dst, stderr, appcore.Options{
		Records:   tab.Records,
		Lmax:      tab.Lmax,
		BatchSize: opts.BatchSize,
		Prefetch:  opts.Prefetch,
		Quiet:     opts.Quiet,
	}, model, visit, writer, observe)

	if opts.Progress && totalBatches > 0 {
		fmt.Fprintln(stderr)
	}

	if outFile != nil {
		if cerr := outFile.Close(); cerr != nil && code == 0 {
			fmt.Fprintln(stderr, cerr)
			code = 3
		}
		// All-or-nothing: a failed run leaves no partial output file.
		if code != 0 {
			_ = os.Remove(opts.Output)
		}
	}
	if code != 0 {
		return code
	}

	if stats != nil {
		if err := output.WriteStatsTable(stderr, stats.Rows()); err != nil {
			fmt.Fprintln(stderr, err)
			return 3
		}
	}
	if track != nil {
		track.render(stderr)
	}

	elapsed := time.Since(start)
	rate := float64(len(tab.Records)) / elapsed.Seconds()
	log.WithFields(logrus.Fields{
		"records":   len(tab.Records),
		"positions": positions,
		"batches":   batches,
		"elapsed":   elapsed.Round(time.Millisecond).String(),
		"seq_per_s": fmt.Sprintf("%.1f", rate),
	}).Info("run complete")
	return 0
}

// Run uses a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// trackCollector groups predictions per record for the --pretty
// reactivity tracks, in first-seen record order.
type trackCollector struct {
	resolver *common.Resolver
	order    []seq.Record
	perRec   map[int64][]assemble.Prediction // keyed by record IDMin
}

func newTrackCollector(r *common.Resolver) *trackCollector {
	return &trackCollector{resolver: r, perRec: make(map[int64][]assemble.Prediction)}
}

func (t *trackCollector) observe(p assemble.Prediction) {
	rec, ok := t.resolver.Record(p.ID)
	if !ok {
		return
	}
	if _, seen := t.perRec[rec.IDMin]; !seen {
		t.order = append(t.order, rec)
	}
	t.perRec[rec.IDMin] = append(t.perRec[rec.IDMin], p)
}

func (t *trackCollector) render(w io.Writer) {
	for _, rec := range t.order {
		fmt.Fprint(w, pretty.Render(rec, t.perRec[rec.IDMin]))
	}
}
