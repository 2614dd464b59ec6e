// internal/benchapp/app.go
package benchapp

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"text/tabwriter"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/sbwhitecap/tqdm"
	"github.com/sbwhitecap/tqdm/iterators"
	"github.com/sirupsen/logrus"

	"ribopred-core/batch"
	"ribopred-core/seq"
	"ribopred/internal/benchcli"
	"ribopred/internal/cli"
	"ribopred/internal/cmdutil"
	"ribopred/internal/dataset"
	"ribopred/internal/predictor"
	"ribopred/internal/version"
)

const bases = "ACGU"

// RunContext is the ribopred-bench entry point behind main.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("ribopred-bench")
	fs.SetOutput(io.Discard)
	benchcli.Usage(fs)

	opts, err := benchcli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(stdout)
			fs.Usage()
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	if opts.Version {
		fmt.Fprintf(stdout, "ribopred-bench version %s\n", version.Version)
		return 0
	}

	log := cmdutil.NewLogger(stderr, opts.Quiet, opts.Verbose, opts.Debug)

	model, err := cmdutil.LoadModel(opts.Common, log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	var recs []seq.Record
	if opts.Input != "" {
		tab, err := dataset.Load(parent, opts.Input, opts.Format, 0)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return 130
			}
			fmt.Fprintln(stderr, err)
			return 2
		}
		recs = tab.Records
	} else {
		recs = synthetic(opts.Count, opts.MinLen, opts.MaxLen, opts.Seed)
	}

	batches, positions, err := buildBatches(recs, opts.BatchSize)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	log.WithFields(logrus.Fields{
		"records": len(recs), "batches": len(batches), "positions": positions,
	}).Info("workload ready")

	// One untimed pass warms the per-worker scratch buffers.
	if err := forwardAll(parent, model, batches); err != nil {
		fmt.Fprintln(stderr, err)
		return 3
	}

	var latencies []float64 // per-batch, milliseconds
	start := time.Now()
	run := func(c interface{}) (brk bool) {
		for _, b := range batches {
			t0 := time.Now()
			if _, ferr := model.Forward(parent, b); ferr != nil {
				err = ferr
				return true
			}
			latencies = append(latencies, float64(time.Since(t0))/float64(time.Millisecond))
		}
		return
	}
	if opts.Quiet {
		for i := 0; i < opts.Iters && err == nil; i++ {
			run(i)
		}
	} else {
		if terr := tqdm.With(iterators.Interval(0, opts.Iters), "forward", run); terr != nil && err == nil {
			err = terr
		}
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintln(stderr, err)
		return 3
	}
	elapsed := time.Since(start).Seconds()

	mean, _ := stats.Mean(latencies)
	p50, _ := stats.Median(latencies)
	p90, _ := stats.Percentile(latencies, 90)
	p99, _ := stats.Percentile(latencies, 99)

	tw := tabwriter.NewWriter(stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "batches\t%d x %d iters\n", len(batches), opts.Iters)
	fmt.Fprintf(tw, "batch latency mean\t%.2f ms\n", mean)
	fmt.Fprintf(tw, "batch latency p50\t%.2f ms\n", p50)
	fmt.Fprintf(tw, "batch latency p90\t%.2f ms\n", p90)
	fmt.Fprintf(tw, "batch latency p99\t%.2f ms\n", p99)
	fmt.Fprintf(tw, "sequences/s\t%.1f\n", float64(len(recs)*opts.Iters)/elapsed)
	fmt.Fprintf(tw, "positions/s\t%.0f\n", float64(positions*opts.Iters)/elapsed)
	if err := tw.Flush(); err != nil {
		fmt.Fprintln(stderr, err)
		return 3
	}
	return 0
}

// Run uses a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// synthetic generates count records with lengths uniform in
// [minLen,maxLen] and contiguous global id ranges.
func synthetic(count, minLen, maxLen int, seed int64) []seq.Record {
	rng := rand.New(rand.NewSource(seed))
	recs := make([]seq.Record, 0, count)
	var next int64
	for i := 0; i < count; i++ {
		n := minLen + rng.Intn(maxLen-minLen+1)
		buf := make([]byte, n)
		for j := range buf {
			buf[j] = bases[rng.Intn(len(bases))]
		}
		recs = append(recs, seq.Record{
			SequenceID: fmt.Sprintf("synthetic_%04d", i),
			Seq:        string(buf),
			IDMin:      next,
			IDMax:      next + int64(n) - 1,
		})
		next += int64(n)
	}
	return recs
}

// buildBatches pads every batch up front so the timed loop measures
// only the forward pass. Returns the total count of valid positions.
func buildBatches(recs []seq.Record, batchSize int) ([]*batch.Batch, int, error) {
	builder := batch.NewBuilder(seq.MaxLen(recs))
	var out []*batch.Batch
	positions := 0
	for lo := 0; lo < len(recs); lo += batchSize {
		hi := lo + batchSize
		if hi > len(recs) {
			hi = len(recs)
		}
		b, err := builder.Build(recs[lo:hi])
		if err != nil {
			return nil, 0, err
		}
		b = b.NarrowTo(b.MaxValidLen())
		for i := 0; i < b.Rows; i++ {
			positions += b.ValidLen(i)
		}
		out = append(out, b)
	}
	return out, positions, nil
}

func forwardAll(ctx context.Context, m predictor.Forwarder, batches []*batch.Batch) error {
	for _, b := range batches {
		if _, err := m.Forward(ctx, b); err != nil {
			return err
		}
	}
	return nil
}
