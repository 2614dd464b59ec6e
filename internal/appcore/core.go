// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"ribopred-core/assemble"
	"ribopred-core/seq"
	"ribopred/internal/cmdutil"
	"ribopred/internal/pipeline"
	"ribopred/internal/predictor"
	"ribopred/internal/runutil"
	"ribopred/internal/writers"
)

// Options carries everything the generic run core needs.
type Options struct {
	Records []seq.Record
	Lmax    int

	BatchSize int
	Prefetch  int

	Quiet bool
}

// VisitorFunc filters or rewrites one prediction before it is sent to
// the writer.
type VisitorFunc[T any] func(assemble.Prediction) (keep bool, out T, err error)

// WriterFactory starts the output goroutine for a concrete row type.
type WriterFactory[T any] interface {
	Start(out io.Writer, bufSize int) (chan<- T, <-chan error)
}

// Run wires records through the pipeline into a writer goroutine and
// maps the outcome to an exit code: 0 success (including empty input
// and a broken stdout pipe), 3 runtime or write errors, 130 canceled.
// Flag and input errors exit 2 before Run is reached.
func Run[T any](
	parent context.Context,
	stdout, stderr io.Writer,
	o Options,
	fwd predictor.Forwarder,
	visit VisitorFunc[T],
	wf WriterFactory[T],
	observe pipeline.BatchObserver,
) int {
	outw := bufio.NewWriter(stdout)

	batchSize, prefetch, warns := runutil.ValidateBatching(o.BatchSize, o.Prefetch)
	if !o.Quiet {
		for _, w := range warns {
			fmt.Fprintln(stderr, w)
		}
	}

	inCh, writeErr := wf.Start(outw, batchSize)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	_, perr := cmdutil.RunStream[T](
		ctx,
		pipeline.Config{BatchSize: batchSize, Prefetch: prefetch, Lmax: o.Lmax},
		o.Records,
		fwd,
		visit,
		func(x T) error {
			select {
			case inCh <- x:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
		observe,
	)

	close(inCh)

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return 0
	} else if werr != nil {
		fmt.Fprintln(stderr, werr)
		return 3
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		fmt.Fprintln(stderr, e)
		return 3
	}

	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return 130
		}
		fmt.Fprintln(stderr, perr)
		return 3
	}
	return 0
}
