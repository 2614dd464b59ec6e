// internal/writers/prediction.go
package writers

import (
	"fmt"
	"io"

	"ribopred-core/assemble"
	"ribopred/internal/common"
	"ribopred/internal/output"
)

// StartPredictionWriter spins up a writer goroutine for prediction
// rows. The channel is the only producer-facing surface; the error
// channel yields exactly one value after the input channel closes.
//
// CSV/TSV stream by default; --sort buffers, orders by id and writes
// in one pass. JSONL always streams (sorting is applied upstream by
// the caller when requested). resolve maps a global id to its
// sequence id for JSONL provenance; nil omits it.
func StartPredictionWriter(
	out io.Writer,
	format string,
	sortRows, header bool,
	resolve func(int64) string,
	bufSize int,
) (chan<- assemble.Prediction, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}

	switch format {
	case output.FormatJSONL:
		if !sortRows {
			return StartPredictionJSONLWriter(out, resolve, bufSize)
		}
		in := make(chan assemble.Prediction, bufSize)
		errCh := make(chan error, 1)
		go func() {
			var buf []assemble.Prediction
			for p := range in {
				buf = append(buf, p)
			}
			common.SortPredictions(buf)
			inner, innerErr := StartPredictionJSONLWriter(out, resolve, bufSize)
			for _, p := range buf {
				inner <- p
			}
			close(inner)
			errCh <- <-innerErr
		}()
		return in, errCh
	case output.FormatCSV, output.FormatTSV:
	default:
		in := make(chan assemble.Prediction)
		errCh := make(chan error, 1)
		go func() {
			for range in {
			}
			errCh <- fmt.Errorf("unsupported output format %q", format)
		}()
		return in, errCh
	}

	in := make(chan assemble.Prediction, bufSize)
	errCh := make(chan error, 1)
	go func() {
		var err error
		if sortRows {
			var buf []assemble.Prediction
			for p := range in {
				buf = append(buf, p)
			}
			common.SortPredictions(buf)
			rows := make([]output.Row, len(buf))
			for i, p := range buf {
				rows[i] = output.ToRow(p)
			}
			err = output.WriteDelim(out, format, rows, header)
		} else {
			err = output.StreamDelim(out, format, in, header)
		}
		errCh <- err
	}()
	return in, errCh
}
