// internal/appcore/writer_factories.go
package appcore

import (
	"io"

	"ribopred-core/assemble"
	"ribopred/internal/writers"
)

// PredictionWriterFactory starts the standard prediction writer.
type PredictionWriterFactory struct {
	Format  string
	Sort    bool
	Header  bool
	Resolve func(int64) string // sequence-id provenance for JSONL; may be nil
}

func NewPredictionWriterFactory(format string, sort, header bool, resolve func(int64) string) PredictionWriterFactory {
	return PredictionWriterFactory{Format: format, Sort: sort, Header: header, Resolve: resolve}
}

func (w PredictionWriterFactory) Start(out io.Writer, bufSize int) (chan<- assemble.Prediction, <-chan error) {
	return writers.StartPredictionWriter(out, w.Format, w.Sort, w.Header, w.Resolve, bufSize)
}
