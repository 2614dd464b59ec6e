// internal/output/delim.go
package output

import (
	"encoding/csv"
	"io"

	"github.com/gocarina/gocsv"

	"ribopred-core/assemble"
)

func delimWriter(w io.Writer, format string) *csv.Writer {
	cw := csv.NewWriter(w)
	if format == FormatTSV {
		cw.Comma = '\t'
	}
	return cw
}

// WriteDelim writes a buffered slice of rows (the --sort path).
func WriteDelim(w io.Writer, format string, rows []Row, header bool) error {
	cw := gocsv.NewSafeCSVWriter(delimWriter(w, format))
	if header {
		return gocsv.MarshalCSV(&rows, cw)
	}
	return gocsv.MarshalCSVWithoutHeaders(&rows, cw)
}

// StreamDelim writes predictions as they arrive (the default path).
// Rows are formatted identically to WriteDelim. On a write error the
// channel is still drained so the producer never blocks on a dead
// writer.
func StreamDelim(w io.Writer, format string, in <-chan assemble.Prediction, header bool) error {
	cw := delimWriter(w, format)
	var werr error
	if header {
		werr = cw.Write(Header)
	}
	for p := range in {
		if werr != nil {
			continue
		}
		r := ToRow(p)
		dms, _ := r.DMS.MarshalCSV()
		t3, _ := r.TwoA3.MarshalCSV()
		werr = cw.Write([]string{formatID(r.ID), dms, t3})
	}
	if werr != nil {
		return werr
	}
	cw.Flush()
	return cw.Error()
}
