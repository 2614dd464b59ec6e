// internal/dataset/parquet.go
package dataset

import (
	"os"

	"github.com/parquet-go/parquet-go"

	"ribopred-core/seq"
)

func loadParquet(path string) ([]seq.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FormatError{Path: path, Reason: err.Error()}
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, &FormatError{Path: path, Reason: err.Error()}
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, &FormatError{Path: path, Reason: err.Error()}
	}

	have := make(map[string]bool)
	for _, field := range pf.Schema().Fields() {
		have[field.Name()] = true
	}
	for _, col := range requiredColumns {
		if !have[col] {
			return nil, &FormatError{Path: path, Reason: "missing required column " + col}
		}
	}

	rows, err := parquet.Read[tableRow](f, st.Size())
	if err != nil {
		return nil, &FormatError{Path: path, Reason: err.Error()}
	}
	return rowsToRecords(rows), nil
}
