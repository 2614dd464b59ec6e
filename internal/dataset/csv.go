// internal/dataset/csv.go
package dataset

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"ribopred-core/seq"
)

// tableRow is the delimited-table row shape shared by the CSV and
// parquet loaders. sequence_id is optional provenance.
type tableRow struct {
	SequenceID string `csv:"sequence_id" parquet:"sequence_id,optional"`
	Sequence   string `csv:"sequence" parquet:"sequence"`
	IDMin      int64  `csv:"id_min" parquet:"id_min"`
	IDMax      int64  `csv:"id_max" parquet:"id_max"`
}

var requiredColumns = []string{"sequence", "id_min", "id_max"}

func loadCSV(path string) ([]seq.Record, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, &FormatError{Path: path, Reason: err.Error()}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &FormatError{Path: path, Reason: "empty file (missing header)"}
	}

	// Fail fast on missing columns instead of silently unmarshaling
	// zero values.
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, &FormatError{Path: path, Reason: "unreadable header: " + err.Error()}
	}
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	for _, col := range requiredColumns {
		if !have[col] {
			return nil, &FormatError{Path: path, Reason: "missing required column " + col}
		}
	}

	var rows []tableRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, &FormatError{Path: path, Reason: err.Error()}
	}
	return rowsToRecords(rows), nil
}

func rowsToRecords(rows []tableRow) []seq.Record {
	recs := make([]seq.Record, len(rows))
	for i, r := range rows {
		recs[i] = seq.Record{
			SequenceID: r.SequenceID,
			Seq:        r.Sequence,
			IDMin:      r.IDMin,
			IDMax:      r.IDMax,
		}
	}
	return recs
}
