// internal/dataset/dataset.go
package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"ribopred-core/alphabet"
	"ribopred-core/seq"
)

// Input formats.
const (
	FormatAuto    = "auto"
	FormatParquet = "parquet"
	FormatCSV     = "csv"
	FormatFASTA   = "fasta"
)

// FormatError reports a malformed source table: missing required
// columns, an unreadable file, or an unrecognizable format. It is
// fatal before any batch work starts.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("input %s: %s", e.Path, e.Reason)
}

// Table is a fully loaded, validated record set. Lmax is the
// dataset-wide maximum sequence length, fixed here and threaded
// explicitly into every batch construction.
type Table struct {
	Records []seq.Record
	Lmax    int
}

// Load reads path in the given format ("auto" sniffs by extension,
// "-" means CSV on stdin), normalizes and validates every sequence,
// and checks the id ranges for overlap. The first failure aborts with
// no partial result: a malformed symbol or a broken id range never
// reaches batch construction.
func Load(ctx context.Context, path, format string, fastaIDBase int64) (*Table, error) {
	f, err := resolveFormat(path, format)
	if err != nil {
		return nil, err
	}

	var recs []seq.Record
	switch f {
	case FormatParquet:
		recs, err = loadParquet(path)
	case FormatCSV:
		recs, err = loadCSV(path)
	case FormatFASTA:
		recs, err = loadFASTA(ctx, path, fastaIDBase)
	default:
		return nil, &FormatError{Path: path, Reason: fmt.Sprintf("unknown format %q", f)}
	}
	if err != nil {
		return nil, err
	}

	for i := range recs {
		recs[i].Seq = alphabet.Normalize(recs[i].Seq)
		if err := recs[i].Validate(); err != nil {
			return nil, errors.Wrapf(err, "input %s row %d", path, i)
		}
	}
	if err := seq.CheckOverlap(recs); err != nil {
		return nil, errors.Wrapf(err, "input %s", path)
	}
	return &Table{Records: recs, Lmax: seq.MaxLen(recs)}, nil
}

func resolveFormat(path, format string) (string, error) {
	switch format {
	case FormatParquet, FormatCSV, FormatFASTA:
		return format, nil
	case "", FormatAuto:
	default:
		return "", &FormatError{Path: path, Reason: fmt.Sprintf("unknown format %q", format)}
	}
	if path == "-" {
		return FormatCSV, nil
	}
	// Gzip is supported for FASTA only (the reader un-gzips itself).
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".gz" {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, ".gz")))
		switch ext {
		case ".fa", ".fasta", ".fna":
			return FormatFASTA, nil
		}
		return "", &FormatError{Path: path, Reason: "gzip input is supported for FASTA only"}
	}
	switch ext {
	case ".parquet", ".pq":
		return FormatParquet, nil
	case ".csv":
		return FormatCSV, nil
	case ".fa", ".fasta", ".fna":
		return FormatFASTA, nil
	}
	return "", &FormatError{Path: path, Reason: fmt.Sprintf("cannot infer format from extension %q; use --format", ext)}
}
