// internal/output/rows.go
package output

import (
	"strconv"

	"ribopred-core/assemble"
)

// Fixed4 marshals a reactivity value with exactly 4 decimal places.
type Fixed4 float64

// MarshalCSV implements gocsv's field marshaler.
func (f Fixed4) MarshalCSV() (string, error) {
	return strconv.FormatFloat(float64(f), 'f', 4, 64), nil
}

// UnmarshalCSV implements the inverse, for tests reading output back.
func (f *Fixed4) UnmarshalCSV(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = Fixed4(v)
	return nil
}

// Row is one delimited output line. Column order and names must stay
// stable; they are the tool's primary output contract.
type Row struct {
	ID    int64  `csv:"id"`
	DMS   Fixed4 `csv:"reactivity_DMS_MaP"`
	TwoA3 Fixed4 `csv:"reactivity_2A3_MaP"`
}

// ToRow converts a prediction to its output row.
func ToRow(p assemble.Prediction) Row {
	return Row{ID: p.ID, DMS: Fixed4(p.DMS), TwoA3: Fixed4(p.TwoA3)}
}
