// internal/output/stats.go
package output

import (
	"fmt"
	"io"

	"ribopred/pkg/api"
)

// WriteStatsTable renders the per-sequence summary (--stats) as an
// aligned text table.
func WriteStatsTable(w io.Writer, rows []api.SequenceStatsV1) error {
	if _, err := fmt.Fprintf(w, "%-20s %9s %9s %9s %9s %9s\n",
		"sequence_id", "n", "mean_dms", "max_dms", "mean_2a3", "max_2a3"); err != nil {
		return err
	}
	for _, r := range rows {
		name := r.SequenceID
		if name == "" {
			name = "-"
		}
		if _, err := fmt.Fprintf(w, "%-20s %9d %9.4f %9.4f %9.4f %9.4f\n",
			name, r.Positions, r.MeanDMS, r.MaxDMS, r.Mean2A3, r.Max2A3); err != nil {
			return err
		}
	}
	return nil
}
