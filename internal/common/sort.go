// internal/common/sort.go
package common

import (
	"sort"

	"ribopred-core/assemble"
)

// SortPredictions orders predictions by global id. The pipeline's
// natural order is production order; this is only applied on --sort.
func SortPredictions(ps []assemble.Prediction) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].ID < ps[j].ID })
}
