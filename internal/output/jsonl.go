// internal/output/jsonl.go
package output

import (
	"math"
	"strconv"

	"ribopred-core/assemble"
	"ribopred/pkg/api"
)

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

// round4 matches the delimited writers' 4-decimal precision so every
// format reports the same values.
func round4(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*1e4) / 1e4
}

// ToAPIPrediction converts a prediction to the stable wire schema
// (v1). seqID is optional provenance resolved by the caller.
func ToAPIPrediction(p assemble.Prediction, seqID string) api.PredictionV1 {
	return api.PredictionV1{
		ID:            p.ID,
		ReactivityDMS: round4(p.DMS),
		Reactivity2A3: round4(p.TwoA3),
		SequenceID:    seqID,
	}
}
