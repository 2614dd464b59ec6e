// pkg/api/predictions_v1.go
package api

// PredictionV1 is the stable JSON/JSONL schema for per-position
// reactivity predictions. Keep fields, names, and types stable. Add
// new fields only with ",omitempty".
type PredictionV1 struct {
	ID            int64   `json:"id"`
	ReactivityDMS float64 `json:"reactivity_dms_map"`
	Reactivity2A3 float64 `json:"reactivity_2a3_map"`
	SequenceID    string  `json:"sequence_id,omitempty"`
}

// SequenceStatsV1 is the stable schema for per-sequence summary rows.
type SequenceStatsV1 struct {
	SequenceID string  `json:"sequence_id"`
	Positions  int     `json:"positions"`
	MeanDMS    float64 `json:"mean_dms"`
	MaxDMS     float64 `json:"max_dms"`
	Mean2A3    float64 `json:"mean_2a3"`
	Max2A3     float64 `json:"max_2a3"`
}
