// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"ribopred-core/assemble"
	"ribopred/internal/jsonlutil"
	"ribopred/internal/output"
)

// StartPredictionJSONLWriter streams each prediction as one JSON line
// (v1 schema). resolve supplies sequence-id provenance; nil omits it.
func StartPredictionJSONLWriter(out io.Writer, resolve func(int64) string, bufSize int) (chan<- assemble.Prediction, <-chan error) {
	return jsonlutil.Start[assemble.Prediction](out, bufSize,
		func(enc *json.Encoder, p assemble.Prediction) error {
			seqID := ""
			if resolve != nil {
				seqID = resolve(p.ID)
			}
			return enc.Encode(output.ToAPIPrediction(p, seqID))
		},
		IsBrokenPipe,
	)
}
