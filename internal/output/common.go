// internal/output/common.go
package output

// Output formats.
const (
	FormatCSV   = "csv"
	FormatTSV   = "tsv"
	FormatJSONL = "jsonl"
)

// Header names the three output columns. Keep this as the single
// source of truth; all delimited writers use it.
var Header = []string{"id", "reactivity_DMS_MaP", "reactivity_2A3_MaP"}
