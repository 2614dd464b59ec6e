// internal/pretty/pretty.go
package pretty

import (
	"fmt"
	"strings"

	"ribopred-core/assemble"
	"ribopred-core/seq"
)

// Options control the ASCII reactivity track.
type Options struct {
	// Wrap width for the sequence and track lines. If <=0, use
	// default (60).
	Width int
	// Shade ramp from low to high reactivity. If empty, use default.
	Ramp string
}

// DefaultOptions keeps the current look and feel.
var DefaultOptions = Options{
	Width: 60,
	Ramp:  " .:-=+*#%@",
}

const linePrefix = "# "

func (o Options) width() int {
	if o.Width <= 0 {
		return DefaultOptions.Width
	}
	return o.Width
}

func (o Options) ramp() string {
	if o.Ramp == "" {
		return DefaultOptions.Ramp
	}
	return o.Ramp
}

// shade maps a reactivity in [0,1] to a ramp glyph; out-of-range and
// NaN values saturate to the ends.
func shade(v float64, ramp string) byte {
	if !(v > 0) { // catches NaN too
		return ramp[0]
	}
	if v >= 1 {
		return ramp[len(ramp)-1]
	}
	return ramp[int(v*float64(len(ramp)))]
}

// RenderWithOptions prints one sequence's nucleotide line plus a shade
// track per channel. preds must be that sequence's predictions in
// position order; a short slice truncates the tracks rather than
// failing.
func RenderWithOptions(rec seq.Record, preds []assemble.Prediction, opt Options) string {
	width := opt.width()
	ramp := opt.ramp()

	dms := make([]byte, len(preds))
	twoA3 := make([]byte, len(preds))
	for i, p := range preds {
		dms[i] = shade(p.DMS, ramp)
		twoA3[i] = shade(p.TwoA3, ramp)
	}

	name := rec.SequenceID
	if name == "" {
		name = fmt.Sprintf("[%d,%d]", rec.IDMin, rec.IDMax)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s>%s ids=%d..%d len=%d\n", linePrefix, name, rec.IDMin, rec.IDMax, rec.Len())
	for off := 0; off < rec.Len(); off += width {
		end := off + width
		if end > rec.Len() {
			end = rec.Len()
		}
		fmt.Fprintf(&b, "%sseq %s\n", linePrefix, rec.Seq[off:end])
		fmt.Fprintf(&b, "%sdms %s\n", linePrefix, clip(dms, off, end))
		fmt.Fprintf(&b, "%s2a3 %s\n", linePrefix, clip(twoA3, off, end))
	}
	b.WriteString("#\n")
	return b.String()
}

// Render uses DefaultOptions.
func Render(rec seq.Record, preds []assemble.Prediction) string {
	return RenderWithOptions(rec, preds, DefaultOptions)
}

func clip(track []byte, lo, hi int) string {
	if lo >= len(track) {
		return ""
	}
	if hi > len(track) {
		hi = len(track)
	}
	return string(track[lo:hi])
}
