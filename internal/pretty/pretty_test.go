// internal/pretty/pretty_test.go
package pretty

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ribopred-core/assemble"
	"ribopred-core/seq"
)

func TestShadeSaturates(t *testing.T) {
	ramp := DefaultOptions.Ramp
	assert.Equal(t, ramp[0], shade(0, ramp))
	assert.Equal(t, ramp[0], shade(-3, ramp))
	assert.Equal(t, ramp[0], shade(math.NaN(), ramp))
	assert.Equal(t, ramp[len(ramp)-1], shade(1, ramp))
	assert.Equal(t, ramp[len(ramp)-1], shade(7, ramp))
}

func TestRenderTracksAlign(t *testing.T) {
	rec := seq.Record{SequenceID: "r1", Seq: "ACGU", IDMin: 0, IDMax: 3}
	preds := []assemble.Prediction{
		{ID: 0, DMS: 0, TwoA3: 1},
		{ID: 1, DMS: 1, TwoA3: 0},
		{ID: 2, DMS: 0.5, TwoA3: 0.5},
		{ID: 3, DMS: 0, TwoA3: 0},
	}
	got := Render(rec, preds)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	assert.Len(t, lines, 5)
	assert.Equal(t, "# seq ACGU", lines[1])
	assert.Equal(t, "# dms  @+ ", lines[2])
	assert.Equal(t, "# 2a3 @ + ", lines[3])
	assert.Equal(t, "#", lines[4])
}

func TestRenderWraps(t *testing.T) {
	rec := seq.Record{SequenceID: "r", Seq: strings.Repeat("A", 7), IDMin: 0, IDMax: 6}
	preds := make([]assemble.Prediction, 7)
	got := RenderWithOptions(rec, preds, Options{Width: 4})
	// Header + two blocks of three lines + trailing spacer.
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	assert.Len(t, lines, 8)
	assert.Equal(t, "# seq AAAA", lines[1])
	assert.Equal(t, "# seq AAA", lines[4])
}
