// internal/common/resolver_test.go
package common

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ribopred-core/assemble"
	"ribopred-core/seq"
)

func TestResolver(t *testing.T) {
	r := NewResolver([]seq.Record{
		{SequenceID: "b", Seq: "GG", IDMin: 10, IDMax: 11},
		{SequenceID: "a", Seq: "ACGU", IDMin: 0, IDMax: 3},
	})

	assert.Equal(t, "a", r.SequenceID(0))
	assert.Equal(t, "a", r.SequenceID(3))
	assert.Equal(t, "b", r.SequenceID(11))
	assert.Equal(t, "", r.SequenceID(5), "gap between ranges")
	assert.Equal(t, "", r.SequenceID(12))
}

func TestSortPredictions(t *testing.T) {
	ps := []assemble.Prediction{{ID: 4}, {ID: 0}, {ID: 2}}
	SortPredictions(ps)
	assert.Equal(t, int64(0), ps[0].ID)
	assert.Equal(t, int64(2), ps[1].ID)
	assert.Equal(t, int64(4), ps[2].ID)
}
