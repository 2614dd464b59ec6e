// internal/visitors/stats.go
package visitors

import (
	"github.com/montanaflynn/stats"

	"ribopred-core/assemble"
	"ribopred/internal/common"
	"ribopred/pkg/api"
)

// Stats observes predictions and accumulates per-sequence reactivity
// summaries. Observe-only: it never filters or rewrites the stream.
// Not safe for concurrent use; the pipeline visits from one goroutine.
type Stats struct {
	resolver *common.Resolver
	order    []string
	perSeq   map[string]*seqAccum
}

type seqAccum struct {
	dms, twoA3 []float64
}

// NewStats builds a stats collector over the run's record set.
func NewStats(resolver *common.Resolver) *Stats {
	return &Stats{resolver: resolver, perSeq: make(map[string]*seqAccum)}
}

// Observe records one prediction. Predictions with no owning record
// are attributed to the empty key rather than dropped.
func (s *Stats) Observe(p assemble.Prediction) {
	key := s.resolver.SequenceID(p.ID)
	acc, ok := s.perSeq[key]
	if !ok {
		acc = &seqAccum{}
		s.perSeq[key] = acc
		s.order = append(s.order, key)
	}
	acc.dms = append(acc.dms, p.DMS)
	acc.twoA3 = append(acc.twoA3, p.TwoA3)
}

// Rows summarizes every observed sequence, in first-seen order.
func (s *Stats) Rows() []api.SequenceStatsV1 {
	rows := make([]api.SequenceStatsV1, 0, len(s.order))
	for _, key := range s.order {
		acc := s.perSeq[key]
		meanDMS, _ := stats.Mean(acc.dms)
		maxDMS, _ := stats.Max(acc.dms)
		mean2A3, _ := stats.Mean(acc.twoA3)
		max2A3, _ := stats.Max(acc.twoA3)
		rows = append(rows, api.SequenceStatsV1{
			SequenceID: key,
			Positions:  len(acc.dms),
			MeanDMS:    meanDMS,
			MaxDMS:     maxDMS,
			Mean2A3:    mean2A3,
			Max2A3:     max2A3,
		})
	}
	return rows
}
