package traffic

import (
	da "github.com/raviteja-g/optiroute/pkg/datastructure"
)

// Mode selects where the congestion scores come from.
type Mode uint8

const (
	Simulated Mode = iota
	Live
)

func ParseMode(s string) Mode {
	if s == "live" {
		return Live
	}
	return Simulated
}

// Snapshot maps edge id to a congestion score in [0,1], valid for the lifetime
// of one query. always a fresh mapping; the caller applies it to a per-query
// graph clone so concurrent queries against a shared cached graph never
// interfere.
type Snapshot struct {
	scores map[da.Index]float64
}

func NewSnapshot(size int) Snapshot {
	return Snapshot{scores: make(map[da.Index]float64, size)}
}

func (s Snapshot) set(edgeId da.Index, score float64) {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	s.scores[edgeId] = score
}

func (s Snapshot) Score(edgeId da.Index) (float64, bool) {
	v, ok := s.scores[edgeId]
	return v, ok
}

func (s Snapshot) Len() int {
	return len(s.scores)
}

// ApplyTo writes the scores onto the graph's edges. g must be a per-query
// clone, never a cached instance.
func (s Snapshot) ApplyTo(g *da.Graph) {
	for edgeId, score := range s.scores {
		g.SetCongestion(edgeId, score)
	}
}
