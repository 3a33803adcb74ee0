package traffic

import (
	"hash/fnv"

	"github.com/raviteja-g/optiroute/pkg"
	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"golang.org/x/exp/rand"
)

// congestion levels mirror the three-level scheme of the live feed mapping:
// light / medium / heavy, normalized into [0,1].
const (
	lightScore  = 0.1
	mediumScore = 0.5
	heavyScore  = 0.9

	jitterRange = 0.08
)

// IsRushHour reports whether the hour falls in the morning or evening peak.
func IsRushHour(hour int) bool {
	return (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19)
}

func simulationSeed(edgeId da.Index, hour int) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	buf[0] = byte(edgeId)
	buf[1] = byte(edgeId >> 8)
	buf[2] = byte(edgeId >> 16)
	buf[3] = byte(edgeId >> 24)
	if IsRushHour(hour) {
		buf[4] = 1
	}
	h.Write(buf[:5])
	return h.Sum64()
}

// SimulatedScore derives a deterministic-but-varied congestion score from the
// edge's road class, the time-of-day bucket and bounded jitter seeded by the
// edge id. repeated calls with the same edge and bucket always agree.
func SimulatedScore(e *da.Edge, hour int) float64 {
	rush := IsRushHour(hour)
	major := pkg.IsMajorRoad(e.GetRoadClass())

	heavyProb, mediumProb := 0.3, 0.5
	if rush && major {
		heavyProb, mediumProb = 0.7, 0.2
	}

	rng := rand.New(rand.NewSource(simulationSeed(e.GetId(), hour)))
	roll := rng.Float64()

	var base float64
	switch {
	case roll < heavyProb:
		base = heavyScore
	case roll < heavyProb+mediumProb:
		base = mediumScore
	default:
		base = lightScore
	}

	jitter := (rng.Float64()*2 - 1) * jitterRange
	score := base + jitter
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
