package costfunction

import (
	"github.com/raviteja-g/optiroute/pkg"
	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"github.com/raviteja-g/optiroute/pkg/geo"
)

// Strategy is one weighted combination of travel time, distance and congestion.
// immutable, constructed once per search.
type Strategy uint8

const (
	Balanced Strategy = iota
	TimeOptimized
	TrafficAvoiding
	DistanceOptimized
)

// Strategies returns all strategies in the fixed presentation order.
func Strategies() []Strategy {
	return []Strategy{Balanced, TimeOptimized, TrafficAvoiding, DistanceOptimized}
}

func (s Strategy) String() string {
	switch s {
	case Balanced:
		return "Balanced"
	case TimeOptimized:
		return "Time-Optimized"
	case TrafficAvoiding:
		return "Traffic-Avoiding"
	case DistanceOptimized:
		return "Distance-Optimized"
	default:
		return "Unknown"
	}
}

// Weights returns (alpha time, beta distance, gamma congestion).
func (s Strategy) Weights() (float64, float64, float64) {
	switch s {
	case TimeOptimized:
		return 0.8, 0.1, 0.1
	case TrafficAvoiding:
		return 0.2, 0.1, 0.7
	case DistanceOptimized:
		return 0.0, 1.0, 0.0
	default: // Balanced
		return 0.4, 0.3, 0.3
	}
}

// EdgeCostFunc is the scalar composite cost of traversing one edge.
type EdgeCostFunc func(e *da.Edge) float64

// HeuristicFunc lower-bounds the remaining cost from a node to the fixed
// destination of the search.
type HeuristicFunc func(n da.Node) float64

// Builder produces the edge-cost function and heuristic for a strategy.
// components are normalized by fixed, query-independent constants (minutes,
// kilometers, score-kilometers) so identical sub-path costs never vary between
// queries.
type Builder struct {
	maxSpeedKMH float64
}

func NewBuilder() *Builder {
	return &Builder{maxSpeedKMH: pkg.MAX_PLAUSIBLE_SPEED_KMH}
}

// Build returns (edgeCost, heuristic) for the strategy and destination.
//
// cost = alpha * minutes + beta * km + gamma * congestion-weighted km.
// the heuristic scales great-circle distance by the strategy's alpha/beta blend
// over the maximum plausible speed, an admissible underestimate; the congestion
// term is lower-bounded by zero. DistanceOptimized gets the zero heuristic,
// making the search the plain shortest-distance (dijkstra) degenerate case of
// the same kernel.
func (b *Builder) Build(strategy Strategy, destination da.Node) (EdgeCostFunc, HeuristicFunc) {
	alpha, beta, gamma := strategy.Weights()

	edgeCost := func(e *da.Edge) float64 {
		timeComp := e.GetTravelTime() / pkg.SECONDS_PER_MINUTE
		distComp := e.GetLength() / pkg.METERS_PER_KM
		congComp := e.GetCongestion() * distComp
		return alpha*timeComp + beta*distComp + gamma*congComp
	}

	if strategy == DistanceOptimized {
		return edgeCost, func(da.Node) float64 { return 0 }
	}

	destLat, destLon := destination.GetLat(), destination.GetLon()
	maxSpeedMS := b.maxSpeedKMH * pkg.KMH_TO_MS

	heuristic := func(n da.Node) float64 {
		distM := geo.CalculateHaversineDistance(n.GetLat(), n.GetLon(), destLat, destLon)
		minTime := distM / maxSpeedMS / pkg.SECONDS_PER_MINUTE
		minDist := distM / pkg.METERS_PER_KM
		return alpha*minTime + beta*minDist
	}

	return edgeCost, heuristic
}
