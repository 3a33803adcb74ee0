package datastructure

import (
	"github.com/raviteja-g/optiroute/pkg/geo"
)

// SearchResult is the raw output of one strategy search. never mutated after
// creation.
type SearchResult struct {
	nodes []Index // origin .. destination
	edges []Index // edge traversed per hop, len(nodes)-1

	totalDistance   float64 // meters
	totalTime       float64 // seconds
	totalCongestion float64 // sum of score * length_km per traversed edge
}

func NewSearchResult(nodes, edges []Index, totalDistance, totalTime, totalCongestion float64) SearchResult {
	return SearchResult{
		nodes:           nodes,
		edges:           edges,
		totalDistance:   totalDistance,
		totalTime:       totalTime,
		totalCongestion: totalCongestion,
	}
}

func (sr SearchResult) GetNodes() []Index {
	return sr.nodes
}

func (sr SearchResult) GetEdges() []Index {
	return sr.edges
}

func (sr SearchResult) GetTotalDistance() float64 {
	return sr.totalDistance
}

func (sr SearchResult) GetTotalTime() float64 {
	return sr.totalTime
}

func (sr SearchResult) GetTotalCongestion() float64 {
	return sr.totalCongestion
}

// RouteSummary is the comparable per-strategy route handed to the presentation
// layer.
type RouteSummary struct {
	Label         string           `json:"label"`
	Coordinates   []geo.Coordinate `json:"coordinates"`
	Polyline      string           `json:"polyline"`
	DistanceKM    float64          `json:"distance_km"`
	EtaMinutes    float64          `json:"eta_minutes"`
	AvgCongestion float64          `json:"avg_congestion"`
}
