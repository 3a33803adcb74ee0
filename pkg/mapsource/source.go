package mapsource

import (
	"context"
	"errors"

	"github.com/raviteja-g/optiroute/pkg"
	"github.com/raviteja-g/optiroute/pkg/datastructure"
	"github.com/raviteja-g/optiroute/pkg/geo"
)

var (
	ErrRegionUnavailable = errors.New("map source returned no data for the region")
	ErrRegionTooLarge    = errors.New("region exceeds the configured node/edge ceiling")
)

// RawNode is one osm node of the fetched geometry, keyed by its provider id.
type RawNode struct {
	OsmId int64
	Coord geo.Coordinate
}

// RawWay is one drivable osm way: an ordered node-id sequence plus routing
// attributes.
type RawWay struct {
	NodeIds  []int64
	Class    pkg.RoadClass
	SpeedKMH float64
	OneWay   bool
}

// RawNetwork is the geometry returned by the map-data collaborator for one
// bounding region.
type RawNetwork struct {
	Nodes map[int64]RawNode
	Ways  []RawWay
}

// NetworkSource fetches raw road geometry for a bounding region. treated as a
// black box by the rest of the engine.
type NetworkSource interface {
	FetchNetwork(ctx context.Context, bbox datastructure.BoundingBox) (*RawNetwork, error)
}
