package usecases

import (
	"context"

	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"github.com/raviteja-g/optiroute/pkg/engine/routing"
	"github.com/raviteja-g/optiroute/pkg/geo"
	"github.com/raviteja-g/optiroute/pkg/traffic"
)

// RouteRequest is one inbound route computation. endpoints arrive either as
// coordinates or as free-text addresses to geocode.
type RouteRequest struct {
	Origin      *geo.Coordinate
	Destination *geo.Coordinate

	OriginAddress      string
	DestinationAddress string
	Area               string

	TrafficMode traffic.Mode
}

// RegionProvider serves the (cached) road graph for a bounding region.
type RegionProvider interface {
	Get(ctx context.Context, bbox da.BoundingBox) (*da.Graph, error)
}

// RouteComputer is the multi-criteria search engine surface consumed here.
type RouteComputer interface {
	ComputeRoutes(ctx context.Context, g *da.Graph, origin, destination da.Index,
		mode traffic.Mode) ([]routing.StrategyRoute, error)
}

// Geocoder resolves a free-text address inside an area.
type Geocoder interface {
	ResolveAddress(ctx context.Context, address, area string) (geo.Coordinate, error)
}

// NodeSnapper maps a coordinate onto the nearest graph node.
type NodeSnapper interface {
	NearestNode(c geo.Coordinate, maxSnapM float64) (da.Index, error)
}
