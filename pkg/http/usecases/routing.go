package usecases

import (
	"context"
	"sync"

	"github.com/raviteja-g/optiroute/pkg/assembler"
	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"github.com/raviteja-g/optiroute/pkg/geo"
	"github.com/raviteja-g/optiroute/pkg/spatialindex"
	"github.com/raviteja-g/optiroute/pkg/util"
	"go.uber.org/zap"
)

const (
	// region buffer: 75% of the straight-line distance plus 5km, so the graph
	// comfortably covers detours around the corridor
	bboxBufferRatio = 0.75
	bboxBufferMinM  = 5000.0
)

// RoutingService orchestrates one route request: geocode, cached graph build,
// endpoint snapping, the four strategy searches, assembly.
type RoutingService struct {
	log      *zap.Logger
	regions  RegionProvider
	engine   RouteComputer
	geocoder Geocoder

	snapMaxM  float64
	indexPadM float64
	indexFor  func(g *da.Graph) NodeSnapper

	mu      sync.Mutex
	indexes map[string]indexEntry
}

// indexEntry pins the snap index to the graph instance it was built from. a
// fresh graph for the same region key (cache expiry, rebuild) invalidates it.
type indexEntry struct {
	graph   *da.Graph
	snapper NodeSnapper
}

func NewRoutingService(log *zap.Logger, regions RegionProvider, engine RouteComputer,
	geocoder Geocoder, snapMaxM, indexPadM float64) *RoutingService {
	rs := &RoutingService{
		log:       log,
		regions:   regions,
		engine:    engine,
		geocoder:  geocoder,
		snapMaxM:  snapMaxM,
		indexPadM: indexPadM,
		indexes:   make(map[string]indexEntry),
	}
	rs.indexFor = func(g *da.Graph) NodeSnapper {
		idx := spatialindex.NewRtree()
		idx.Build(g, indexPadM, log)
		return idx
	}
	return rs
}

// ComputeRoutes returns one summary slot per strategy in fixed order. slots are
// nil for strategies that found no path; the caller decides how to present a
// partial set. graph construction, geocoding and snapping failures are fatal to
// the whole request.
func (rs *RoutingService) ComputeRoutes(ctx context.Context, req RouteRequest) ([]*da.RouteSummary, error) {
	origin, destination, err := rs.resolveEndpoints(ctx, req)
	if err != nil {
		return nil, err
	}

	straightM := geo.CalculateHaversineDistance(origin.Lat, origin.Lon, destination.Lat, destination.Lon)
	bbox := da.BoundingBoxAround(origin, destination, straightM*bboxBufferRatio+bboxBufferMinM)

	g, err := rs.regions.Get(ctx, bbox)
	if err != nil {
		return nil, err
	}

	snapper := rs.snapperFor(bbox.Key(), g)
	originId, err := snapper.NearestNode(origin, rs.snapMaxM)
	if err != nil {
		return nil, err
	}
	destinationId, err := snapper.NearestNode(destination, rs.snapMaxM)
	if err != nil {
		return nil, err
	}

	routes, err := rs.engine.ComputeRoutes(ctx, g, originId, destinationId, req.TrafficMode)
	if err != nil {
		return nil, err
	}

	summaries := make([]*da.RouteSummary, len(routes))
	for i, r := range routes {
		if r.Result == nil {
			continue
		}
		s := assembler.Assemble(g, r.Strategy, *r.Result)
		summaries[i] = &s
	}

	return summaries, nil
}

// snapperFor returns the snap index for the region, building it at most once
// per cached graph. cached graphs are immutable, so the index stays valid for
// as long as the region cache keeps serving the same instance.
func (rs *RoutingService) snapperFor(key string, g *da.Graph) NodeSnapper {
	rs.mu.Lock()
	if e, ok := rs.indexes[key]; ok && e.graph == g {
		rs.mu.Unlock()
		return e.snapper
	}
	rs.mu.Unlock()

	snapper := rs.indexFor(g)

	rs.mu.Lock()
	rs.indexes[key] = indexEntry{graph: g, snapper: snapper}
	rs.mu.Unlock()
	return snapper
}

func (rs *RoutingService) resolveEndpoints(ctx context.Context, req RouteRequest) (geo.Coordinate, geo.Coordinate, error) {
	if req.Origin != nil && req.Destination != nil {
		return *req.Origin, *req.Destination, nil
	}

	if rs.geocoder == nil {
		return geo.Coordinate{}, geo.Coordinate{}, util.WrapErrorf(nil, util.ErrBadParamInput,
			"no coordinates given and no geocoder configured")
	}

	origin, err := rs.geocoder.ResolveAddress(ctx, req.OriginAddress, req.Area)
	if err != nil {
		return geo.Coordinate{}, geo.Coordinate{}, err
	}
	destination, err := rs.geocoder.ResolveAddress(ctx, req.DestinationAddress, req.Area)
	if err != nil {
		return geo.Coordinate{}, geo.Coordinate{}, err
	}
	return origin, destination, nil
}
