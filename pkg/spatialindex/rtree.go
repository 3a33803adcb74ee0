package spatialindex

import (
	"errors"
	"math"

	"github.com/raviteja-g/optiroute/pkg/datastructure"
	"github.com/raviteja-g/optiroute/pkg/geo"
	"github.com/raviteja-g/optiroute/pkg/util"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

var (
	ErrNoNodeFound = errors.New("no graph node within the snap distance")
)

type edgeRef struct {
	edgeId datastructure.Index
}

// Rtree indexes the graph's edges so geocoded coordinates can be snapped onto
// the nearest road. built once per graph, read-only afterwards.
type Rtree struct {
	tr    *rtree.RTreeG[edgeRef]
	graph *datastructure.Graph
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[edgeRef]
	return &Rtree{
		tr: &tr,
	}
}

// Build indexes every edge under the bounding box of its two endpoints, padded
// by padM meters so short segments are still findable.
func (rt *Rtree) Build(graph *datastructure.Graph, padM float64, log *zap.Logger) {
	log.Info("building r-tree spatial index", zap.Int("edges", graph.NumberOfEdges()))
	rt.graph = graph

	graph.ForEdges(func(e *datastructure.Edge) {
		fromLat, fromLon := graph.GetVertexCoordinates(e.GetFrom())
		toLat, toLon := graph.GetVertexCoordinates(e.GetTo())

		lowerFromLat, lowerFromLon := geo.GetDestinationPoint(fromLat, fromLon, 225, padM)
		upperFromLat, upperFromLon := geo.GetDestinationPoint(fromLat, fromLon, 45, padM)
		lowerToLat, lowerToLon := geo.GetDestinationPoint(toLat, toLon, 225, padM)
		upperToLat, upperToLon := geo.GetDestinationPoint(toLat, toLon, 45, padM)

		minLat := math.Min(lowerFromLat, lowerToLat)
		minLon := math.Min(lowerFromLon, lowerToLon)
		maxLat := math.Max(upperFromLat, upperToLat)
		maxLon := math.Max(upperFromLon, upperToLon)

		rt.tr.Insert([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat},
			edgeRef{edgeId: e.GetId()})
	})

	log.Info("r-tree spatial index built")
}

// NearestNode snaps the coordinate onto the closest road segment within
// maxSnapM meters and returns the nearer endpoint of that segment. fails with
// ErrNoNodeFound when nothing is within the snap distance.
func (rt *Rtree) NearestNode(c geo.Coordinate, maxSnapM float64) (datastructure.Index, error) {
	lowerLat, lowerLon := geo.GetDestinationPoint(c.Lat, c.Lon, 225, maxSnapM)
	upperLat, upperLon := geo.GetDestinationPoint(c.Lat, c.Lon, 45, maxSnapM)

	bestEdge := datastructure.INVALID_INDEX
	bestDist := math.Inf(1)

	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, ref edgeRef) bool {
			e := rt.graph.GetEdge(ref.edgeId)
			fromLat, fromLon := rt.graph.GetVertexCoordinates(e.GetFrom())
			toLat, toLon := rt.graph.GetVertexCoordinates(e.GetTo())

			d := geo.PointLinePerpendicularDistance(
				geo.NewCoordinate(fromLat, fromLon),
				geo.NewCoordinate(toLat, toLon), c)

			// deterministic pick: strictly closer, or equal distance with
			// lower edge id
			if d < bestDist || (d == bestDist && ref.edgeId < bestEdge) {
				bestDist = d
				bestEdge = ref.edgeId
			}
			return true
		})

	if bestEdge == datastructure.INVALID_INDEX || bestDist > maxSnapM {
		return datastructure.INVALID_INDEX, util.WrapErrorf(nil, ErrNoNodeFound,
			"no road within %.0fm of %f,%f", maxSnapM, c.Lat, c.Lon)
	}

	e := rt.graph.GetEdge(bestEdge)
	fromLat, fromLon := rt.graph.GetVertexCoordinates(e.GetFrom())
	toLat, toLon := rt.graph.GetVertexCoordinates(e.GetTo())

	distFrom := geo.CalculateHaversineDistance(c.Lat, c.Lon, fromLat, fromLon)
	distTo := geo.CalculateHaversineDistance(c.Lat, c.Lon, toLat, toLon)
	if distTo < distFrom {
		return e.GetTo(), nil
	}
	return e.GetFrom(), nil
}
