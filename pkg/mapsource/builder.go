package mapsource

import (
	"context"
	"sort"

	"github.com/raviteja-g/optiroute/pkg"
	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"github.com/raviteja-g/optiroute/pkg/geo"
	"github.com/raviteja-g/optiroute/pkg/util"
	"go.uber.org/zap"
)

// Builder turns raw provider geometry into a routing graph, guarding the
// configured region ceilings.
type Builder struct {
	source   NetworkSource
	maxNodes int
	maxEdges int
	log      *zap.Logger
}

func NewBuilder(source NetworkSource, maxNodes, maxEdges int, log *zap.Logger) *Builder {
	return &Builder{
		source:   source,
		maxNodes: maxNodes,
		maxEdges: maxEdges,
		log:      log,
	}
}

// Build fetches the region and assembles the directed weighted graph. fails
// with ErrRegionUnavailable when the provider has nothing for the region and
// ErrRegionTooLarge when the node/edge counts exceed the ceilings.
func (b *Builder) Build(ctx context.Context, bbox da.BoundingBox) (*da.Graph, error) {
	raw, err := b.source.FetchNetwork(ctx, bbox)
	if err != nil {
		return nil, err
	}
	return b.BuildFromRaw(raw, bbox)
}

// BuildFromRaw assembles the graph from already-fetched geometry. node ids are
// densified in ascending provider-id order so rebuilds of the same region are
// deterministic.
func (b *Builder) BuildFromRaw(raw *RawNetwork, bbox da.BoundingBox) (*da.Graph, error) {
	if raw == nil || len(raw.Ways) == 0 {
		return nil, util.WrapErrorf(nil, ErrRegionUnavailable, "no drivable ways in region %s", bbox.Key())
	}

	used := make(map[int64]struct{})
	for _, w := range raw.Ways {
		for _, nid := range w.NodeIds {
			if _, ok := raw.Nodes[nid]; ok {
				used[nid] = struct{}{}
			}
		}
	}
	if len(used) == 0 {
		return nil, util.WrapErrorf(nil, ErrRegionUnavailable, "ways reference no known nodes in region %s", bbox.Key())
	}
	if b.maxNodes > 0 && len(used) > b.maxNodes {
		return nil, util.WrapErrorf(nil, ErrRegionTooLarge,
			"region %s has %d nodes, ceiling is %d", bbox.Key(), len(used), b.maxNodes)
	}

	osmIds := make([]int64, 0, len(used))
	for nid := range used {
		osmIds = append(osmIds, nid)
	}
	sort.Slice(osmIds, func(i, j int) bool { return osmIds[i] < osmIds[j] })

	idMap := make(map[int64]da.Index, len(osmIds))
	nodes := make([]da.Node, 0, len(osmIds))
	for i, nid := range osmIds {
		idMap[nid] = da.Index(i)
		nodes = append(nodes, da.NewNode(da.Index(i), raw.Nodes[nid].Coord.Lat, raw.Nodes[nid].Coord.Lon))
	}

	edges := make([]da.Edge, 0, len(raw.Ways)*2)
	addEdge := func(from, to da.Index, class pkg.RoadClass, speedKMH float64) {
		// the search heuristic lower-bounds remaining time at
		// MAX_PLAUSIBLE_SPEED_KMH; edge times must never undercut that bound
		if speedKMH > pkg.MAX_PLAUSIBLE_SPEED_KMH {
			speedKMH = pkg.MAX_PLAUSIBLE_SPEED_KMH
		}
		fromN, toN := nodes[from], nodes[to]
		length := geo.CalculateHaversineDistance(fromN.GetLat(), fromN.GetLon(), toN.GetLat(), toN.GetLon())
		travelTime := length / (speedKMH * pkg.KMH_TO_MS)
		edges = append(edges, da.NewEdge(da.Index(len(edges)), from, to, length, travelTime, class))
	}

	for _, w := range raw.Ways {
		for i := 0; i+1 < len(w.NodeIds); i++ {
			from, okF := idMap[w.NodeIds[i]]
			to, okT := idMap[w.NodeIds[i+1]]
			if !okF || !okT || from == to {
				continue
			}
			addEdge(from, to, w.Class, w.SpeedKMH)
			if !w.OneWay {
				addEdge(to, from, w.Class, w.SpeedKMH)
			}
		}
	}

	if len(edges) == 0 {
		return nil, util.WrapErrorf(nil, ErrRegionUnavailable, "region %s has no usable segments", bbox.Key())
	}
	if b.maxEdges > 0 && len(edges) > b.maxEdges {
		return nil, util.WrapErrorf(nil, ErrRegionTooLarge,
			"region %s has %d edges, ceiling is %d", bbox.Key(), len(edges), b.maxEdges)
	}

	g, err := da.NewGraph(nodes, edges, bbox)
	if err != nil {
		return nil, util.WrapErrorf(err, ErrRegionUnavailable, "assemble graph for region %s", bbox.Key())
	}

	b.log.Info("built road network graph",
		zap.String("region", bbox.Key()),
		zap.Int("nodes", g.NumberOfVertices()),
		zap.Int("edges", g.NumberOfEdges()))

	return g, nil
}
