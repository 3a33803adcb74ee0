package routing

import (
	"context"
	"errors"

	"github.com/raviteja-g/optiroute/pkg"
	"github.com/raviteja-g/optiroute/pkg/costfunction"
	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"github.com/raviteja-g/optiroute/pkg/util"
)

var (
	ErrNoPathFound     = errors.New("destination unreachable from origin")
	ErrInvalidEndpoint = errors.New("endpoint id not in graph")
)

// Search runs a* from origin to destination over the annotated graph.
//
// frontier is priority-ordered by g + heuristic; ties break on lower
// accumulated physical distance, so identical inputs always yield identical
// output paths. dijkstra is the degenerate case with the zero
// heuristic. success when the destination is popped; ErrNoPathFound once the
// frontier is provably exhausted. cooperatively cancellable between frontier
// expansions.
func Search(ctx context.Context, g *da.Graph, origin, destination da.Index,
	edgeCost costfunction.EdgeCostFunc, heuristic costfunction.HeuristicFunc) (da.SearchResult, error) {

	if !g.HasNode(origin) || !g.HasNode(destination) {
		return da.SearchResult{}, util.WrapErrorf(nil, ErrInvalidEndpoint,
			"endpoints %d -> %d outside graph with %d nodes", origin, destination, g.NumberOfVertices())
	}

	n := g.NumberOfVertices()
	gScore := make([]float64, n)
	distScore := make([]float64, n)
	for i := range gScore {
		gScore[i] = pkg.INF_WEIGHT
		distScore[i] = pkg.INF_WEIGHT
	}
	prevEdge := make([]da.Index, n)
	for i := range prevEdge {
		prevEdge[i] = da.INVALID_INDEX
	}
	heapNodes := make([]*da.PriorityQueueNode[da.Index], n)
	settled := make([]bool, n)

	pq := da.NewFourAryHeap[da.Index]()
	gScore[origin] = 0
	distScore[origin] = 0
	heapNodes[origin] = da.NewPriorityQueueNode(heuristic(g.GetNode(origin)), 0, origin)
	pq.Insert(heapNodes[origin])

	for !pq.IsEmpty() {
		if util.StopConcurrentOperation(ctx) {
			return da.SearchResult{}, ctx.Err()
		}

		minNode, _ := pq.ExtractMin()
		u := minNode.GetItem()
		if settled[u] {
			continue
		}
		settled[u] = true

		if u == destination {
			return reconstructPath(g, origin, destination, prevEdge), nil
		}

		g.ForOutEdgesOf(u, func(e *da.Edge) {
			v := e.GetTo()
			if settled[v] {
				return
			}

			newCost := gScore[u] + edgeCost(e)
			newDist := distScore[u] + e.GetLength()
			if newCost >= pkg.INF_WEIGHT {
				return
			}

			better := newCost < gScore[v] ||
				(newCost == gScore[v] && newDist < distScore[v])
			if !better {
				return
			}

			gScore[v] = newCost
			distScore[v] = newDist
			prevEdge[v] = e.GetId()

			priority := newCost + heuristic(g.GetNode(v))
			if heapNodes[v] != nil && heapNodes[v].GetPos() >= 0 {
				pq.DecreaseKey(heapNodes[v], priority, newDist)
			} else {
				heapNodes[v] = da.NewPriorityQueueNode(priority, newDist, v)
				pq.Insert(heapNodes[v])
			}
		})
	}

	return da.SearchResult{}, util.WrapErrorf(nil, ErrNoPathFound,
		"frontier exhausted before reaching %d from %d", destination, origin)
}

func reconstructPath(g *da.Graph, origin, destination da.Index, prevEdge []da.Index) da.SearchResult {
	var (
		nodes     []da.Index
		edges     []da.Index
		totalDist float64
		totalTime float64
		totalCong float64
	)

	cur := destination
	nodes = append(nodes, cur)
	for cur != origin {
		e := g.GetEdge(prevEdge[cur])
		edges = append(edges, e.GetId())
		totalDist += e.GetLength()
		totalTime += e.GetTravelTime()
		totalCong += e.GetCongestion() * e.GetLength() / pkg.METERS_PER_KM
		cur = e.GetFrom()
		nodes = append(nodes, cur)
	}

	return da.NewSearchResult(util.ReverseG(nodes), util.ReverseG(edges),
		totalDist, totalTime, totalCong)
}
