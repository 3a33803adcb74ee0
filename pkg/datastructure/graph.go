package datastructure

import (
	"fmt"

	"github.com/raviteja-g/optiroute/pkg"
	"github.com/raviteja-g/optiroute/pkg/geo"
)

type Index uint32

const (
	INVALID_INDEX Index = ^Index(0)
)

// Node is a road intersection. immutable once the graph is built.
type Node struct {
	id  Index
	lat float64
	lon float64
}

func NewNode(id Index, lat, lon float64) Node {
	return Node{id: id, lat: lat, lon: lon}
}

func (n Node) GetId() Index {
	return n.id
}

func (n Node) GetLat() float64 {
	return n.lat
}

func (n Node) GetLon() float64 {
	return n.lon
}

func (n Node) GetCoordinate() geo.Coordinate {
	return geo.NewCoordinate(n.lat, n.lon)
}

// Edge is a directed road segment. congestion is the only mutable attribute and
// is only ever written on a per-query clone of the graph, never on a cached one.
type Edge struct {
	id         Index
	from       Index
	to         Index
	length     float64 // meters
	travelTime float64 // free-flow seconds
	class      pkg.RoadClass
	congestion float64 // [0,1], 0 = free flow
}

func NewEdge(id, from, to Index, lengthM, travelTimeS float64, class pkg.RoadClass) Edge {
	return Edge{
		id:         id,
		from:       from,
		to:         to,
		length:     lengthM,
		travelTime: travelTimeS,
		class:      class,
	}
}

func (e *Edge) GetId() Index {
	return e.id
}

func (e *Edge) GetFrom() Index {
	return e.from
}

func (e *Edge) GetTo() Index {
	return e.to
}

func (e *Edge) GetLength() float64 {
	return e.length
}

func (e *Edge) GetTravelTime() float64 {
	return e.travelTime
}

func (e *Edge) GetRoadClass() pkg.RoadClass {
	return e.class
}

func (e *Edge) GetCongestion() float64 {
	return e.congestion
}

// Graph owns the full node & edge set for one query region. neighbor iteration
// is O(degree) and read-only.
type Graph struct {
	nodes []Node
	edges []Edge
	out   [][]Index // node id -> outgoing edge ids, in insertion order
	bbox  BoundingBox
}

// NewGraph validates the invariants: every edge references nodes that exist in
// the same graph instance, weights are non-negative.
func NewGraph(nodes []Node, edges []Edge, bbox BoundingBox) (*Graph, error) {
	out := make([][]Index, len(nodes))
	for i := range edges {
		e := &edges[i]
		if int(e.from) >= len(nodes) || int(e.to) >= len(nodes) {
			return nil, fmt.Errorf("edge %d references missing node (%d -> %d)", e.id, e.from, e.to)
		}
		if e.length < 0 || e.travelTime < 0 {
			return nil, fmt.Errorf("edge %d has negative weight", e.id)
		}
		out[e.from] = append(out[e.from], e.id)
	}
	return &Graph{
		nodes: nodes,
		edges: edges,
		out:   out,
		bbox:  bbox,
	}, nil
}

func (g *Graph) NumberOfVertices() int {
	return len(g.nodes)
}

func (g *Graph) NumberOfEdges() int {
	return len(g.edges)
}

func (g *Graph) GetBoundingBox() BoundingBox {
	return g.bbox
}

func (g *Graph) HasNode(id Index) bool {
	return int(id) < len(g.nodes)
}

func (g *Graph) GetNode(id Index) Node {
	return g.nodes[id]
}

func (g *Graph) GetEdge(id Index) *Edge {
	return &g.edges[id]
}

func (g *Graph) GetVertexCoordinates(id Index) (float64, float64) {
	n := g.nodes[id]
	return n.lat, n.lon
}

// ForOutEdgesOf iterates the outgoing edges of u in insertion order. O(degree),
// never mutates the graph.
func (g *Graph) ForOutEdgesOf(u Index, fn func(e *Edge)) {
	for _, eid := range g.out[u] {
		fn(&g.edges[eid])
	}
}

// ForNodes iterates every node in id order.
func (g *Graph) ForNodes(fn func(n Node)) {
	for _, n := range g.nodes {
		fn(n)
	}
}

// ForEdges iterates every edge in id order.
func (g *Graph) ForEdges(fn func(e *Edge)) {
	for i := range g.edges {
		fn(&g.edges[i])
	}
}

// CloneForQuery copies the edge set so a traffic snapshot can be applied
// without touching the shared cached graph. nodes and adjacency are immutable
// and shared.
func (g *Graph) CloneForQuery() *Graph {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return &Graph{
		nodes: g.nodes,
		edges: edges,
		out:   g.out,
		bbox:  g.bbox,
	}
}

// SetCongestion writes a congestion score onto an edge. call only on a
// per-query clone.
func (g *Graph) SetCongestion(edgeId Index, score float64) {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	g.edges[edgeId].congestion = score
}
