package spatialindex

import (
	"testing"

	"github.com/raviteja-g/optiroute/pkg"
	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"github.com/raviteja-g/optiroute/pkg/geo"
	"github.com/raviteja-g/optiroute/pkg/util"
	"go.uber.org/zap"
)

func indexedGraph(t *testing.T) *da.Graph {
	t.Helper()
	// an east-west street at lat 0 and a parallel one ~1.1km north
	nodes := []da.Node{
		da.NewNode(0, 0, 0),
		da.NewNode(1, 0, 0.02),
		da.NewNode(2, 0.01, 0),
		da.NewNode(3, 0.01, 0.02),
	}
	edges := []da.Edge{
		da.NewEdge(0, 0, 1, 2224, 200, pkg.RESIDENTIAL),
		da.NewEdge(1, 2, 3, 2224, 200, pkg.RESIDENTIAL),
	}
	g, err := da.NewGraph(nodes, edges, da.BoundingBox{})
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g
}

func TestNearestNodeSnapsToCloserEndpoint(t *testing.T) {
	g := indexedGraph(t)
	rt := NewRtree()
	rt.Build(g, 30, zap.NewNop())

	// just south of the southern street, near its western end
	got, err := rt.NearestNode(geo.NewCoordinate(-0.0005, 0.004), 300)
	if err != nil {
		t.Fatalf("nearest node: %v", err)
	}
	if got != 0 {
		t.Fatalf("snapped to node %d, want 0", got)
	}

	// near the eastern end of the northern street
	got, err = rt.NearestNode(geo.NewCoordinate(0.0105, 0.019), 300)
	if err != nil {
		t.Fatalf("nearest node: %v", err)
	}
	if got != 3 {
		t.Fatalf("snapped to node %d, want 3", got)
	}
}

func TestNearestNodeBeyondSnapDistance(t *testing.T) {
	g := indexedGraph(t)
	rt := NewRtree()
	rt.Build(g, 30, zap.NewNop())

	// ~5.5km away from anything
	_, err := rt.NearestNode(geo.NewCoordinate(0.05, 0.05), 300)
	if util.ErrorCode(err) != ErrNoNodeFound {
		t.Fatalf("error = %v, want ErrNoNodeFound", err)
	}
}

func TestNearestNodeDeterministic(t *testing.T) {
	g := indexedGraph(t)
	rt := NewRtree()
	rt.Build(g, 30, zap.NewNop())

	c := geo.NewCoordinate(0.005, 0.01) // midway between the two streets
	first, err := rt.NearestNode(c, 1000)
	if err != nil {
		t.Fatalf("nearest node: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := rt.NearestNode(c, 1000)
		if err != nil {
			t.Fatalf("nearest node: %v", err)
		}
		if again != first {
			t.Fatalf("run %d: snapped to %d, first run %d", i, again, first)
		}
	}
}
