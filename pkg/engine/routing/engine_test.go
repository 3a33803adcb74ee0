package routing

import (
	"context"
	"testing"
	"time"

	"github.com/raviteja-g/optiroute/pkg"
	"github.com/raviteja-g/optiroute/pkg/costfunction"
	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"github.com/raviteja-g/optiroute/pkg/traffic"
	"github.com/raviteja-g/optiroute/pkg/util"
	"go.uber.org/zap"
)

func newTestEngine() *Engine {
	annotator := traffic.NewAnnotator(nil, zap.NewNop())
	annotator.SetClock(func() time.Time {
		return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	})
	return NewEngine(annotator, costfunction.NewBuilder(), nil, zap.NewNop())
}

func TestComputeRoutesFixedOrder(t *testing.T) {
	g := corridorGraph(t)
	en := newTestEngine()

	routes, err := en.ComputeRoutes(context.Background(), g, 0, 4, traffic.Simulated)
	if err != nil {
		t.Fatalf("compute routes: %v", err)
	}

	want := costfunction.Strategies()
	if len(routes) != len(want) {
		t.Fatalf("got %d routes, want %d", len(routes), len(want))
	}
	for i, r := range routes {
		if r.Strategy != want[i] {
			t.Fatalf("slot %d holds %s, want %s", i, r.Strategy, want[i])
		}
		if r.Result == nil {
			t.Fatalf("slot %d (%s) has no result on a connected graph", i, r.Strategy)
		}
	}
}

func TestComputeRoutesLeavesCachedGraphUntouched(t *testing.T) {
	g := corridorGraph(t)
	en := newTestEngine()

	if _, err := en.ComputeRoutes(context.Background(), g, 0, 4, traffic.Simulated); err != nil {
		t.Fatalf("compute routes: %v", err)
	}

	g.ForEdges(func(e *da.Edge) {
		if e.GetCongestion() != 0 {
			t.Fatalf("edge %d on the shared graph was annotated (congestion %f)",
				e.GetId(), e.GetCongestion())
		}
	})
}

func TestComputeRoutesDistanceOptimality(t *testing.T) {
	g := corridorGraph(t)
	en := newTestEngine()

	routes, err := en.ComputeRoutes(context.Background(), g, 0, 4, traffic.Simulated)
	if err != nil {
		t.Fatalf("compute routes: %v", err)
	}

	shortest := routes[3] // DistanceOptimized slot
	if shortest.Strategy != costfunction.DistanceOptimized {
		t.Fatalf("slot 3 holds %s", shortest.Strategy)
	}
	for _, r := range routes[:3] {
		if r.Result == nil {
			continue
		}
		if shortest.Result.GetTotalDistance() > r.Result.GetTotalDistance()+1e-9 {
			t.Fatalf("distance-optimized route (%.1fm) longer than %s (%.1fm)",
				shortest.Result.GetTotalDistance(), r.Strategy, r.Result.GetTotalDistance())
		}
	}
}

func TestComputeRoutesDeterministicAcrossRuns(t *testing.T) {
	g := corridorGraph(t)
	en := newTestEngine()

	first, err := en.ComputeRoutes(context.Background(), g, 0, 4, traffic.Simulated)
	if err != nil {
		t.Fatalf("compute routes: %v", err)
	}

	for run := 0; run < 3; run++ {
		again, err := en.ComputeRoutes(context.Background(), g, 0, 4, traffic.Simulated)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		for i := range first {
			if !nodesEqual(first[i].Result.GetNodes(), again[i].Result.GetNodes()) {
				t.Fatalf("run %d slot %d: path %v differs from %v",
					run, i, again[i].Result.GetNodes(), first[i].Result.GetNodes())
			}
			if first[i].Result.GetTotalCongestion() != again[i].Result.GetTotalCongestion() {
				t.Fatalf("run %d slot %d: congestion totals differ", run, i)
			}
		}
	}
}

func TestComputeRoutesInvalidEndpoint(t *testing.T) {
	g := corridorGraph(t)
	en := newTestEngine()

	_, err := en.ComputeRoutes(context.Background(), g, 0, 42, traffic.Simulated)
	if util.ErrorCode(err) != ErrInvalidEndpoint {
		t.Fatalf("error = %v, want ErrInvalidEndpoint", err)
	}
}

func TestComputeRoutesPartialNoPath(t *testing.T) {
	// destination reachable from nothing: every strategy fails, the call itself
	// still succeeds with four empty slots
	nodes := []da.Node{da.NewNode(0, 0, 0), da.NewNode(1, 0, 0.01)}
	edges := []da.Edge{da.NewEdge(0, 1, 0, 1112, 100, pkg.RESIDENTIAL)}
	g, err := da.NewGraph(nodes, edges, da.BoundingBox{})
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}

	en := newTestEngine()
	routes, err := en.ComputeRoutes(context.Background(), g, 0, 1, traffic.Simulated)
	if err != nil {
		t.Fatalf("compute routes: %v", err)
	}
	for i, r := range routes {
		if r.Result != nil {
			t.Fatalf("slot %d has a result on a disconnected pair", i)
		}
		if util.ErrorCode(r.Err) != ErrNoPathFound {
			t.Fatalf("slot %d error = %v, want ErrNoPathFound", i, r.Err)
		}
	}
}
