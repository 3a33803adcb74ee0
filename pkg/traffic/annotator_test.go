package traffic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raviteja-g/optiroute/pkg"
	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"github.com/raviteja-g/optiroute/pkg/geo"
	"go.uber.org/zap"
)

func annotatorTestGraph(t *testing.T) *da.Graph {
	t.Helper()
	nodes := []da.Node{
		da.NewNode(0, -7.75, 110.37),
		da.NewNode(1, -7.76, 110.38),
		da.NewNode(2, -7.77, 110.39),
	}
	edges := []da.Edge{
		da.NewEdge(0, 0, 1, 1500, 135, pkg.PRIMARY),
		da.NewEdge(1, 1, 2, 1500, 135, pkg.RESIDENTIAL),
		da.NewEdge(2, 2, 0, 3000, 180, pkg.MOTORWAY),
	}
	g, err := da.NewGraph(nodes, edges, da.BoundingBox{})
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g
}

type fakeFeed struct {
	scores  map[da.Index]float64
	fail    bool
	calls   int
	skipIds map[da.Index]struct{}
}

func (f *fakeFeed) FetchCongestion(ctx context.Context, edges []*da.Edge,
	corridor geo.Coordinate) (map[da.Index]float64, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("upstream timeout")
	}
	out := make(map[da.Index]float64, len(edges))
	for _, e := range edges {
		if _, skip := f.skipIds[e.GetId()]; skip {
			continue
		}
		out[e.GetId()] = f.scores[e.GetId()]
	}
	return out, nil
}

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 3, 10, hour, 0, 0, 0, time.UTC)
	}
}

func TestAnnotateSimulatedCoversEveryEdge(t *testing.T) {
	g := annotatorTestGraph(t)
	a := NewAnnotator(nil, zap.NewNop())
	a.SetClock(fixedClock(8))

	snap := a.Annotate(context.Background(), g, Simulated)
	if snap.Len() != g.NumberOfEdges() {
		t.Fatalf("snapshot has %d scores, want %d", snap.Len(), g.NumberOfEdges())
	}

	snap.ApplyTo(g)
	g.ForEdges(func(e *da.Edge) {
		want, _ := snap.Score(e.GetId())
		if e.GetCongestion() != want {
			t.Fatalf("edge %d congestion %f, want %f", e.GetId(), e.GetCongestion(), want)
		}
	})
}

func TestAnnotateLiveUsesFeedScores(t *testing.T) {
	g := annotatorTestGraph(t)
	feed := &fakeFeed{scores: map[da.Index]float64{0: 0.9, 1: 0.5, 2: 0.1}}
	a := NewAnnotator(feed, zap.NewNop())
	a.SetClock(fixedClock(8))

	snap := a.Annotate(context.Background(), g, Live)
	for id, want := range feed.scores {
		got, ok := snap.Score(id)
		if !ok || got != want {
			t.Fatalf("edge %d: score %f (present=%v), want %f", id, got, ok, want)
		}
	}
}

func TestAnnotateLiveFallsBackOnFeedError(t *testing.T) {
	g := annotatorTestGraph(t)
	feed := &fakeFeed{fail: true}
	a := NewAnnotator(feed, zap.NewNop())
	a.SetClock(fixedClock(8))

	snap := a.Annotate(context.Background(), g, Live)
	if snap.Len() != g.NumberOfEdges() {
		t.Fatalf("snapshot has %d scores, want full coverage %d", snap.Len(), g.NumberOfEdges())
	}
	if feed.calls == 0 {
		t.Fatal("feed was never queried")
	}

	// degraded edges carry the deterministic simulated score
	g.ForEdges(func(e *da.Edge) {
		got, _ := snap.Score(e.GetId())
		if want := SimulatedScore(e, 8); got != want {
			t.Fatalf("edge %d: fallback score %f, want simulated %f", e.GetId(), got, want)
		}
	})
}

func TestAnnotateLivePartialFallback(t *testing.T) {
	g := annotatorTestGraph(t)
	feed := &fakeFeed{
		scores:  map[da.Index]float64{0: 0.9, 2: 0.1},
		skipIds: map[da.Index]struct{}{1: {}},
	}
	a := NewAnnotator(feed, zap.NewNop())
	a.SetClock(fixedClock(8))

	snap := a.Annotate(context.Background(), g, Live)

	if got, _ := snap.Score(0); got != 0.9 {
		t.Fatalf("edge 0: score %f, want live 0.9", got)
	}
	e := g.GetEdge(1)
	if got, _ := snap.Score(1); got != SimulatedScore(e, 8) {
		t.Fatalf("edge 1: score %f, want simulated fallback", got)
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("live") != Live {
		t.Fatal("live not parsed")
	}
	if ParseMode("") != Simulated || ParseMode("anything") != Simulated {
		t.Fatal("default mode should be simulated")
	}
}
