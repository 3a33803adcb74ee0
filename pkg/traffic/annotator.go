package traffic

import (
	"context"
	"time"

	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"go.uber.org/zap"
)

const (
	// edges per live-feed corridor query
	corridorBatchSize = 256
)

// Annotator assigns a congestion score per segment, either from the
// deterministic simulation or the live feed with per-edge simulated fallback.
// it never mutates the graph itself; the caller applies the returned snapshot.
type Annotator struct {
	feed CongestionFeed // nil means simulated only
	now  func() time.Time
	log  *zap.Logger
}

func NewAnnotator(feed CongestionFeed, log *zap.Logger) *Annotator {
	return &Annotator{
		feed: feed,
		now:  time.Now,
		log:  log,
	}
}

// SetClock overrides the time source, for reproducible tests.
func (a *Annotator) SetClock(now func() time.Time) {
	a.now = now
}

// Annotate produces a fresh snapshot for every edge of the graph. live mode
// degrades to the simulated score per edge on feed timeout or malformed data;
// traffic data is advisory, never load-bearing, so this cannot fail the query.
func (a *Annotator) Annotate(ctx context.Context, g *da.Graph, mode Mode) Snapshot {
	hour := a.now().Hour()
	snap := NewSnapshot(g.NumberOfEdges())

	if mode != Live || a.feed == nil {
		g.ForEdges(func(e *da.Edge) {
			snap.set(e.GetId(), SimulatedScore(e, hour))
		})
		return snap
	}

	var batch []*da.Edge
	degraded := 0

	flush := func() {
		if len(batch) == 0 {
			return
		}
		first := g.GetNode(batch[0].GetFrom())
		live, err := a.feed.FetchCongestion(ctx, batch, first.GetCoordinate())
		if err != nil {
			a.log.Warn("traffic feed degraded for corridor, falling back to simulation",
				zap.Int("edges", len(batch)), zap.Error(err))
			degraded += len(batch)
			for _, e := range batch {
				snap.set(e.GetId(), SimulatedScore(e, hour))
			}
			batch = batch[:0]
			return
		}
		for _, e := range batch {
			if score, ok := live[e.GetId()]; ok {
				snap.set(e.GetId(), score)
			} else {
				degraded++
				snap.set(e.GetId(), SimulatedScore(e, hour))
			}
		}
		batch = batch[:0]
	}

	g.ForEdges(func(e *da.Edge) {
		batch = append(batch, e)
		if len(batch) >= corridorBatchSize {
			flush()
		}
	})
	flush()

	if degraded > 0 {
		a.log.Warn("partial traffic feed degradation",
			zap.Int("degraded_edges", degraded),
			zap.Int("total_edges", g.NumberOfEdges()),
			zap.Error(ErrTrafficFeedDegraded))
	}

	return snap
}
