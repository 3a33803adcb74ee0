package routing

import (
	"context"
	"time"

	"github.com/raviteja-g/optiroute/pkg/concurrent"
	"github.com/raviteja-g/optiroute/pkg/costfunction"
	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"github.com/raviteja-g/optiroute/pkg/metrics"
	"github.com/raviteja-g/optiroute/pkg/traffic"
	"github.com/raviteja-g/optiroute/pkg/util"
	"go.uber.org/zap"
)

// StrategyRoute is one strategy's slot in the fixed-order result set. Result is
// nil when that strategy found no path; the caller decides how to present a
// partial set.
type StrategyRoute struct {
	Strategy costfunction.Strategy
	Result   *da.SearchResult
	Err      error
}

// Engine runs the four strategy searches over one annotated graph. searches are
// independent and side-effect free; they share only the read-only per-query
// graph clone.
type Engine struct {
	annotator *traffic.Annotator
	cfBuilder *costfunction.Builder
	met       *metrics.Metrics // optional
	log       *zap.Logger
}

func NewEngine(annotator *traffic.Annotator, cfBuilder *costfunction.Builder,
	met *metrics.Metrics, log *zap.Logger) *Engine {
	return &Engine{
		annotator: annotator,
		cfBuilder: cfBuilder,
		met:       met,
		log:       log,
	}
}

type searchJob struct {
	idx      int
	strategy costfunction.Strategy
}

type searchOutcome struct {
	idx   int
	route StrategyRoute
}

// ComputeRoutes annotates a per-query clone of the cached graph and runs one
// search per strategy concurrently, returning results in the fixed order
// Balanced, TimeOptimized, TrafficAvoiding, DistanceOptimized.
//
// a NoPathFound on one strategy never aborts the other three. an invalid
// endpoint is fatal for the whole request.
func (en *Engine) ComputeRoutes(ctx context.Context, baseGraph *da.Graph,
	origin, destination da.Index, mode traffic.Mode) ([]StrategyRoute, error) {

	if !baseGraph.HasNode(origin) || !baseGraph.HasNode(destination) {
		return nil, util.WrapErrorf(nil, ErrInvalidEndpoint,
			"endpoints %d -> %d outside graph with %d nodes", origin, destination, baseGraph.NumberOfVertices())
	}

	// fresh clone + snapshot per request: cached graphs stay untouched and
	// concurrent queries never interfere
	g := baseGraph.CloneForQuery()
	snapshot := en.annotator.Annotate(ctx, g, mode)
	snapshot.ApplyTo(g)

	strategies := costfunction.Strategies()
	destNode := g.GetNode(destination)

	pool := concurrent.NewWorkerPool[searchJob, searchOutcome](len(strategies), len(strategies))
	pool.Start(func(job searchJob) searchOutcome {
		edgeCost, heuristic := en.cfBuilder.Build(job.strategy, destNode)
		start := time.Now()
		result, err := Search(ctx, g, origin, destination, edgeCost, heuristic)
		if en.met != nil {
			en.met.SearchDuration.WithLabelValues(job.strategy.String()).
				Observe(time.Since(start).Seconds())
		}
		if err != nil {
			return searchOutcome{idx: job.idx, route: StrategyRoute{Strategy: job.strategy, Err: err}}
		}
		return searchOutcome{idx: job.idx, route: StrategyRoute{Strategy: job.strategy, Result: &result}}
	})

	for i, s := range strategies {
		pool.AddJob(searchJob{idx: i, strategy: s})
	}
	pool.Close()
	pool.Wait()

	routes := make([]StrategyRoute, len(strategies))
	for outcome := range pool.CollectResults() {
		routes[outcome.idx] = outcome.route
	}

	for _, r := range routes {
		if r.Err != nil {
			en.log.Debug("strategy search failed",
				zap.String("strategy", r.Strategy.String()), zap.Error(r.Err))
		}
	}

	return routes, nil
}
