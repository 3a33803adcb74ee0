package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/raviteja-g/optiroute/pkg"
	"github.com/raviteja-g/optiroute/pkg/costfunction"
	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"github.com/raviteja-g/optiroute/pkg/engine/routing"
	"github.com/raviteja-g/optiroute/pkg/geo"
	"github.com/raviteja-g/optiroute/pkg/traffic"
	"github.com/raviteja-g/optiroute/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serviceGraph(t *testing.T) *da.Graph {
	t.Helper()

	nodes := make([]da.Node, 0, 5)
	for i := 0; i < 5; i++ {
		nodes = append(nodes, da.NewNode(da.Index(i), 0, float64(i)*0.01))
	}
	speed := 40.0 * pkg.KMH_TO_MS
	edges := make([]da.Edge, 0, 8)
	for i := 0; i < 4; i++ {
		length := 1112.0
		edges = append(edges, da.NewEdge(da.Index(len(edges)), da.Index(i), da.Index(i+1), length, length/speed, pkg.RESIDENTIAL))
		edges = append(edges, da.NewEdge(da.Index(len(edges)), da.Index(i+1), da.Index(i), length, length/speed, pkg.RESIDENTIAL))
	}
	g, err := da.NewGraph(nodes, edges, da.NewBoundingBox(-0.1, -0.1, 0.1, 0.1))
	require.NoError(t, err)
	return g
}

type fakeRegions struct {
	graph *da.Graph
	err   error
	bbox  da.BoundingBox
}

func (f *fakeRegions) Get(ctx context.Context, bbox da.BoundingBox) (*da.Graph, error) {
	f.bbox = bbox
	return f.graph, f.err
}

type fakeGeocoder struct {
	byAddress map[string]geo.Coordinate
}

func (f *fakeGeocoder) ResolveAddress(ctx context.Context, address, area string) (geo.Coordinate, error) {
	c, ok := f.byAddress[address]
	if !ok {
		return geo.Coordinate{}, util.WrapErrorf(nil, util.ErrNotFound, "no match for %q", address)
	}
	return c, nil
}

func newTestService(t *testing.T, g *da.Graph) (*RoutingService, *fakeRegions) {
	t.Helper()

	annotator := traffic.NewAnnotator(nil, zap.NewNop())
	annotator.SetClock(func() time.Time {
		return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	})
	engine := routing.NewEngine(annotator, costfunction.NewBuilder(), nil, zap.NewNop())

	regions := &fakeRegions{graph: g}
	geocoder := &fakeGeocoder{byAddress: map[string]geo.Coordinate{
		"west end": geo.NewCoordinate(0.0002, 0),
		"east end": geo.NewCoordinate(0.0002, 0.04),
	}}

	return NewRoutingService(zap.NewNop(), regions, engine, geocoder, 300, 30), regions
}

func TestComputeRoutesByCoordinates(t *testing.T) {
	g := serviceGraph(t)
	svc, regions := newTestService(t, g)

	origin := geo.NewCoordinate(0.0002, 0)
	destination := geo.NewCoordinate(0.0002, 0.04)
	summaries, err := svc.ComputeRoutes(context.Background(), RouteRequest{
		Origin:      &origin,
		Destination: &destination,
		TrafficMode: traffic.Simulated,
	})
	require.NoError(t, err)
	require.Len(t, summaries, 4)

	wantLabels := []string{"Balanced", "Time-Optimized", "Traffic-Avoiding", "Distance-Optimized"}
	for i, s := range summaries {
		require.NotNil(t, s, "slot %d", i)
		assert.Equal(t, wantLabels[i], s.Label)
		assert.Greater(t, s.DistanceKM, 0.0)
		assert.Greater(t, s.EtaMinutes, 0.0)
		assert.NotEmpty(t, s.Polyline)
	}

	// the fetched region must cover both endpoints plus buffer
	assert.True(t, regions.bbox.Contains(origin))
	assert.True(t, regions.bbox.Contains(destination))
}

func TestComputeRoutesByAddress(t *testing.T) {
	g := serviceGraph(t)
	svc, _ := newTestService(t, g)

	summaries, err := svc.ComputeRoutes(context.Background(), RouteRequest{
		OriginAddress:      "west end",
		DestinationAddress: "east end",
		Area:               "testville",
		TrafficMode:        traffic.Simulated,
	})
	require.NoError(t, err)
	require.Len(t, summaries, 4)
	for _, s := range summaries {
		require.NotNil(t, s)
	}
}

func TestComputeRoutesGeocoderMiss(t *testing.T) {
	g := serviceGraph(t)
	svc, _ := newTestService(t, g)

	_, err := svc.ComputeRoutes(context.Background(), RouteRequest{
		OriginAddress:      "unknown place",
		DestinationAddress: "east end",
	})
	assert.Equal(t, util.ErrNotFound, util.ErrorCode(err))
}

func TestSnapIndexBuiltOncePerCachedGraph(t *testing.T) {
	g := serviceGraph(t)
	svc, regions := newTestService(t, g)

	builds := 0
	base := svc.indexFor
	svc.indexFor = func(g *da.Graph) NodeSnapper {
		builds++
		return base(g)
	}

	origin := geo.NewCoordinate(0.0002, 0)
	destination := geo.NewCoordinate(0.0002, 0.04)
	req := RouteRequest{
		Origin:      &origin,
		Destination: &destination,
		TrafficMode: traffic.Simulated,
	}

	for i := 0; i < 3; i++ {
		_, err := svc.ComputeRoutes(context.Background(), req)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, builds, "repeat requests over the same cached graph must reuse the index")

	// a rebuilt region graph invalidates the cached index
	regions.graph = serviceGraph(t)
	_, err := svc.ComputeRoutes(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, builds)
}

func TestComputeRoutesSnapFailure(t *testing.T) {
	g := serviceGraph(t)
	svc, _ := newTestService(t, g)

	// origin far outside the snap radius of any road
	origin := geo.NewCoordinate(0.03, 0.02)
	destination := geo.NewCoordinate(0.0002, 0.04)
	_, err := svc.ComputeRoutes(context.Background(), RouteRequest{
		Origin:      &origin,
		Destination: &destination,
	})
	require.Error(t, err)
}
