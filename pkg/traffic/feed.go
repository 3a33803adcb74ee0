package traffic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"github.com/raviteja-g/optiroute/pkg/geo"
	"github.com/raviteja-g/optiroute/pkg/util"
	"golang.org/x/time/rate"
)

var (
	// ErrTrafficFeedDegraded is non-fatal: the annotator logs it and falls back
	// to simulated scores for the affected edges.
	ErrTrafficFeedDegraded = errors.New("live traffic feed degraded")
)

// CongestionFeed is the live-traffic collaborator: congestion per edge batch.
// optional; absence or failure degrades to simulated mode per edge.
type CongestionFeed interface {
	FetchCongestion(ctx context.Context, edges []*da.Edge, corridor geo.Coordinate) (map[da.Index]float64, error)
}

// flowSegmentResponse is the tomtom-style flow segment payload.
type flowSegmentResponse struct {
	FlowSegmentData struct {
		CurrentSpeed  float64 `json:"currentSpeed"`
		FreeFlowSpeed float64 `json:"freeFlowSpeed"`
	} `json:"flowSegmentData"`
}

// FlowFeedClient queries an external flow-segment endpoint per corridor. the
// provider credential is an explicit constructor argument, not process-wide
// state, so concurrent requests with different configurations stay isolated.
type FlowFeedClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
}

func NewFlowFeedClient(endpoint, apiKey string, timeout time.Duration, rps float64) *FlowFeedClient {
	return &FlowFeedClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (fc *FlowFeedClient) FetchCongestion(ctx context.Context, edges []*da.Edge,
	corridor geo.Coordinate) (map[da.Index]float64, error) {
	if err := fc.limiter.Wait(ctx); err != nil {
		return nil, util.WrapErrorf(err, ErrTrafficFeedDegraded, "rate limit wait")
	}

	url := fmt.Sprintf("%s?key=%s&point=%f,%f&unit=kmh", fc.endpoint, fc.apiKey,
		corridor.Lat, corridor.Lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, util.WrapErrorf(err, ErrTrafficFeedDegraded, "build flow request")
	}

	resp, err := fc.client.Do(req)
	if err != nil {
		return nil, util.WrapErrorf(err, ErrTrafficFeedDegraded, "fetch flow segment")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, util.WrapErrorf(nil, ErrTrafficFeedDegraded, "flow endpoint status %d", resp.StatusCode)
	}

	var payload flowSegmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, util.WrapErrorf(err, ErrTrafficFeedDegraded, "decode flow segment")
	}

	free := payload.FlowSegmentData.FreeFlowSpeed
	if free <= 0 {
		return nil, util.WrapErrorf(nil, ErrTrafficFeedDegraded, "flow segment has no free-flow speed")
	}

	score := SpeedRatioToScore(payload.FlowSegmentData.CurrentSpeed / free)

	out := make(map[da.Index]float64, len(edges))
	for _, e := range edges {
		out[e.GetId()] = score
	}
	return out, nil
}

// SpeedRatioToScore maps current/free-flow speed ratio onto [0,1]: below 0.4 is
// heavy, below 0.7 medium, above light.
func SpeedRatioToScore(ratio float64) float64 {
	switch {
	case ratio < 0.4:
		return heavyScore
	case ratio < 0.7:
		return mediumScore
	default:
		return lightScore
	}
}
