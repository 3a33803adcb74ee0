package mapsource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"
	"github.com/raviteja-g/optiroute/pkg"
	"github.com/raviteja-g/optiroute/pkg/geo"
	"github.com/raviteja-g/optiroute/pkg/util"
	"go.uber.org/zap"

	"github.com/raviteja-g/optiroute/pkg/datastructure"
)

const (
	// highway tags accepted for driving routes, mirrors the drive network
	// filter of the map provider.
	drivableFilter = "motorway|motorway_link|trunk|trunk_link|primary|primary_link|" +
		"secondary|secondary_link|tertiary|tertiary_link|residential|service|" +
		"unclassified|living_street|road"
)

// OverpassSource fetches road geometry from an overpass api endpoint and
// decodes the osm xml response.
type OverpassSource struct {
	endpoint string
	client   *http.Client
	log      *zap.Logger
}

func NewOverpassSource(endpoint string, timeout time.Duration, log *zap.Logger) *OverpassSource {
	return &OverpassSource{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

func (os *OverpassSource) FetchNetwork(ctx context.Context, bbox datastructure.BoundingBox) (*RawNetwork, error) {
	query := fmt.Sprintf(`[out:xml][timeout:60];(way["highway"~"^(%s)$"](%f,%f,%f,%f);>;);out;`,
		drivableFilter, bbox.MinLat, bbox.MinLon, bbox.MaxLat, bbox.MaxLon)

	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, os.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, util.WrapErrorf(err, ErrRegionUnavailable, "build overpass request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := os.client.Do(req)
	if err != nil {
		return nil, util.WrapErrorf(err, ErrRegionUnavailable, "fetch overpass region %s", bbox.Key())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, util.WrapErrorf(nil, ErrRegionUnavailable,
			"overpass returned status %d for region %s", resp.StatusCode, bbox.Key())
	}

	raw := &RawNetwork{
		Nodes: make(map[int64]RawNode),
	}

	scanner := osmxml.New(ctx, resp.Body)
	defer scanner.Close()

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			raw.Nodes[int64(o.ID)] = RawNode{
				OsmId: int64(o.ID),
				Coord: geo.NewCoordinate(o.Lat, o.Lon),
			}
		case *osm.Way:
			way, ok := os.convertWay(o)
			if !ok {
				continue
			}
			raw.Ways = append(raw.Ways, way)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, util.WrapErrorf(err, ErrRegionUnavailable, "decode overpass response")
	}

	os.log.Info("fetched road network",
		zap.String("region", bbox.Key()),
		zap.Int("nodes", len(raw.Nodes)),
		zap.Int("ways", len(raw.Ways)))

	return raw, nil
}

func (os *OverpassSource) convertWay(w *osm.Way) (RawWay, bool) {
	hw := w.Tags.Find("highway")
	if hw == "" {
		return RawWay{}, false
	}
	class := pkg.GetRoadClass(hw)
	if class == pkg.UNKNOWN {
		return RawWay{}, false
	}

	nodeIds := make([]int64, 0, len(w.Nodes))
	for _, wn := range w.Nodes {
		nodeIds = append(nodeIds, int64(wn.ID))
	}
	if len(nodeIds) < 2 {
		return RawWay{}, false
	}

	speed := parseMaxSpeed(w.Tags.Find("maxspeed"))
	if speed <= 0 {
		speed = pkg.DefaultSpeedKMH(class)
	}

	oneway := w.Tags.Find("oneway")
	return RawWay{
		NodeIds:  nodeIds,
		Class:    class,
		SpeedKMH: speed,
		OneWay:   oneway == "yes" || oneway == "1" || class == pkg.MOTORWAY,
	}, true
}

// parseMaxSpeed handles plain km/h values and the "NN mph" form. returns 0 when
// the tag is absent or unparseable.
func parseMaxSpeed(tag string) float64 {
	if tag == "" {
		return 0
	}
	tag = strings.ToLower(strings.TrimSpace(tag))
	if strings.HasSuffix(tag, "mph") {
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(tag, "mph")), 64)
		if err != nil {
			return 0
		}
		return v * 1.60934
	}
	v, err := strconv.ParseFloat(tag, 64)
	if err != nil {
		return 0
	}
	return v
}
