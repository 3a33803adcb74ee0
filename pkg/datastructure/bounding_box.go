package datastructure

import (
	"fmt"

	"github.com/raviteja-g/optiroute/pkg/geo"
)

// BoundingBox is the query region, in degrees.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

func NewBoundingBox(minLat, minLon, maxLat, maxLon float64) BoundingBox {
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	if minLon > maxLon {
		minLon, maxLon = maxLon, minLon
	}
	return BoundingBox{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon}
}

// BoundingBoxAround builds the region covering both endpoints plus a buffer,
// bufferM in meters.
func BoundingBoxAround(origin, destination geo.Coordinate, bufferM float64) BoundingBox {
	bb := NewBoundingBox(origin.Lat, origin.Lon, destination.Lat, destination.Lon)
	upLat, _ := geo.GetDestinationPoint(bb.MaxLat, bb.MaxLon, 0, bufferM)
	downLat, _ := geo.GetDestinationPoint(bb.MinLat, bb.MinLon, 180, bufferM)
	_, rightLon := geo.GetDestinationPoint(bb.MaxLat, bb.MaxLon, 90, bufferM)
	_, leftLon := geo.GetDestinationPoint(bb.MinLat, bb.MinLon, 270, bufferM)
	return NewBoundingBox(downLat, leftLon, upLat, rightLon)
}

func (b BoundingBox) Contains(c geo.Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

func (b BoundingBox) Center() geo.Coordinate {
	lat, lon := geo.MidPoint(b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
	return geo.NewCoordinate(lat, lon)
}

// Key is the regional cache key. coordinates rounded to ~11m so nearby queries
// share one cached graph.
func (b BoundingBox) Key() string {
	return fmt.Sprintf("%.4f,%.4f,%.4f,%.4f", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}
