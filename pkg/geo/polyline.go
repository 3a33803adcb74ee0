package geo

import (
	"github.com/twpayne/go-polyline"
)

// PolylineFromCoords encodes the coordinate sequence with the google polyline
// algorithm, for the visualization collaborator.
func PolylineFromCoords(coords []Coordinate) string {
	flat := make([][]float64, 0, len(coords))
	for _, c := range coords {
		flat = append(flat, []float64{c.Lat, c.Lon})
	}
	return string(polyline.EncodeCoords(flat))
}
