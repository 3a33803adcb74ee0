package assembler

import (
	"github.com/raviteja-g/optiroute/pkg"
	"github.com/raviteja-g/optiroute/pkg/costfunction"
	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"github.com/raviteja-g/optiroute/pkg/geo"
	"github.com/raviteja-g/optiroute/pkg/util"
)

// Assemble converts a raw search result into a comparable route summary:
// ordered coordinates plus encoded polyline for rendering, total distance,
// estimated time and average congestion exposure. pure function of its inputs.
func Assemble(g *da.Graph, strategy costfunction.Strategy, result da.SearchResult) da.RouteSummary {
	nodes := result.GetNodes()
	coords := make([]geo.Coordinate, 0, len(nodes))
	for _, nid := range nodes {
		coords = append(coords, g.GetNode(nid).GetCoordinate())
	}

	avgCongestion := 0.0
	if distKM := result.GetTotalDistance() / pkg.METERS_PER_KM; distKM > 0 {
		avgCongestion = result.GetTotalCongestion() / distKM
	}

	return da.RouteSummary{
		Label:         strategy.String(),
		Coordinates:   coords,
		Polyline:      geo.PolylineFromCoords(coords),
		DistanceKM:    util.RoundFloat(result.GetTotalDistance()/pkg.METERS_PER_KM, 3),
		EtaMinutes:    util.RoundFloat(util.SecondsToMinutes(result.GetTotalTime()), 2),
		AvgCongestion: util.RoundFloat(avgCongestion, 3),
	}
}
