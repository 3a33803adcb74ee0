package geo

import (
	"math"
	"testing"
)

func TestHaversineOneDegreeAtEquator(t *testing.T) {
	// one degree of longitude at the equator on a 6371km sphere
	want := 6371000.0 * math.Pi / 180.0
	got := CalculateHaversineDistance(0, 0, 0, 1)
	if math.Abs(got-want) > 1.0 {
		t.Fatalf("distance = %f, want %f within 1m", got, want)
	}
}

func TestHaversineZeroDistance(t *testing.T) {
	if d := CalculateHaversineDistance(-7.75, 110.37, -7.75, 110.37); d != 0 {
		t.Fatalf("distance to self = %f, want 0", d)
	}
}

func TestDestinationPointRoundTrip(t *testing.T) {
	lat, lon := GetDestinationPoint(-7.75, 110.37, 90, 1000)
	back := CalculateHaversineDistance(-7.75, 110.37, lat, lon)
	if math.Abs(back-1000) > 1.0 {
		t.Fatalf("round trip distance = %f, want 1000 within 1m", back)
	}
}

func TestMidPoint(t *testing.T) {
	lat, lon := MidPoint(0, 0, 0, 2)
	if math.Abs(lat) > 1e-9 || math.Abs(lon-1) > 1e-9 {
		t.Fatalf("midpoint = %f,%f, want 0,1", lat, lon)
	}
}

func TestPointLinePerpendicularDistance(t *testing.T) {
	a := NewCoordinate(0, 0)
	b := NewCoordinate(0, 0.01)

	onLine := NewCoordinate(0, 0.005)
	if d := PointLinePerpendicularDistance(a, b, onLine); d > 1.0 {
		t.Fatalf("point on segment has distance %f, want ~0", d)
	}

	// ~111m north of the segment midpoint
	off := NewCoordinate(0.001, 0.005)
	d := PointLinePerpendicularDistance(a, b, off)
	if math.Abs(d-111.195) > 2.0 {
		t.Fatalf("perpendicular distance = %f, want ~111m", d)
	}
}

func TestPolylineFromCoordsNonEmpty(t *testing.T) {
	coords := []Coordinate{
		NewCoordinate(-7.75, 110.37),
		NewCoordinate(-7.76, 110.38),
	}
	if p := PolylineFromCoords(coords); p == "" {
		t.Fatal("expected non-empty encoded polyline")
	}
}
