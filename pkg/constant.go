package pkg

// RoadClass enum for the subset of osm highway tags used for driving routes:
// https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing
type RoadClass uint8

const (
	MOTORWAY RoadClass = iota
	TRUNK
	PRIMARY
	SECONDARY
	TERTIARY
	RESIDENTIAL
	SERVICE
	UNCLASSIFIED
	LIVING_STREET
	ROAD
	UNKNOWN
)

const (
	INF_WEIGHT float64 = 1e15

	// fixed normalization constants for the composite cost function.
	// query-independent, so identical sub-path costs never vary across queries.
	MAX_PLAUSIBLE_SPEED_KMH = 120.0
	METERS_PER_KM           = 1000.0
	SECONDS_PER_MINUTE      = 60.0

	KMH_TO_MS = 1.0 / 3.6
)

func GetRoadClass(highwayTag string) RoadClass {
	switch highwayTag {
	case "motorway", "motorway_link", "motorroad":
		return MOTORWAY
	case "trunk", "trunk_link":
		return TRUNK
	case "primary", "primary_link":
		return PRIMARY
	case "secondary", "secondary_link":
		return SECONDARY
	case "tertiary", "tertiary_link":
		return TERTIARY
	case "residential":
		return RESIDENTIAL
	case "service":
		return SERVICE
	case "unclassified":
		return UNCLASSIFIED
	case "living_street":
		return LIVING_STREET
	case "road", "track":
		return ROAD
	default:
		return UNKNOWN
	}
}

// DefaultSpeedKMH free-flow speed per road class, used when the way has no
// explicit maxspeed tag.
func DefaultSpeedKMH(class RoadClass) float64 {
	switch class {
	case MOTORWAY:
		return 120
	case TRUNK:
		return 90
	case PRIMARY:
		return 80
	case SECONDARY:
		return 60
	case TERTIARY:
		return 50
	case RESIDENTIAL:
		return 40
	case SERVICE:
		return 30
	case LIVING_STREET:
		return 20
	default:
		return 40
	}
}

// IsMajorRoad reports whether the class is one of the arterial classes that get
// heavier simulated congestion during rush hour.
func IsMajorRoad(class RoadClass) bool {
	return class == MOTORWAY || class == TRUNK || class == PRIMARY
}
