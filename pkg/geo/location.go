package geo

import "math"

const earthRadiusMeters = 6371000.0

// Minimum squared segment length used when a segment's two endpoints are
// identical, so the projection parameter stays defined.
const degenerateSegmentLengthSq = 1e-12

type Location struct {
	Latitude  float64 `json:"latitude" groups:"basic"`
	Longitude float64 `json:"longitude" groups:"basic"`
}

// Distance returns the great-circle (haversine) distance between the two
// locations in meters.
func (l Location) Distance(other Location) float64 {
	dLat := (other.Latitude - l.Latitude) * math.Pi / 180
	dLon := (other.Longitude - l.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(l.Latitude*math.Pi/180)*math.Cos(other.Latitude*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Shameless taken 'inspiration' from https://stackoverflow.com/a/6853926
//
// DistanceFromLine returns the residual distance (in degrees, planar
// approximation) between the location and the segment a->b. Good enough for
// comparative nearness at route scale, not for real distances.
func (l Location) DistanceFromLine(a Location, b Location) float64 {
	A := l.Longitude - a.Longitude
	B := l.Latitude - a.Latitude
	C := b.Longitude - a.Longitude
	D := b.Latitude - a.Latitude

	dot := A*C + B*D
	lenSq := C*C + D*D
	if lenSq == 0 {
		lenSq = degenerateSegmentLengthSq
	}
	param := dot / lenSq

	var xx, yy float64

	if param < 0 {
		xx = a.Longitude
		yy = a.Latitude
	} else if param > 1 {
		xx = b.Longitude
		yy = b.Latitude
	} else {
		xx = a.Longitude + param*C
		yy = a.Latitude + param*D
	}

	dx := l.Longitude - xx
	dy := l.Latitude - yy
	return math.Sqrt(dx*dx + dy*dy)
}
