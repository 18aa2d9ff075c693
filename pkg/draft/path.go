package draft

import "github.com/transitdraft/transitdraft/pkg/geo"

// ProjectStopsOntoPath resolves a distance-along-path for every stop, in
// sequence order. Each stop snaps to its nearest shape point (a full scan is
// fine at these point counts) and takes that point's cumulative distance.
// Whenever a raw projection lands before the previous stop's resolved
// distance it is clamped up to it, so the returned slice is always
// non-decreasing. This deliberately misplaces out-of-order detours in favour
// of keeping the schedule synthesizer's input monotonic.
func ProjectStopsOntoPath(stops []StopReference, shape []geo.Location) []float64 {
	cumulative := geo.CumulativeDistances(shape)

	resolved := make([]float64, len(stops))
	previous := 0.0

	for i, stop := range stops {
		distance := 0.0

		if index := geo.NearestPointIndex(stop.Location, shape); index >= 0 {
			distance = cumulative[index]
		}

		if distance < previous {
			distance = previous
		}

		resolved[i] = distance
		previous = distance
	}

	return resolved
}
