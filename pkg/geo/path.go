package geo

// NearestSegment returns the index i of the path segment [i, i+1] closest to
// p. Ties go to the lowest index. The second return is false when the path
// has fewer than 2 points and no segment exists.
func NearestSegment(p Location, path []Location) (int, bool) {
	if len(path) < 2 {
		return -1, false
	}

	nearestIndex := 0
	nearestDistance := p.DistanceFromLine(path[0], path[1])

	for i := 1; i < len(path)-1; i++ {
		distance := p.DistanceFromLine(path[i], path[i+1])

		if distance < nearestDistance {
			nearestDistance = distance
			nearestIndex = i
		}
	}

	return nearestIndex, true
}

// CumulativeDistances returns, for each point of the path, the summed
// pairwise haversine distance in meters from point 0 up to that point.
// Entry 0 is always 0. The result has the same length as the path.
func CumulativeDistances(path []Location) []float64 {
	distances := make([]float64, len(path))

	for i := 1; i < len(path); i++ {
		distances[i] = distances[i-1] + path[i-1].Distance(path[i])
	}

	return distances
}

// NearestPointIndex returns the index of the path point closest to p by
// great-circle distance, or -1 for an empty path.
func NearestPointIndex(p Location, path []Location) int {
	nearestIndex := -1
	nearestDistance := 0.0

	for i, point := range path {
		distance := p.Distance(point)

		if nearestIndex == -1 || distance < nearestDistance {
			nearestDistance = distance
			nearestIndex = i
		}
	}

	return nearestIndex
}
