package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	// 1 degree of longitude at the equator is ~111.2km
	a := Location{Latitude: 0, Longitude: 0}
	b := Location{Latitude: 0, Longitude: 1}

	distance := a.Distance(b)
	if math.Abs(distance-111195) > 50 {
		t.Fatalf("distance = %f, want ~111195", distance)
	}

	if a.Distance(a) != 0 {
		t.Fatalf("distance to self = %f, want 0", a.Distance(a))
	}
}

func TestDistanceFromLineDegenerateSegment(t *testing.T) {
	p := Location{Latitude: 1, Longitude: 1}
	v := Location{Latitude: 0, Longitude: 0}

	// Both segment endpoints identical must not divide by zero
	residual := p.DistanceFromLine(v, v)
	if math.IsNaN(residual) || math.IsInf(residual, 0) {
		t.Fatalf("residual = %f, want a finite value", residual)
	}

	if math.Abs(residual-math.Sqrt(2)) > 1e-6 {
		t.Fatalf("residual = %f, want ~%f", residual, math.Sqrt(2))
	}
}

func TestNearestSegment(t *testing.T) {
	path := []Location{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 1, Longitude: 1},
	}

	index, ok := NearestSegment(Location{Latitude: 0, Longitude: 0.5}, path)
	if !ok {
		t.Fatal("expected a segment for a 3 point path")
	}
	if index != 0 {
		t.Fatalf("nearest segment = %d, want 0", index)
	}

	index, ok = NearestSegment(Location{Latitude: 0.9, Longitude: 1.1}, path)
	if !ok || index != 1 {
		t.Fatalf("nearest segment = %d (ok %t), want 1", index, ok)
	}
}

func TestNearestSegmentTooShort(t *testing.T) {
	probe := Location{Latitude: 0, Longitude: 0}

	if _, ok := NearestSegment(probe, nil); ok {
		t.Fatal("expected no segment for an empty path")
	}

	if _, ok := NearestSegment(probe, []Location{{Latitude: 1, Longitude: 1}}); ok {
		t.Fatal("expected no segment for a single point path")
	}
}

func TestNearestSegmentTieBreaksLowestIndex(t *testing.T) {
	// Two identical segments; the probe is equidistant from both
	path := []Location{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 0, Longitude: 0},
	}

	index, ok := NearestSegment(Location{Latitude: 1, Longitude: 0.5}, path)
	if !ok || index != 0 {
		t.Fatalf("nearest segment = %d (ok %t), want 0", index, ok)
	}
}

func TestCumulativeDistances(t *testing.T) {
	path := []Location{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 0, Longitude: 2},
	}

	distances := CumulativeDistances(path)

	if len(distances) != 3 {
		t.Fatalf("length = %d, want 3", len(distances))
	}
	if distances[0] != 0 {
		t.Fatalf("distances[0] = %f, want 0", distances[0])
	}

	step := path[0].Distance(path[1])
	if math.Abs(distances[1]-step) > 1e-6 {
		t.Fatalf("distances[1] = %f, want %f", distances[1], step)
	}
	if math.Abs(distances[2]-2*step) > 1e-6 {
		t.Fatalf("distances[2] = %f, want %f", distances[2], 2*step)
	}
}

func TestNearestPointIndex(t *testing.T) {
	path := []Location{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 0, Longitude: 2},
	}

	if index := NearestPointIndex(Location{Latitude: 0.1, Longitude: 1.1}, path); index != 1 {
		t.Fatalf("nearest point = %d, want 1", index)
	}

	if index := NearestPointIndex(Location{}, nil); index != -1 {
		t.Fatalf("nearest point = %d, want -1 for empty path", index)
	}
}
