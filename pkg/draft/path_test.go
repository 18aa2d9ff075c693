package draft

import (
	"testing"

	"github.com/transitdraft/transitdraft/pkg/geo"
)

func TestProjectStopsOntoPath(t *testing.T) {
	shape := []geo.Location{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 0, Longitude: 2},
	}

	stops := []StopReference{
		{StopID: "900", Sequence: 1, Location: geo.Location{Latitude: 0.001, Longitude: 0}},
		{StopID: "901", Sequence: 2, Location: geo.Location{Latitude: 0.001, Longitude: 1}},
		{StopID: "902", Sequence: 3, Location: geo.Location{Latitude: 0.001, Longitude: 2}},
	}

	distances := ProjectStopsOntoPath(stops, shape)

	if len(distances) != 3 {
		t.Fatalf("length = %d, want 3", len(distances))
	}
	if distances[0] != 0 {
		t.Fatalf("distances[0] = %f, want 0", distances[0])
	}
	if !(distances[1] > distances[0] && distances[2] > distances[1]) {
		t.Fatalf("distances = %v, want strictly increasing here", distances)
	}
}

func TestProjectStopsOntoPathMonotonicClamp(t *testing.T) {
	shape := []geo.Location{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 0, Longitude: 2},
	}

	// The second stop sits geometrically nearest an earlier shape point
	// than the first stop; its raw projection must clamp up.
	stops := []StopReference{
		{StopID: "900", Sequence: 1, Location: geo.Location{Latitude: 0, Longitude: 2}},
		{StopID: "901", Sequence: 2, Location: geo.Location{Latitude: 0, Longitude: 0}},
	}

	distances := ProjectStopsOntoPath(stops, shape)

	if distances[1] < distances[0] {
		t.Fatalf("distances = %v, want non-decreasing", distances)
	}
	if distances[1] != distances[0] {
		t.Fatalf("clamped distance = %f, want exactly the previous resolved distance %f", distances[1], distances[0])
	}
}

func TestProjectStopsOntoPathEmptyInputs(t *testing.T) {
	if got := ProjectStopsOntoPath(nil, nil); len(got) != 0 {
		t.Fatalf("distances = %v, want empty", got)
	}

	stops := []StopReference{{StopID: "900", Sequence: 1}}
	if got := ProjectStopsOntoPath(stops, nil); len(got) != 1 || got[0] != 0 {
		t.Fatalf("distances = %v, want [0] for an empty shape", got)
	}
}
