package gtfs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/transitdraft/transitdraft/pkg/draft"
	"github.com/transitdraft/transitdraft/pkg/geo"
)

func exportableDraft(t *testing.T) *draft.Draft {
	t.Helper()

	d := draft.NewDraft("route-9", "Circular 9", "#ff6600")
	d.ServiceCalendars = []string{"weekday", "saturday"}

	stops := []draft.StopReference{
		{StopID: "900", IsNew: true, Name: "Market Street", Location: geo.Location{Latitude: 0, Longitude: 0}},
		{StopID: "901", Location: geo.Location{Latitude: 0, Longitude: 1}},
		{StopID: "902", IsNew: true, Name: "Harbour Road", Location: geo.Location{Latitude: 1, Longitude: 1}},
	}
	for _, stop := range stops {
		if err := d.AddStop(stop); err != nil {
			t.Fatalf("add stop: %v", err)
		}
	}

	// Straight line shape; no routing collaborator in tests
	if _, err := d.GenerateShape(context.Background(), nil); err != nil {
		t.Fatalf("generate shape: %v", err)
	}

	for _, departure := range []string{"08:00", "08:30"} {
		if err := d.ToggleDeparture(departure); err != nil {
			t.Fatalf("toggle departure: %v", err)
		}
	}

	if err := d.Synthesize(draft.DefaultSpeed, draft.DefaultDwellSeconds); err != nil {
		t.Fatalf("synthesize: %v", err)
	}

	return d
}

func TestBuild(t *testing.T) {
	payload, err := Build(exportableDraft(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payload.Route.ID != "route-9" || payload.Route.Colour != "ff6600" {
		t.Fatalf("route = %+v, want id route-9 colour ff6600", payload.Route)
	}

	// Only the newly drafted stops are exported as stop records
	if len(payload.NewStops) != 2 {
		t.Fatalf("new stops = %d, want 2", len(payload.NewStops))
	}

	// 2 departures x 2 calendars
	if len(payload.Trips) != 4 {
		t.Fatalf("trips = %d, want 4", len(payload.Trips))
	}

	// one stop time row per (trip x stop)
	if len(payload.StopTimes) != 4*3 {
		t.Fatalf("stop times = %d, want 12", len(payload.StopTimes))
	}

	for _, stopTime := range payload.StopTimes {
		if stopTime.ArrivalTime != stopTime.DepartureTime {
			t.Fatalf("stop time %+v, want arrival == departure", stopTime)
		}
	}

	if len(payload.Shapes) != 3 || payload.Shapes[0].Sequence != 1 {
		t.Fatalf("shapes = %+v, want 3 points sequenced from 1", payload.Shapes)
	}

	tripIDs := map[string]bool{}
	for _, trip := range payload.Trips {
		if tripIDs[trip.ID] {
			t.Fatalf("duplicate trip id %s", trip.ID)
		}
		tripIDs[trip.ID] = true
	}
}

func TestBuildRequiresCalendars(t *testing.T) {
	d := exportableDraft(t)
	d.ServiceCalendars = nil

	if _, err := Build(d); !errors.Is(err, ErrNoCalendars) {
		t.Fatalf("error = %v, want ErrNoCalendars", err)
	}
}

func TestBuildRequiresSynthesizedSchedule(t *testing.T) {
	d := exportableDraft(t)
	d.StopTimes = draft.StopTimeTable{}

	if _, err := Build(d); !errors.Is(err, ErrNotSynthesized) {
		t.Fatalf("error = %v, want ErrNotSynthesized", err)
	}
}

func TestBuildRequiresStopsAndShape(t *testing.T) {
	d := draft.NewDraft("route-9", "Circular 9", "")
	d.ServiceCalendars = []string{"weekday"}

	if _, err := Build(d); !errors.Is(err, ErrDraftIncomplete) {
		t.Fatalf("error = %v, want ErrDraftIncomplete", err)
	}
}

func TestMarshal(t *testing.T) {
	payload, err := Build(exportableDraft(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	files, err := payload.Marshal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, fileName := range []string{"routes.txt", "stops.txt", "shapes.txt", "trips.txt", "stop_times.txt"} {
		if _, ok := files[fileName]; !ok {
			t.Fatalf("missing %s in marshalled output", fileName)
		}
	}

	if !strings.HasPrefix(string(files["stop_times.txt"]), "trip_id,arrival_time,departure_time,stop_id,stop_sequence") {
		t.Fatalf("stop_times header = %q", strings.SplitN(string(files["stop_times.txt"]), "\n", 2)[0])
	}
}
