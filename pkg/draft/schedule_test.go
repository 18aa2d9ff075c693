package draft

import (
	"errors"
	"reflect"
	"testing"
)

func scheduleStops() []StopReference {
	return []StopReference{
		{StopID: "900", Sequence: 1},
		{StopID: "901", Sequence: 2},
		{StopID: "902", Sequence: 3},
	}
}

func TestParseDeparture(t *testing.T) {
	seconds, err := ParseDeparture("08:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seconds != 8*3600+5*60 {
		t.Fatalf("seconds = %d, want %d", seconds, 8*3600+5*60)
	}

	for _, invalid := range []string{"8:05", "08:03", "24:00", "08:65", "morning", ""} {
		if _, err := ParseDeparture(invalid); !errors.Is(err, ErrInvalidDeparture) {
			t.Fatalf("ParseDeparture(%q) error = %v, want ErrInvalidDeparture", invalid, err)
		}
	}
}

func TestToggleDeparture(t *testing.T) {
	departures, err := ToggleDeparture(nil, "09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	departures, err = ToggleDeparture(departures, "08:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(departures, []string{"08:00", "09:30"}) {
		t.Fatalf("departures = %v, want sorted [08:00 09:30]", departures)
	}

	// Toggling an existing departure removes it
	departures, err = ToggleDeparture(departures, "09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(departures, []string{"08:00"}) {
		t.Fatalf("departures = %v, want [08:00]", departures)
	}

	if _, err := ToggleDeparture(departures, "08:03"); !errors.Is(err, ErrInvalidDeparture) {
		t.Fatalf("error = %v, want ErrInvalidDeparture", err)
	}
}

func TestSynthesizeStopTimes(t *testing.T) {
	distances := []float64{0, 1000, 2500}

	table, err := SynthesizeStopTimes(scheduleStops(), distances, []string{"08:00"}, 8.33, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row := table["08:00"]
	if len(row) != 3 {
		t.Fatalf("row length = %d, want 3", len(row))
	}

	// 1000m / 8.33m per s = 120.0s plus one 20s dwell; 2500m = 300.1s
	// plus two dwells. Fractional seconds truncate.
	want := []string{"08:00:00", "08:02:20", "08:05:40"}
	for i, cell := range row {
		if cell.Time != want[i] {
			t.Fatalf("row[%d] = %s, want %s", i, cell.Time, want[i])
		}
		if cell.Manual {
			t.Fatalf("row[%d] marked manual after synthesis", i)
		}
	}
}

func TestSynthesizeStopTimesMonotonicRows(t *testing.T) {
	distances := []float64{0, 500, 500, 3000}
	stops := append(scheduleStops(), StopReference{StopID: "903", Sequence: 4})

	table, err := SynthesizeStopTimes(stops, distances, []string{"23:55"}, DefaultSpeed, DefaultDwellSeconds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row := table["23:55"]
	for i := 1; i < len(row); i++ {
		if row[i].Time < row[i-1].Time {
			t.Fatalf("row not monotonic: %v", row)
		}
	}

	// Times past midnight keep counting, GTFS style
	if row[3].Time < "24:00:00" {
		t.Fatalf("row[3] = %s, want a time past midnight", row[3].Time)
	}
}

func TestSynthesizeStopTimesEmptyDepartures(t *testing.T) {
	table, err := SynthesizeStopTimes(scheduleStops(), []float64{0, 100, 200}, nil, DefaultSpeed, DefaultDwellSeconds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table) != 0 {
		t.Fatalf("table = %v, want empty", table)
	}
}

func TestSynthesizeStopTimesPreconditions(t *testing.T) {
	oneStop := []StopReference{{StopID: "900", Sequence: 1}}

	if _, err := SynthesizeStopTimes(oneStop, []float64{0}, []string{"08:00"}, DefaultSpeed, DefaultDwellSeconds); !errors.Is(err, ErrPreconditionNotMet) {
		t.Fatalf("error = %v, want ErrPreconditionNotMet", err)
	}

	// Distance slice must line up with the stop list
	if _, err := SynthesizeStopTimes(scheduleStops(), []float64{0}, []string{"08:00"}, DefaultSpeed, DefaultDwellSeconds); !errors.Is(err, ErrPreconditionNotMet) {
		t.Fatalf("error = %v, want ErrPreconditionNotMet", err)
	}
}

func TestEditCell(t *testing.T) {
	table, _ := SynthesizeStopTimes(scheduleStops(), []float64{0, 1000, 2500}, []string{"08:00"}, 8.33, 20)

	if err := EditCell(table, "08:00", 1, "08:03:00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cell := table["08:00"][1]
	if cell.Time != "08:03:00" || !cell.Manual {
		t.Fatalf("cell = %+v, want manual 08:03:00", cell)
	}

	if !HasManualEdits(table) {
		t.Fatal("HasManualEdits = false after an edit")
	}

	if err := EditCell(table, "09:00", 0, "x"); !errors.Is(err, ErrUnknownTrip) {
		t.Fatalf("error = %v, want ErrUnknownTrip", err)
	}
	if err := EditCell(table, "08:00", 9, "x"); !errors.Is(err, ErrCellIndex) {
		t.Fatalf("error = %v, want ErrCellIndex", err)
	}
}
