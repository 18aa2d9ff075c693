package draft

import (
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/exp/slices"
)

const (
	// DefaultSpeed is the assumed travel speed in meters per second,
	// roughly 30 km/h.
	DefaultSpeed = 8.33

	// DefaultDwellSeconds is the assumed time spent stationary at each
	// intermediate stop.
	DefaultDwellSeconds = 20

	// DepartureResolutionMinutes is the grid the departure timeline
	// offers; departures off this grid are rejected.
	DepartureResolutionMinutes = 5
)

var departureFormat = regexp.MustCompile(`^([0-9]{2}):([0-9]{2})$`)

// StopTimeCell is one synthesized or user-edited time for a
// (trip, stop position) pair.
type StopTimeCell struct {
	Time string `json:"time" groups:"basic"`

	// Manual is set once a user has overwritten the synthesized value.
	// Rebuilds other than an explicit recompute must not discard it.
	Manual bool `json:"manual" groups:"basic"`
}

// StopTimeTable holds one row of cells per trip departure, indexed by stop
// position in the ordered sequence.
type StopTimeTable map[string][]StopTimeCell

// ParseDeparture validates a HH:MM departure against the 5 minute timeline
// and returns it as seconds since midnight.
func ParseDeparture(departure string) (int, error) {
	match := departureFormat.FindStringSubmatch(departure)
	if match == nil {
		return 0, ErrInvalidDeparture
	}

	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])

	if hours > 23 || minutes > 59 || minutes%DepartureResolutionMinutes != 0 {
		return 0, ErrInvalidDeparture
	}

	return hours*3600 + minutes*60, nil
}

// ToggleDeparture adds the departure to the set, or removes it when already
// present. The returned set is sorted; membership is the identity.
func ToggleDeparture(departures []string, departure string) ([]string, error) {
	if _, err := ParseDeparture(departure); err != nil {
		return departures, err
	}

	updated := append([]string{}, departures...)

	if index := slices.Index(updated, departure); index >= 0 {
		return append(updated[:index], updated[index+1:]...), nil
	}

	updated = append(updated, departure)
	slices.Sort(updated)

	return updated, nil
}

// SynthesizeStopTimes produces the stop-by-trip time matrix: for each
// departure t0 and stop at position i with resolved distance d, the time is
// t0 + d/speed + dwell*i, with the first stop incurring no dwell. Fractional
// seconds are truncated. This is a drafting aid using a flat speed
// assumption, not a traffic-aware estimate.
//
// An empty departure set yields an empty table. Fewer than 2 stops is a
// precondition failure.
func SynthesizeStopTimes(stops []StopReference, stopDistances []float64, departures []string, speed float64, dwellSeconds int) (StopTimeTable, error) {
	if len(stops) < 2 || len(stopDistances) != len(stops) {
		return nil, ErrPreconditionNotMet
	}

	if speed <= 0 {
		speed = DefaultSpeed
	}

	table := StopTimeTable{}

	for _, departure := range departures {
		start, err := ParseDeparture(departure)
		if err != nil {
			return nil, err
		}

		row := make([]StopTimeCell, len(stops))
		for i := range stops {
			seconds := start + int(stopDistances[i]/speed) + dwellSeconds*i

			row[i] = StopTimeCell{Time: formatStopTime(seconds)}
		}

		table[departure] = row
	}

	return table, nil
}

// EditCell overwrites a single cell with a user-supplied value and marks it
// manual. The value is trusted as-is: monotonicity is not re-validated, so
// exports must not assume ordered times after manual edits.
func EditCell(table StopTimeTable, tripKey string, stopIndex int, value string) error {
	row, ok := table[tripKey]
	if !ok {
		return ErrUnknownTrip
	}

	if stopIndex < 0 || stopIndex >= len(row) {
		return ErrCellIndex
	}

	row[stopIndex] = StopTimeCell{Time: value, Manual: true}

	return nil
}

// HasManualEdits reports whether any cell carries a manual override. Callers
// must warn before triggering a recompute when this is true, since a
// recompute rebuilds the whole table.
func HasManualEdits(table StopTimeTable) bool {
	for _, row := range table {
		for _, cell := range row {
			if cell.Manual {
				return true
			}
		}
	}

	return false
}

// Times past midnight keep counting upwards (25:10:00), matching how
// transit schedules express owl services.
func formatStopTime(seconds int) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
