package gtfs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/transitdraft/transitdraft/pkg/draft"
	"github.com/transitdraft/transitdraft/pkg/util"
)

const busRouteType = 3

var (
	ErrNoCalendars     = errors.New("draft has no service calendars selected")
	ErrNotSynthesized  = errors.New("draft schedule has not been synthesized for every departure")
	ErrDraftIncomplete = errors.New("draft needs at least 2 stops and 2 shape points to export")
)

// Payload is the flat export handed to the persistence collaborator: the
// route record, any newly drafted stops, the shape, one trip per
// (departure x service calendar) and one stop time row per (trip x stop).
// Arrival and departure are exported equal; there is no dwell split.
type Payload struct {
	Route     Route
	NewStops  []Stop
	Shapes    []ShapePoint
	Trips     []Trip
	StopTimes []StopTime
}

// Build assembles the export payload from a finished draft.
func Build(d *draft.Draft) (*Payload, error) {
	stops := d.NormalizedStops()

	if len(stops) < 2 || len(d.Shape) < 2 {
		return nil, ErrDraftIncomplete
	}

	calendars := util.RemoveDuplicateStrings(d.ServiceCalendars, nil)
	if len(calendars) == 0 {
		return nil, ErrNoCalendars
	}

	shapeID := fmt.Sprintf("%s-shape", d.Identifier)

	payload := &Payload{
		Route: Route{
			ID:        d.Identifier,
			ShortName: d.RouteName,
			LongName:  d.RouteName,
			Colour:    strings.TrimPrefix(d.RouteColour, "#"),
			Type:      busRouteType,
		},
	}

	for _, stop := range stops {
		if !stop.IsNew || stop.PassNumber > 1 {
			continue
		}

		payload.NewStops = append(payload.NewStops, Stop{
			ID:        stop.StopID,
			Code:      stop.Code,
			Name:      stop.Name,
			Latitude:  stop.Location.Latitude,
			Longitude: stop.Location.Longitude,
		})
	}

	for i, point := range d.Shape {
		payload.Shapes = append(payload.Shapes, ShapePoint{
			ID:        shapeID,
			Latitude:  point.Latitude,
			Longitude: point.Longitude,
			Sequence:  i + 1,
		})
	}

	for _, departure := range d.Departures {
		row, ok := d.StopTimes[departure]
		if !ok || len(row) != len(stops) {
			return nil, ErrNotSynthesized
		}

		for _, calendar := range calendars {
			tripID := fmt.Sprintf("%s-trip-%s-%s", d.Identifier, calendar, strings.ReplaceAll(departure, ":", ""))

			payload.Trips = append(payload.Trips, Trip{
				RouteID:   d.Identifier,
				ServiceID: calendar,
				ID:        tripID,
				ShapeID:   shapeID,
			})

			for i, stop := range stops {
				payload.StopTimes = append(payload.StopTimes, StopTime{
					TripID:        tripID,
					ArrivalTime:   row[i].Time,
					DepartureTime: row[i].Time,
					StopID:        stop.StopID,
					StopSequence:  stop.Sequence,
				})
			}
		}
	}

	return payload, nil
}

// Marshal renders each payload table as a CSV file body, keyed by the
// standard GTFS file name.
func (p *Payload) Marshal() (map[string][]byte, error) {
	files := map[string]interface{}{
		"routes.txt":     &[]Route{p.Route},
		"stops.txt":      &p.NewStops,
		"shapes.txt":     &p.Shapes,
		"trips.txt":      &p.Trips,
		"stop_times.txt": &p.StopTimes,
	}

	output := map[string][]byte{}

	for fileName, records := range files {
		body, err := gocsv.MarshalBytes(records)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", fileName, err)
		}

		output[fileName] = body
	}

	return output, nil
}
