package draft

import (
	"context"
	"time"

	"github.com/transitdraft/transitdraft/pkg/geo"
)

// Draft is the mutable aggregate for one route being built: the ordered
// stop list, the shape polyline, the departure set and the stop time table,
// plus the route metadata carried through to export. A draft is owned by a
// single editing session and never shared across sessions.
type Draft struct {
	Identifier string `json:"identifier" groups:"basic"`

	CreationDateTime     time.Time `json:"creation_datetime" groups:"basic"`
	ModificationDateTime time.Time `json:"modification_datetime" groups:"basic"`

	RouteName   string `json:"route_name" groups:"basic"`
	RouteColour string `json:"route_colour" groups:"basic"`

	Stops      []StopReference `json:"stops" groups:"basic"`
	Shape      []geo.Location  `json:"shape" groups:"basic"`
	Departures []string        `json:"departures" groups:"basic"`
	StopTimes  StopTimeTable   `json:"stop_times" groups:"basic"`

	// ServiceCalendars determines how many physical trips each departure
	// expands into at export time.
	ServiceCalendars []string `json:"service_calendars" groups:"basic"`

	// Generation advances on every mutation. In-flight collaborator
	// results captured against an older generation are discarded rather
	// than applied over newer edits.
	Generation uint64 `json:"generation" groups:"basic"`
}

func NewDraft(identifier string, routeName string, routeColour string) *Draft {
	now := time.Now()

	return &Draft{
		Identifier:           identifier,
		CreationDateTime:     now,
		ModificationDateTime: now,
		RouteName:            routeName,
		RouteColour:          routeColour,
		StopTimes:            StopTimeTable{},
	}
}

func (d *Draft) touch() {
	d.Generation++
	d.ModificationDateTime = time.Now()
}

// BeginAsyncRequest captures the current generation for a collaborator call
// that will complete later.
func (d *Draft) BeginAsyncRequest() uint64 {
	return d.Generation
}

// Stale reports whether the draft has been edited since the given
// generation was captured, in which case the pending result must be
// discarded.
func (d *Draft) Stale(generation uint64) bool {
	return d.Generation != generation
}

// NormalizedStops returns the stop list with valid, strictly increasing
// sequence values.
func (d *Draft) NormalizedStops() []StopReference {
	return NormalizeStops(d.Stops)
}

// StopDistances projects every stop onto the current shape, returning the
// non-decreasing distance-along-path per stop.
func (d *Draft) StopDistances() []float64 {
	return ProjectStopsOntoPath(d.NormalizedStops(), d.Shape)
}

// ShapeDistances returns the cumulative distance at every shape point.
func (d *Draft) ShapeDistances() []float64 {
	return geo.CumulativeDistances(d.Shape)
}

func (d *Draft) AddStop(candidate StopReference) error {
	stops, err := AddStop(d.Stops, candidate)
	if err != nil {
		return err
	}

	d.Stops = stops
	d.touch()

	return nil
}

func (d *Draft) LoopStop(stopID string) error {
	stops, err := LoopStop(d.Stops, stopID)
	if err != nil {
		return err
	}

	d.Stops = stops
	d.touch()

	return nil
}

func (d *Draft) RemoveStopVisits(stopID string) {
	d.Stops = RemoveStopVisits(d.Stops, stopID)
	d.touch()
}

func (d *Draft) RemoveStop(stopID string, pass int) error {
	stops, err := RemoveStop(d.Stops, stopID, pass)
	if err != nil {
		return err
	}

	d.Stops = stops
	d.touch()

	return nil
}

func (d *Draft) ReorderStops(fromIndex int, toIndex int) {
	d.Stops = ReorderStops(d.Stops, fromIndex, toIndex)
	d.touch()
}

func (d *Draft) SetStopSequence(stopID string, pass int, desiredSequence int) error {
	stops, err := SetStopSequence(d.Stops, stopID, pass, desiredSequence)
	if err != nil {
		return err
	}

	d.Stops = stops
	d.touch()

	return nil
}

// GenerateShape rebuilds the whole shape from the ordered stops via the
// routing collaborator, falling back to straight lines on failure. The
// generation captured before the collaborator call guards against applying
// a result over edits made while it was in flight.
func (d *Draft) GenerateShape(ctx context.Context, planner RoutePlanner) (*Warning, error) {
	generation := d.BeginAsyncRequest()

	shape, warning := GenerateShapeFromStops(ctx, planner, d.NormalizedStops())

	if d.Stale(generation) {
		return nil, ErrStaleResult
	}

	d.Shape = shape
	d.touch()

	return warning, nil
}

func (d *Draft) InsertShapePoint(p geo.Location) {
	d.Shape = InsertShapePoint(d.Shape, p)
	d.touch()
}

func (d *Draft) MoveShapePoint(index int, p geo.Location) error {
	shape, err := MoveShapePoint(d.Shape, index, p)
	if err != nil {
		return err
	}

	d.Shape = shape
	d.touch()

	return nil
}

func (d *Draft) RemoveShapePoint(index int) error {
	shape, err := RemoveShapePoint(d.Shape, index)
	if err != nil {
		return err
	}

	d.Shape = shape
	d.touch()

	return nil
}

func (d *Draft) ImproveSegment(ctx context.Context, planner RoutePlanner, startIndex int, endIndex int) (*Warning, error) {
	generation := d.BeginAsyncRequest()

	shape, warning, err := ImproveSegment(ctx, planner, d.Shape, startIndex, endIndex)
	if err != nil {
		return nil, err
	}

	if d.Stale(generation) {
		return nil, ErrStaleResult
	}

	d.Shape = shape
	d.touch()

	return warning, nil
}

func (d *Draft) ToggleDeparture(departure string) error {
	departures, err := ToggleDeparture(d.Departures, departure)
	if err != nil {
		return err
	}

	d.Departures = departures
	d.touch()

	return nil
}

// Synthesize rebuilds the stop time table from the current stops, shape and
// departures. Cells a user has manually edited are carried over where their
// trip and stop position still exist; only Recompute discards them.
func (d *Draft) Synthesize(speed float64, dwellSeconds int) error {
	if len(d.Shape) < 2 {
		return ErrPreconditionNotMet
	}

	stops := d.NormalizedStops()

	table, err := SynthesizeStopTimes(stops, ProjectStopsOntoPath(stops, d.Shape), d.Departures, speed, dwellSeconds)
	if err != nil {
		return err
	}

	for departure, row := range d.StopTimes {
		newRow, ok := table[departure]
		if !ok {
			continue
		}

		for i, cell := range row {
			if cell.Manual && i < len(newRow) {
				newRow[i] = cell
			}
		}
	}

	d.StopTimes = table
	d.touch()

	return nil
}

// Recompute rebuilds the stop time table from scratch, discarding manual
// edits. Explicit and user-triggered; callers warn first when
// HasManualEdits reports true.
func (d *Draft) Recompute(speed float64, dwellSeconds int) error {
	if len(d.Shape) < 2 {
		return ErrPreconditionNotMet
	}

	stops := d.NormalizedStops()

	table, err := SynthesizeStopTimes(stops, ProjectStopsOntoPath(stops, d.Shape), d.Departures, speed, dwellSeconds)
	if err != nil {
		return err
	}

	d.StopTimes = table
	d.touch()

	return nil
}

func (d *Draft) EditCell(tripKey string, stopIndex int, value string) error {
	if err := EditCell(d.StopTimes, tripKey, stopIndex, value); err != nil {
		return err
	}

	d.touch()

	return nil
}
