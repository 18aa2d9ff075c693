package draft

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/transitdraft/transitdraft/pkg/geo"
)

// RoutePlanner is the external routing collaborator: given ordered
// waypoints it returns a road-network-following path through them.
type RoutePlanner interface {
	Route(ctx context.Context, waypoints []geo.Location) ([]geo.Location, error)
}

// GenerateShapeFromStops asks the routing collaborator for a path through
// the ordered stops. When the collaborator fails the stops are connected
// with straight segments instead and a non-fatal warning is returned; the
// draft stays usable either way.
func GenerateShapeFromStops(ctx context.Context, planner RoutePlanner, stops []StopReference) ([]geo.Location, *Warning) {
	waypoints := make([]geo.Location, 0, len(stops))
	for _, stop := range stops {
		waypoints = append(waypoints, stop.Location)
	}

	if planner != nil {
		path, err := planner.Route(ctx, waypoints)
		if err == nil && len(path) >= 2 {
			return path, nil
		}

		if err != nil {
			log.Warn().Err(err).Msg("Routing collaborator failed, falling back to straight line shape")

			return waypoints, &Warning{
				Message: "Could not calculate a road-following path; stops connected with straight lines",
				Cause:   err,
			}
		}
	}

	return waypoints, &Warning{
		Message: "No routing available; stops connected with straight lines",
	}
}

// InsertShapePoint inserts p immediately after the lower index of the
// nearest segment. A shape with fewer than 2 points has no segments, so the
// call is a no-op there; the caller must seed a shape first.
func InsertShapePoint(shape []geo.Location, p geo.Location) []geo.Location {
	segmentIndex, ok := geo.NearestSegment(p, shape)
	if !ok {
		return shape
	}

	updated := make([]geo.Location, 0, len(shape)+1)
	updated = append(updated, shape[:segmentIndex+1]...)
	updated = append(updated, p)
	updated = append(updated, shape[segmentIndex+1:]...)

	return updated
}

// MoveShapePoint replaces the coordinates of a single point without
// changing point count or order.
func MoveShapePoint(shape []geo.Location, index int, p geo.Location) ([]geo.Location, error) {
	if index < 0 || index >= len(shape) {
		return shape, ErrPointIndex
	}

	updated := append([]geo.Location{}, shape...)
	updated[index] = p

	return updated, nil
}

// RemoveShapePoint removes one point, refusing when that would leave fewer
// than 2 points.
func RemoveShapePoint(shape []geo.Location, index int) ([]geo.Location, error) {
	if index < 0 || index >= len(shape) {
		return shape, ErrPointIndex
	}

	if len(shape) <= 2 {
		return shape, ErrMinimumShapeSize
	}

	updated := append([]geo.Location{}, shape[:index]...)
	updated = append(updated, shape[index+1:]...)

	return updated, nil
}

// ImproveSegment re-routes the stretch between two existing shape points.
// The boundary points are sent to the routing collaborator as a 2-waypoint
// request; on success the returned intermediate points replace the old ones
// between the boundaries, which are kept intact. On collaborator failure the
// segment is left untouched and a warning is returned.
func ImproveSegment(ctx context.Context, planner RoutePlanner, shape []geo.Location, startIndex int, endIndex int) ([]geo.Location, *Warning, error) {
	if startIndex < 0 || endIndex >= len(shape) {
		return shape, nil, ErrPointIndex
	}

	if endIndex <= startIndex {
		return shape, nil, ErrSegmentOrder
	}

	if planner == nil {
		return shape, &Warning{
			Message: "No routing available; segment left unchanged",
		}, nil
	}

	path, err := planner.Route(ctx, []geo.Location{shape[startIndex], shape[endIndex]})
	if err != nil {
		log.Warn().Err(err).Int("start", startIndex).Int("end", endIndex).Msg("Routing collaborator failed, segment left unchanged")

		return shape, &Warning{
			Message: "Could not improve segment; it has been left unchanged",
			Cause:   err,
		}, nil
	}

	// The collaborator echoes the boundary points at either end of its
	// path; only the interior is spliced in.
	var intermediates []geo.Location
	if len(path) > 2 {
		intermediates = path[1 : len(path)-1]
	}

	updated := make([]geo.Location, 0, startIndex+1+len(intermediates)+len(shape)-endIndex)
	updated = append(updated, shape[:startIndex+1]...)
	updated = append(updated, intermediates...)
	updated = append(updated, shape[endIndex:]...)

	return updated, nil, nil
}
