package draft

import "errors"

var (
	// ErrPreconditionNotMet is returned when an operation refuses to run
	// because its inputs are too small to act on (eg. synthesising a
	// schedule for fewer than 2 stops).
	ErrPreconditionNotMet = errors.New("precondition not met")

	// ErrMinimumShapeSize is returned when removing a shape point would
	// drop the shape below 2 points.
	ErrMinimumShapeSize = errors.New("shape requires a minimum of 2 points")

	// ErrSegmentOrder is returned when an improve-segment request has its
	// end index at or before its start index.
	ErrSegmentOrder = errors.New("segment end index must be greater than start index")

	ErrStopAlreadyPresent = errors.New("stop already present in draft")
	ErrStopNotFound       = errors.New("stop not found in draft")
	ErrPointIndex         = errors.New("shape point index out of range")
	ErrUnknownTrip        = errors.New("no trip with that departure time")
	ErrCellIndex          = errors.New("stop time cell index out of range")
	ErrInvalidDeparture   = errors.New("departure must be HH:MM on a 5 minute boundary")

	// ErrStaleResult is returned when an asynchronous collaborator result
	// arrives after the draft has moved on to a newer generation.
	ErrStaleResult = errors.New("draft generation advanced past the request")
)

// Warning carries a non-fatal degradation signal, eg. the routing
// collaborator being unavailable. The draft remains usable; callers surface
// the message as a non-blocking notification.
type Warning struct {
	Message string `json:"message" groups:"basic"`
	Cause   error  `json:"-"`
}

func (w *Warning) Error() string {
	return w.Message
}

func (w *Warning) Unwrap() error {
	return w.Cause
}
