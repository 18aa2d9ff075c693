package draft

import "github.com/transitdraft/transitdraft/pkg/geo"

// StopReference represents one visit to a transit stop within the draft
// route. The same StopID may appear more than once when the route loops back
// past a stop; PassNumber distinguishes the visits.
type StopReference struct {
	StopID string `json:"stop_id" groups:"basic"`

	// IsNew marks a stop drafted on the map rather than one that already
	// exists in the persisted stop registry.
	IsNew bool `json:"is_new" groups:"basic"`

	Code string `json:"code,omitempty" groups:"basic"`
	Name string `json:"name" groups:"basic"`

	Location geo.Location `json:"location" groups:"basic"`

	// PassNumber is the 1-based count of how many times this StopID has
	// been added. Anything above 1 denotes a loop visit.
	PassNumber int `json:"pass_number" groups:"basic"`

	// Sequence orders the stop within the route. Strictly increasing
	// across the list, gaps allowed.
	Sequence int `json:"sequence" groups:"basic"`
}

func countPasses(stops []StopReference, stopID string) int {
	count := 0
	for _, stop := range stops {
		if stop.StopID == stopID {
			count++
		}
	}

	return count
}

func nextSequence(stops []StopReference) int {
	next := 1
	for _, stop := range stops {
		if stop.Sequence >= next {
			next = stop.Sequence + 1
		}
	}

	return next
}
