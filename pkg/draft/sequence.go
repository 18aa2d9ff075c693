package draft

import (
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/transitdraft/transitdraft/pkg/util"
	"golang.org/x/exp/slices"
)

// All sequence operations are pure: they deep-copy the input list and return
// a fresh one. The caller decides when to persist the result.

func copyStops(stops []StopReference) []StopReference {
	copied := make([]StopReference, 0, len(stops))

	err := copier.CopyWithOption(&copied, stops, copier.Option{DeepCopy: true})
	if err != nil {
		log.Error().Err(err).Msg("Failed to copy stop list")
		return append([]StopReference{}, stops...)
	}

	return copied
}

// NormalizeStops turns a list carrying desired (possibly non-positive or
// colliding) sequence values into a valid one: sorted by desired sequence
// with ties broken by original position, sequences clamped to a minimum of
// 1, then bumped wherever an entry is not strictly greater than its
// predecessor. Normalizing an already-normal list returns it unchanged.
func NormalizeStops(stops []StopReference) []StopReference {
	normalized := copyStops(stops)

	// Sort on the raw desired values before clamping, so distinct
	// sub-1 desires still order relative to each other
	slices.SortStableFunc(normalized, func(a, b StopReference) int {
		if a.Sequence < b.Sequence {
			return -1
		}
		if a.Sequence > b.Sequence {
			return 1
		}
		return 0
	})

	for i := range normalized {
		if normalized[i].Sequence < 1 {
			normalized[i].Sequence = 1
		}
	}

	for i := 1; i < len(normalized); i++ {
		if normalized[i].Sequence <= normalized[i-1].Sequence {
			normalized[i].Sequence = normalized[i-1].Sequence + 1
		}
	}

	return normalized
}

// AddStop appends a first visit to a stop not yet part of the route, giving
// it the next free sequence value. Adding a StopID already in the list is
// refused; the caller should offer LoopStop or RemoveStopVisits instead.
func AddStop(stops []StopReference, candidate StopReference) ([]StopReference, error) {
	if countPasses(stops, candidate.StopID) > 0 {
		return stops, ErrStopAlreadyPresent
	}

	updated := copyStops(stops)

	candidate.PassNumber = 1
	candidate.Sequence = nextSequence(updated)

	return append(updated, candidate), nil
}

// LoopStop appends a further visit to a stop already in the route, sharing
// its StopID with the earlier visit(s) but carrying the next pass number and
// the next free sequence value. The pass number derives from the highest
// surviving pass, not the visit count, so (StopID, PassNumber) pairs stay
// unique even after individual passes have been removed.
func LoopStop(stops []StopReference, stopID string) ([]StopReference, error) {
	highestPass := 0
	for _, stop := range stops {
		if stop.StopID == stopID && stop.PassNumber > highestPass {
			highestPass = stop.PassNumber
		}
	}

	if highestPass == 0 {
		return stops, ErrStopNotFound
	}

	updated := copyStops(stops)

	var visit StopReference
	for _, stop := range updated {
		if stop.StopID == stopID {
			visit = stop
			break
		}
	}

	visit.PassNumber = highestPass + 1
	visit.Sequence = nextSequence(updated)

	return append(updated, visit), nil
}

// RemoveStopVisits removes every visit to the given StopID. This is the
// decline path of the loop confirmation flow.
func RemoveStopVisits(stops []StopReference, stopID string) []StopReference {
	updated := copyStops(stops)

	util.InPlaceFilter(&updated, func(stop StopReference) bool {
		return stop.StopID != stopID
	})

	return updated
}

// RemoveStop removes exactly one (StopID, pass) visit. Remaining entries
// keep their sequence values; gaps are allowed.
func RemoveStop(stops []StopReference, stopID string, pass int) ([]StopReference, error) {
	found := false

	updated := copyStops(stops)

	util.InPlaceFilter(&updated, func(stop StopReference) bool {
		if stop.StopID == stopID && stop.PassNumber == pass {
			found = true
			return false
		}
		return true
	})

	if !found {
		return stops, ErrStopNotFound
	}

	return updated, nil
}

// ReorderStops moves the entry at fromIndex to toIndex and re-sequences the
// whole list contiguously from 1. Used for explicit drag reordering, where
// sequence gaps carry no meaning. Out of range indexes are clamped.
func ReorderStops(stops []StopReference, fromIndex int, toIndex int) []StopReference {
	updated := copyStops(stops)

	if len(updated) == 0 {
		return updated
	}

	fromIndex = clampIndex(fromIndex, len(updated))
	toIndex = clampIndex(toIndex, len(updated))

	moved := updated[fromIndex]
	updated = append(updated[:fromIndex], updated[fromIndex+1:]...)
	updated = append(updated[:toIndex], append([]StopReference{moved}, updated[toIndex:]...)...)

	for i := range updated {
		updated[i].Sequence = i + 1
	}

	return updated
}

// SetStopSequence repositions a single visit to the desired sequence value.
// When the desired value collides with another entry, that entry and any
// transitively colliding successors are bumped by the minimal amount needed
// to restore strict increase. Non-colliding entries keep their sequence
// values untouched; this is deliberately not a full re-sequence.
func SetStopSequence(stops []StopReference, stopID string, pass int, desiredSequence int) ([]StopReference, error) {
	targetIndex := -1
	for i, stop := range stops {
		if stop.StopID == stopID && stop.PassNumber == pass {
			targetIndex = i
			break
		}
	}

	if targetIndex == -1 {
		return stops, ErrStopNotFound
	}

	if desiredSequence < 1 {
		desiredSequence = 1
	}

	updated := copyStops(stops)

	target := updated[targetIndex]
	target.Sequence = desiredSequence
	updated = append(updated[:targetIndex], updated[targetIndex+1:]...)

	// The target takes the desired slot, displacing any current holder.
	insertAt := len(updated)
	for i, stop := range updated {
		if stop.Sequence >= desiredSequence {
			insertAt = i
			break
		}
	}
	updated = append(updated[:insertAt], append([]StopReference{target}, updated[insertAt:]...)...)

	for i := insertAt + 1; i < len(updated); i++ {
		if updated[i].Sequence > updated[i-1].Sequence {
			break
		}
		updated[i].Sequence = updated[i-1].Sequence + 1
	}

	return updated, nil
}

func clampIndex(index int, length int) int {
	if index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}
