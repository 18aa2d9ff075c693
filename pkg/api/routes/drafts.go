package routes

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
	"github.com/transitdraft/transitdraft/pkg/dataexporter/gtfs"
	"github.com/transitdraft/transitdraft/pkg/draft"
	"github.com/transitdraft/transitdraft/pkg/draftstore"
	"github.com/transitdraft/transitdraft/pkg/geo"
	"github.com/transitdraft/transitdraft/pkg/routing"
	"github.com/transitdraft/transitdraft/pkg/util"
)

var routePlanner draft.RoutePlanner
var geocoder routing.Geocoder

// Setup wires the external collaborators used by the draft routes. Both are
// allowed to be nil; every operation degrades per its documented fallback.
func Setup(planner draft.RoutePlanner, suggester routing.Geocoder) {
	routePlanner = planner
	geocoder = suggester
}

func DraftsRouter(router fiber.Router) {
	router.Post("/", createDraft)
	router.Get("/:identifier", getDraft)
	router.Delete("/:identifier", deleteDraft)

	router.Get("/:identifier/distances", getDraftDistances)
	router.Get("/:identifier/export", exportDraft)

	router.Post("/:identifier/stops", addStop)
	router.Post("/:identifier/stops/loop", loopStop)
	router.Post("/:identifier/stops/reorder", reorderStops)
	router.Post("/:identifier/stops/sequence", setStopSequence)
	router.Delete("/:identifier/stops/:stopid", removeStopVisits)
	router.Delete("/:identifier/stops/:stopid/:pass", removeStop)

	router.Post("/:identifier/shape/generate", generateShape)
	router.Post("/:identifier/shape/points", insertShapePoint)
	router.Put("/:identifier/shape/points/:index", moveShapePoint)
	router.Delete("/:identifier/shape/points/:index", removeShapePoint)
	router.Post("/:identifier/shape/improve", improveSegment)

	router.Post("/:identifier/departures/toggle", toggleDeparture)
	router.Post("/:identifier/schedule/synthesize", synthesizeSchedule)
	router.Post("/:identifier/schedule/recompute", recomputeSchedule)
	router.Post("/:identifier/schedule/cell", editScheduleCell)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, draftstore.ErrDraftNotFound), errors.Is(err, draft.ErrStopNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, draft.ErrStopAlreadyPresent), errors.Is(err, draft.ErrStaleResult):
		return fiber.StatusConflict
	case errors.Is(err, draft.ErrPreconditionNotMet), errors.Is(err, draft.ErrMinimumShapeSize):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusBadRequest
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	c.SendStatus(statusForError(err))
	return c.JSON(fiber.Map{
		"error": err.Error(),
	})
}

func loadDraft(c *fiber.Ctx) (*draft.Draft, error) {
	return draftstore.Get(c.Context(), c.Params("identifier"))
}

// saveAndRespond persists the mutated draft and returns it, along with any
// non-fatal warning raised by a degraded collaborator.
func saveAndRespond(c *fiber.Ctx, d *draft.Draft, warning *draft.Warning) error {
	if err := draftstore.Save(c.Context(), d); err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not save draft",
		})
	}

	draftReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, d)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Draft",
		})
	}

	response := fiber.Map{
		"draft": draftReduced,
	}
	if warning != nil {
		response["warning"] = warning.Message
	}

	return c.JSON(response)
}

func createDraft(c *fiber.Ctx) error {
	var requestBody struct {
		Identifier       string   `json:"identifier"`
		RouteName        string   `json:"route_name"`
		RouteColour      string   `json:"route_colour"`
		ServiceCalendars []string `json:"service_calendars"`
	}
	c.BodyParser(&requestBody)

	if requestBody.Identifier == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "No identifier set",
		})
	}

	d := draft.NewDraft(requestBody.Identifier, requestBody.RouteName, requestBody.RouteColour)
	d.ServiceCalendars = util.RemoveDuplicateStrings(requestBody.ServiceCalendars, nil)

	return saveAndRespond(c, d, nil)
}

func getDraft(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	draftReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, d)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Draft",
		})
	}

	return c.JSON(draftReduced)
}

func deleteDraft(c *fiber.Ctx) error {
	if err := draftstore.Delete(c.Context(), c.Params("identifier")); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

func getDraftDistances(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"shape_distances": d.ShapeDistances(),
		"stop_distances":  d.StopDistances(),
	})
}

func addStop(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var requestBody struct {
		StopID    string  `json:"stop_id"`
		IsNew     bool    `json:"is_new"`
		Code      string  `json:"code"`
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	c.BodyParser(&requestBody)

	if requestBody.StopID == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "No stop_id set",
		})
	}

	candidate := draft.StopReference{
		StopID: requestBody.StopID,
		IsNew:  requestBody.IsNew,
		Code:   requestBody.Code,
		Name:   requestBody.Name,
		Location: geo.Location{
			Latitude:  requestBody.Latitude,
			Longitude: requestBody.Longitude,
		},
	}

	var warning *draft.Warning

	// A freshly drafted stop with no name gets an advisory suggestion
	// from the reverse geocoder; an identifier-based name on failure.
	if candidate.IsNew && candidate.Name == "" {
		candidate.Name = fmt.Sprintf("Stop %s", candidate.StopID)

		if geocoder != nil {
			suggestedName, geocodeErr := geocoder.SuggestName(c.Context(), candidate.Location)
			if geocodeErr == nil {
				candidate.Name = suggestedName
			} else {
				log.Warn().Err(geocodeErr).Msg("Geocoder failed to suggest a stop name")
				warning = &draft.Warning{
					Message: "Could not suggest a name for the new stop",
					Cause:   geocodeErr,
				}
			}
		}
	}

	if err := d.AddStop(candidate); err != nil {
		return errorResponse(c, err)
	}

	return saveAndRespond(c, d, warning)
}

func loopStop(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var requestBody struct {
		StopID string `json:"stop_id"`
	}
	c.BodyParser(&requestBody)

	if err := d.LoopStop(requestBody.StopID); err != nil {
		return errorResponse(c, err)
	}

	return saveAndRespond(c, d, nil)
}

func removeStopVisits(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	d.RemoveStopVisits(c.Params("stopid"))

	return saveAndRespond(c, d, nil)
}

func removeStop(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	pass, err := c.ParamsInt("pass")
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter pass should be an integer",
		})
	}

	if err := d.RemoveStop(c.Params("stopid"), pass); err != nil {
		return errorResponse(c, err)
	}

	return saveAndRespond(c, d, nil)
}

func reorderStops(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var requestBody struct {
		FromIndex int `json:"from_index"`
		ToIndex   int `json:"to_index"`
	}
	c.BodyParser(&requestBody)

	d.ReorderStops(requestBody.FromIndex, requestBody.ToIndex)

	return saveAndRespond(c, d, nil)
}

func setStopSequence(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var requestBody struct {
		StopID   string `json:"stop_id"`
		Pass     int    `json:"pass"`
		Sequence int    `json:"sequence"`
	}
	c.BodyParser(&requestBody)

	if requestBody.Pass == 0 {
		requestBody.Pass = 1
	}

	if err := d.SetStopSequence(requestBody.StopID, requestBody.Pass, requestBody.Sequence); err != nil {
		return errorResponse(c, err)
	}

	return saveAndRespond(c, d, nil)
}

func generateShape(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	if len(d.Stops) < 2 {
		return errorResponse(c, draft.ErrPreconditionNotMet)
	}

	warning, err := d.GenerateShape(c.Context(), routePlanner)
	if err != nil {
		return errorResponse(c, err)
	}

	return saveAndRespond(c, d, warning)
}

func insertShapePoint(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var requestBody struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	c.BodyParser(&requestBody)

	d.InsertShapePoint(geo.Location{
		Latitude:  requestBody.Latitude,
		Longitude: requestBody.Longitude,
	})

	return saveAndRespond(c, d, nil)
}

func moveShapePoint(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	index, err := c.ParamsInt("index")
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter index should be an integer",
		})
	}

	var requestBody struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	c.BodyParser(&requestBody)

	if err := d.MoveShapePoint(index, geo.Location{
		Latitude:  requestBody.Latitude,
		Longitude: requestBody.Longitude,
	}); err != nil {
		return errorResponse(c, err)
	}

	return saveAndRespond(c, d, nil)
}

func removeShapePoint(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	index, err := c.ParamsInt("index")
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter index should be an integer",
		})
	}

	if err := d.RemoveShapePoint(index); err != nil {
		return errorResponse(c, err)
	}

	return saveAndRespond(c, d, nil)
}

func improveSegment(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var requestBody struct {
		StartIndex int `json:"start_index"`
		EndIndex   int `json:"end_index"`
	}
	c.BodyParser(&requestBody)

	warning, err := d.ImproveSegment(c.Context(), routePlanner, requestBody.StartIndex, requestBody.EndIndex)
	if err != nil {
		return errorResponse(c, err)
	}

	return saveAndRespond(c, d, warning)
}

func toggleDeparture(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var requestBody struct {
		Departure string `json:"departure"`
	}
	c.BodyParser(&requestBody)

	if err := d.ToggleDeparture(requestBody.Departure); err != nil {
		return errorResponse(c, err)
	}

	return saveAndRespond(c, d, nil)
}

func synthesizeSchedule(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var requestBody struct {
		Speed        float64 `json:"speed"`
		DwellSeconds int     `json:"dwell_seconds"`
	}
	c.BodyParser(&requestBody)

	if requestBody.Speed == 0 {
		requestBody.Speed = draft.DefaultSpeed
	}
	if requestBody.DwellSeconds == 0 {
		requestBody.DwellSeconds = draft.DefaultDwellSeconds
	}

	if err := d.Synthesize(requestBody.Speed, requestBody.DwellSeconds); err != nil {
		return errorResponse(c, err)
	}

	return saveAndRespond(c, d, nil)
}

func recomputeSchedule(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var requestBody struct {
		Speed        float64 `json:"speed"`
		DwellSeconds int     `json:"dwell_seconds"`
		Confirm      bool    `json:"confirm"`
	}
	c.BodyParser(&requestBody)

	// Recompute throws away manual edits, so it needs an explicit
	// confirmation once any exist.
	if draft.HasManualEdits(d.StopTimes) && !requestBody.Confirm {
		c.SendStatus(fiber.StatusConflict)
		return c.JSON(fiber.Map{
			"error": "Draft has manually edited stop times; set confirm to discard them",
		})
	}

	if requestBody.Speed == 0 {
		requestBody.Speed = draft.DefaultSpeed
	}
	if requestBody.DwellSeconds == 0 {
		requestBody.DwellSeconds = draft.DefaultDwellSeconds
	}

	if err := d.Recompute(requestBody.Speed, requestBody.DwellSeconds); err != nil {
		return errorResponse(c, err)
	}

	return saveAndRespond(c, d, nil)
}

func editScheduleCell(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var requestBody struct {
		Departure string `json:"departure"`
		StopIndex int    `json:"stop_index"`
		Time      string `json:"time"`
	}
	c.BodyParser(&requestBody)

	if err := d.EditCell(requestBody.Departure, requestBody.StopIndex, requestBody.Time); err != nil {
		return errorResponse(c, err)
	}

	return saveAndRespond(c, d, nil)
}

func exportDraft(c *fiber.Ctx) error {
	d, err := loadDraft(c)
	if err != nil {
		return errorResponse(c, err)
	}

	payload, err := gtfs.Build(d)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(payload)
}
