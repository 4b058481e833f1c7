package handlers

import (
	"net/http"
	"strconv"
	"time"

	"turf-booking/internal/services"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type SlotHandler struct {
	app         *pocketbase.PocketBase
	slotService *services.SlotService
}

func NewSlotHandler(app *pocketbase.PocketBase, slotService *services.SlotService) *SlotHandler {
	return &SlotHandler{
		app:         app,
		slotService: slotService,
	}
}

// GetSlots - Availability and price matrix for one turf and date.
// The listing is advisory; admission re-checks at write time.
func (h *SlotHandler) GetSlots(e *core.RequestEvent) error {
	turfID := e.Request.PathValue("turfId")
	if turfID == "" {
		return apis.NewBadRequestError("Turf ID is required", nil)
	}

	query := e.Request.URL.Query()
	date := query.Get("date")
	if date == "" {
		return apis.NewBadRequestError("date is required", nil)
	}

	duration := 60
	if v := query.Get("duration"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return apis.NewBadRequestError("duration must be minutes", err)
		}
		duration = parsed
	}

	slots, err := h.slotService.ListSlots(turfID, date, duration, time.Now())
	if err != nil {
		return mapServiceError(err)
	}

	available := 0
	for _, s := range slots {
		if s.Available {
			available++
		}
	}

	return e.JSON(http.StatusOK, map[string]any{
		"turf_id":          turfID,
		"date":             date,
		"duration_minutes": duration,
		"slots":            slots,
		"total_slots":      len(slots),
		"available_slots":  available,
	})
}
