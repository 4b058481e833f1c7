package handlers

import (
	"net/http"

	"turf-booking/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type TurfHandler struct {
	app *pocketbase.PocketBase
}

func NewTurfHandler(app *pocketbase.PocketBase) *TurfHandler {
	return &TurfHandler{app: app}
}

// GetTurfs - List active turfs
func (h *TurfHandler) GetTurfs(e *core.RequestEvent) error {
	turfs := []models.Turf{}
	err := h.app.DB().
		Select("id", "name", "location", "description", "opening_time", "closing_time", "active").
		From("turfs").
		Where(dbx.HashExp{"active": true}).
		OrderBy("name ASC").
		All(&turfs)
	if err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"turfs": turfs})
}

// GetTurf - Get one turf
func (h *TurfHandler) GetTurf(e *core.RequestEvent) error {
	turfID := e.Request.PathValue("turfId")
	if turfID == "" {
		return apis.NewBadRequestError("Turf ID is required", nil)
	}

	record, err := h.app.FindRecordById("turfs", turfID)
	if err != nil {
		return apis.NewNotFoundError("Turf not found", err)
	}

	return e.JSON(http.StatusOK, models.Turf{
		ID:          record.Id,
		Name:        record.GetString("name"),
		Location:    record.GetString("location"),
		Description: record.GetString("description"),
		OpeningTime: record.GetString("opening_time"),
		ClosingTime: record.GetString("closing_time"),
		Active:      record.GetBool("active"),
	})
}
