package handlers

import (
	"net/http"

	"turf-booking/internal/booking"
	"turf-booking/internal/services"
	"turf-booking/models"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

// AdminHandler manages turfs and their price bands. Every route is gated
// on superuser auth.
type AdminHandler struct {
	app            *pocketbase.PocketBase
	pricingService *services.PricingService
	bookingService *services.BookingService
}

func NewAdminHandler(app *pocketbase.PocketBase, pricingService *services.PricingService, bookingService *services.BookingService) *AdminHandler {
	return &AdminHandler{
		app:            app,
		pricingService: pricingService,
		bookingService: bookingService,
	}
}

func requireSuperuser(e *core.RequestEvent) error {
	if !e.HasSuperuserAuth() {
		return apis.NewForbiddenError("Superuser access required", nil)
	}
	return nil
}

type turfRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
	Active      *bool  `json:"active"`
}

func validateOperatingHours(opening, closing string) error {
	open, err := booking.ParseClock(opening)
	if err != nil {
		return apis.NewBadRequestError("opening_time must be HH:MM", err)
	}
	close, err := booking.ParseClock(closing)
	if err != nil {
		return apis.NewBadRequestError("closing_time must be HH:MM", err)
	}
	if open >= close {
		return apis.NewBadRequestError("opening_time must be before closing_time", nil)
	}
	if int(open)%booking.Granularity != 0 || int(close)%booking.Granularity != 0 {
		return apis.NewBadRequestError("operating hours must align to the slot grid", nil)
	}
	return nil
}

// ListTurfs - All turfs, inactive ones included; the public listing shows
// only active turfs
func (h *AdminHandler) ListTurfs(e *core.RequestEvent) error {
	if err := requireSuperuser(e); err != nil {
		return err
	}

	turfs := []models.Turf{}
	err := h.app.DB().
		Select("id", "name", "location", "description", "opening_time", "closing_time", "active").
		From("turfs").
		OrderBy("name ASC").
		All(&turfs)
	if err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"turfs": turfs})
}

// CreateTurf - Register a new turf
func (h *AdminHandler) CreateTurf(e *core.RequestEvent) error {
	if err := requireSuperuser(e); err != nil {
		return err
	}

	var req turfRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Name == "" || req.OpeningTime == "" || req.ClosingTime == "" {
		return apis.NewBadRequestError("name, opening_time and closing_time are required", nil)
	}
	if err := validateOperatingHours(req.OpeningTime, req.ClosingTime); err != nil {
		return err
	}

	collection, err := h.app.FindCollectionByNameOrId("turfs")
	if err != nil {
		return mapServiceError(err)
	}

	record := core.NewRecord(collection)
	record.Set("name", req.Name)
	record.Set("location", req.Location)
	record.Set("description", req.Description)
	record.Set("opening_time", req.OpeningTime)
	record.Set("closing_time", req.ClosingTime)
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	record.Set("active", active)

	if err := h.app.Save(record); err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusCreated, map[string]any{"id": record.Id})
}

// UpdateTurf - Edit an existing turf
func (h *AdminHandler) UpdateTurf(e *core.RequestEvent) error {
	if err := requireSuperuser(e); err != nil {
		return err
	}

	turfID := e.Request.PathValue("turfId")
	record, err := h.app.FindRecordById("turfs", turfID)
	if err != nil {
		return apis.NewNotFoundError("Turf not found", err)
	}

	var req turfRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if req.Name != "" {
		record.Set("name", req.Name)
	}
	if req.Location != "" {
		record.Set("location", req.Location)
	}
	if req.Description != "" {
		record.Set("description", req.Description)
	}

	opening := record.GetString("opening_time")
	closing := record.GetString("closing_time")
	if req.OpeningTime != "" {
		opening = req.OpeningTime
	}
	if req.ClosingTime != "" {
		closing = req.ClosingTime
	}
	if err := validateOperatingHours(opening, closing); err != nil {
		return err
	}
	record.Set("opening_time", opening)
	record.Set("closing_time", closing)

	if req.Active != nil {
		record.Set("active", *req.Active)
	}

	if err := h.app.Save(record); err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"id": record.Id})
}

// DeleteTurf - Remove a turf; its price bands cascade away while past
// bookings keep their records
func (h *AdminHandler) DeleteTurf(e *core.RequestEvent) error {
	if err := requireSuperuser(e); err != nil {
		return err
	}

	turfID := e.Request.PathValue("turfId")
	record, err := h.app.FindRecordById("turfs", turfID)
	if err != nil {
		return apis.NewNotFoundError("Turf not found", err)
	}

	if err := h.app.Delete(record); err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"deleted": turfID})
}

type pricingSlotRequest struct {
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	PricePerHour int    `json:"price_per_hour"`
}

// CreatePricingSlot - Add a price band to a turf
func (h *AdminHandler) CreatePricingSlot(e *core.RequestEvent) error {
	if err := requireSuperuser(e); err != nil {
		return err
	}

	turfID := e.Request.PathValue("turfId")
	if _, err := h.app.FindRecordById("turfs", turfID); err != nil {
		return apis.NewNotFoundError("Turf not found", err)
	}

	var req pricingSlotRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.StartTime == "" || req.EndTime == "" {
		return apis.NewBadRequestError("start_time and end_time are required", nil)
	}
	if req.PricePerHour <= 0 {
		return apis.NewBadRequestError("price_per_hour must be positive", nil)
	}

	if err := h.pricingService.ValidateNoBandOverlap(turfID, req.StartTime, req.EndTime, ""); err != nil {
		return mapServiceError(err)
	}

	collection, err := h.app.FindCollectionByNameOrId("pricing_slots")
	if err != nil {
		return mapServiceError(err)
	}

	record := core.NewRecord(collection)
	record.Set("turf_id", turfID)
	record.Set("start_time", req.StartTime)
	record.Set("end_time", req.EndTime)
	record.Set("price_per_hour", req.PricePerHour)

	if err := h.app.Save(record); err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusCreated, map[string]any{"id": record.Id})
}

// UpdatePricingSlot - Edit a price band
func (h *AdminHandler) UpdatePricingSlot(e *core.RequestEvent) error {
	if err := requireSuperuser(e); err != nil {
		return err
	}

	slotID := e.Request.PathValue("slotId")
	record, err := h.app.FindRecordById("pricing_slots", slotID)
	if err != nil {
		return apis.NewNotFoundError("Pricing slot not found", err)
	}

	var req pricingSlotRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	start := record.GetString("start_time")
	end := record.GetString("end_time")
	if req.StartTime != "" {
		start = req.StartTime
	}
	if req.EndTime != "" {
		end = req.EndTime
	}

	turfID := record.GetString("turf_id")
	if err := h.pricingService.ValidateNoBandOverlap(turfID, start, end, record.Id); err != nil {
		return mapServiceError(err)
	}

	record.Set("start_time", start)
	record.Set("end_time", end)
	if req.PricePerHour > 0 {
		record.Set("price_per_hour", req.PricePerHour)
	}

	if err := h.app.Save(record); err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"id": record.Id})
}

// DeletePricingSlot - Remove a price band; windows it covered fall back to
// the default rate
func (h *AdminHandler) DeletePricingSlot(e *core.RequestEvent) error {
	if err := requireSuperuser(e); err != nil {
		return err
	}

	slotID := e.Request.PathValue("slotId")
	record, err := h.app.FindRecordById("pricing_slots", slotID)
	if err != nil {
		return apis.NewNotFoundError("Pricing slot not found", err)
	}

	if err := h.app.Delete(record); err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"deleted": slotID})
}

// ListPricingSlots - List a turf's price bands
func (h *AdminHandler) ListPricingSlots(e *core.RequestEvent) error {
	if err := requireSuperuser(e); err != nil {
		return err
	}

	turfID := e.Request.PathValue("turfId")
	slots, err := h.pricingService.BandsForTurf(turfID)
	if err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"pricing_slots": slots})
}

// ListBookings - List bookings across users, optionally filtered by turf
// and date
func (h *AdminHandler) ListBookings(e *core.RequestEvent) error {
	if err := requireSuperuser(e); err != nil {
		return err
	}

	turfID := e.Request.URL.Query().Get("turf_id")
	date := e.Request.URL.Query().Get("date")

	bookings, err := h.bookingService.AllBookings(e.Request.Context(), turfID, date)
	if err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"bookings": bookings,
		"total":    len(bookings),
	})
}
