package handlers

import (
	"net/http"

	"turf-booking/internal/services"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type BookingHandler struct {
	app            *pocketbase.PocketBase
	bookingService *services.BookingService
}

func NewBookingHandler(app *pocketbase.PocketBase, bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{
		app:            app,
		bookingService: bookingService,
	}
}

// CreateBooking - Admit a requested window for the authenticated user
func (h *BookingHandler) CreateBooking(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		TurfID      string `json:"turf_id"`
		BookingDate string `json:"booking_date"`
		StartTime   string `json:"start_time"`
		EndTime     string `json:"end_time"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.TurfID == "" || req.BookingDate == "" || req.StartTime == "" || req.EndTime == "" {
		return apis.NewBadRequestError("turf_id, booking_date, start_time and end_time are required", nil)
	}

	bkg, err := h.bookingService.CreateBooking(
		e.Request.Context(),
		e.Auth.Id,
		req.TurfID,
		req.BookingDate,
		req.StartTime,
		req.EndTime,
	)
	if err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, bkg)
}

// GetBookingHistory - Get the requester's bookings, newest first
func (h *BookingHandler) GetBookingHistory(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	bookings, err := h.bookingService.BookingHistory(e.Request.Context(), e.Auth.Id, 20)
	if err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"bookings": bookings})
}

// CancelBooking - Owner cancellation, allowed more than 24h before start
func (h *BookingHandler) CancelBooking(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	bookingID := e.Request.PathValue("bookingId")
	if bookingID == "" {
		return apis.NewBadRequestError("Booking ID is required", nil)
	}

	bkg, err := h.bookingService.CancelBooking(e.Request.Context(), bookingID, e.Auth.Id)
	if err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, bkg)
}

// UpdateStatus - Explicit payment/booking status update for a booking the
// requester owns (superusers may update any booking)
func (h *BookingHandler) UpdateStatus(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	bookingID := e.Request.PathValue("bookingId")
	if bookingID == "" {
		return apis.NewBadRequestError("Booking ID is required", nil)
	}

	var req struct {
		PaymentStatus string `json:"payment_status"`
		BookingStatus string `json:"booking_status"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.PaymentStatus == "" && req.BookingStatus == "" {
		return apis.NewBadRequestError("Nothing to update", nil)
	}

	if !e.HasSuperuserAuth() {
		existing, err := h.bookingService.GetBooking(e.Request.Context(), bookingID)
		if err != nil {
			return mapServiceError(err)
		}
		if existing.UserID != e.Auth.Id {
			return apis.NewForbiddenError("Access denied", nil)
		}
	}

	bkg, err := h.bookingService.UpdateStatus(e.Request.Context(), bookingID, req.PaymentStatus, req.BookingStatus)
	if err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, bkg)
}
