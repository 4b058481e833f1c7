package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"turf-booking/internal/status"

	"github.com/pocketbase/pocketbase/apis"
)

// mapServiceError turns the service error taxonomy into typed API errors so
// callers can branch on kind.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, status.ErrConflict):
		return apis.NewApiError(http.StatusConflict, "Slot no longer available, please pick another", err)
	case errors.Is(err, status.ErrAdmissionBusy):
		return apis.NewApiError(http.StatusServiceUnavailable, "Booking is busy, please retry", err)
	case errors.Is(err, status.ErrInvalidWindow):
		return apis.NewBadRequestError("Invalid time window", err)
	case errors.Is(err, status.ErrPastSlot):
		return apis.NewBadRequestError("Slot start has already elapsed", err)
	case errors.Is(err, status.ErrTooLateToCancel):
		return apis.NewBadRequestError("Cancellation not allowed within 24 hours of booking time", err)
	case errors.Is(err, status.ErrAlreadyCancelled):
		return apis.NewBadRequestError("Booking already cancelled", err)
	case errors.Is(err, status.ErrNotOwner):
		return apis.NewForbiddenError("Access denied", err)
	case errors.Is(err, status.ErrTurfInactive):
		return apis.NewNotFoundError("Turf not available", err)
	case errors.Is(err, status.ErrBandOverlap):
		return apis.NewBadRequestError("Pricing band overlaps an existing band", err)
	case errors.Is(err, status.ErrInvalidSignature):
		return apis.NewBadRequestError("Invalid payment signature", err)
	case errors.Is(err, sql.ErrNoRows):
		return apis.NewNotFoundError("Not found", err)
	default:
		return apis.NewApiError(http.StatusInternalServerError, "Something went wrong, please retry", err)
	}
}
