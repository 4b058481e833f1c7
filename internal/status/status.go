package status

import "errors"

var (
	// admission
	ErrConflict      = errors.New("booking: slot no longer available")
	ErrInvalidWindow = errors.New("booking: invalid time window")
	ErrPastSlot      = errors.New("booking: slot start already elapsed")
	ErrAdmissionBusy = errors.New("booking: admission busy, retry")
	ErrTurfInactive  = errors.New("turf: not active")

	// cancellation policy
	ErrTooLateToCancel  = errors.New("booking: cancellation closed within 24 hours of start")
	ErrAlreadyCancelled = errors.New("booking: already cancelled")
	ErrNotOwner         = errors.New("booking: not the booking owner")

	// pricing administration
	ErrBandOverlap = errors.New("pricing: band overlaps an existing band")

	// payment
	ErrFailedPayment    = errors.New("payment: payment failed")
	ErrInvalidSignature = errors.New("payment: invalid gateway signature")
)
