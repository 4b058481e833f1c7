package booking

import (
	"time"

	"turf-booking/internal/status"
	"turf-booking/models"
)

// PaymentOutcome is the gateway's final verdict for a booking's payment.
type PaymentOutcome string

const (
	OutcomeSuccess   PaymentOutcome = "success"
	OutcomeFailure   PaymentOutcome = "failure"
	OutcomeDismissed PaymentOutcome = "dismissed"
)

// CancelNotice is how far before the start instant an owner may still cancel.
const CancelNotice = 24 * time.Hour

// ApplyPaymentOutcome is the pure state transition the payment glue drives:
//
//	confirmed/pending --success--> confirmed/paid
//	confirmed/pending --failure/dismiss--> cancelled/failed
//
// A booking whose payment already settled is left unchanged, so gateway
// callbacks can be replayed. Outcomes against a cancelled booking are
// rejected.
func ApplyPaymentOutcome(paymentStatus, bookingStatus string, outcome PaymentOutcome) (string, string, error) {
	if bookingStatus == models.BookingCancelled {
		return paymentStatus, bookingStatus, status.ErrAlreadyCancelled
	}
	if paymentStatus != models.PaymentPending {
		return paymentStatus, bookingStatus, nil
	}

	switch outcome {
	case OutcomeSuccess:
		return models.PaymentPaid, bookingStatus, nil
	case OutcomeFailure, OutcomeDismissed:
		return models.PaymentFailed, models.BookingCancelled, nil
	default:
		return paymentStatus, bookingStatus, status.ErrFailedPayment
	}
}

// CanCancel enforces the owner cancellation policy: allowed only while now
// is strictly before start-24h.
func CanCancel(now time.Time, date string, start Clock) error {
	startInstant, err := start.Instant(date)
	if err != nil {
		return err
	}
	if !now.Before(startInstant.Add(-CancelNotice)) {
		return status.ErrTooLateToCancel
	}
	return nil
}
