package handlers

import (
	"net/http"

	"turf-booking/config"
	"turf-booking/internal/booking"
	"turf-booking/internal/services"
	"turf-booking/internal/services/payment/razorpay"
	"turf-booking/models"
	"turf-booking/utils"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type PaymentHandler struct {
	app            *pocketbase.PocketBase
	bookingService *services.BookingService
	gateway        *razorpay.Client
	cfg            *config.Config
}

func NewPaymentHandler(app *pocketbase.PocketBase, bookingService *services.BookingService, gateway *razorpay.Client, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		app:            app,
		bookingService: bookingService,
		gateway:        gateway,
		cfg:            cfg,
	}
}

// CreateOrder - Open a gateway order for a pending booking
func (h *PaymentHandler) CreateOrder(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	if h.gateway == nil {
		return apis.NewApiError(http.StatusServiceUnavailable, "Payment gateway not configured", nil)
	}

	var req struct {
		BookingID string `json:"booking_id"`
	}
	if err := e.BindBody(&req); err != nil || req.BookingID == "" {
		return apis.NewBadRequestError("booking_id is required", err)
	}

	ctx := e.Request.Context()

	bkg, err := h.bookingService.GetBooking(ctx, req.BookingID)
	if err != nil {
		return mapServiceError(err)
	}
	if bkg.UserID != e.Auth.Id {
		return apis.NewForbiddenError("Access denied", nil)
	}
	if bkg.PaymentStatus != models.PaymentPending || bkg.BookingStatus != models.BookingConfirmed {
		return apis.NewBadRequestError("Booking is not awaiting payment", nil)
	}

	code, err := utils.GenerateCode(8)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to create order", err)
	}

	order, err := h.gateway.CreateOrder(ctx, bkg.TotalAmount, "rcpt_"+code)
	if err != nil {
		return apis.NewApiError(http.StatusServiceUnavailable, "Failed to create payment order", err)
	}

	if err := h.bookingService.AttachPaymentRef(ctx, bkg.ID, order.ID); err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"order_id":   order.ID,
		"amount":     order.Amount,
		"currency":   order.Currency,
		"key_id":     h.cfg.RazorpayKeyID,
		"booking_id": bkg.ID,
	})
}

// VerifyPayment - Verify the gateway callback signature and settle the
// booking from the verdict
func (h *PaymentHandler) VerifyPayment(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		BookingID string `json:"booking_id"`
		OrderID   string `json:"order_id"`
		PaymentID string `json:"payment_id"`
		Signature string `json:"signature"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.BookingID == "" || req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return apis.NewBadRequestError("booking_id, order_id, payment_id and signature are required", nil)
	}

	ctx := e.Request.Context()

	bkg, err := h.bookingService.GetBooking(ctx, req.BookingID)
	if err != nil {
		return mapServiceError(err)
	}
	if bkg.UserID != e.Auth.Id {
		return apis.NewForbiddenError("Access denied", nil)
	}
	if bkg.PaymentRef != req.OrderID {
		return apis.NewBadRequestError("Order does not belong to this booking", nil)
	}

	if !razorpay.VerifySignature(req.OrderID, req.PaymentID, req.Signature, h.cfg.RazorpayKeySecret) {
		// A forged or corrupted callback fails the booking's payment.
		if _, err := h.bookingService.ApplyPaymentOutcome(ctx, bkg.ID, booking.OutcomeFailure); err != nil {
			return mapServiceError(err)
		}
		return apis.NewBadRequestError("Invalid payment signature", nil)
	}

	// Cross-check the gateway's own record before trusting the verdict.
	if h.gateway != nil {
		payment, err := h.gateway.FetchPayment(ctx, req.PaymentID)
		if err != nil {
			return apis.NewApiError(http.StatusServiceUnavailable, "Failed to verify payment", err)
		}
		if payment.Status != "captured" && payment.Status != "authorized" {
			if _, err := h.bookingService.ApplyPaymentOutcome(ctx, bkg.ID, booking.OutcomeFailure); err != nil {
				return mapServiceError(err)
			}
			return apis.NewBadRequestError("Payment not captured", nil)
		}
	}

	updated, err := h.bookingService.ApplyPaymentOutcome(ctx, bkg.ID, booking.OutcomeSuccess)
	if err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, updated)
}

// DismissPayment - The user abandoned the payment flow; release the slot
func (h *PaymentHandler) DismissPayment(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		BookingID string `json:"booking_id"`
	}
	if err := e.BindBody(&req); err != nil || req.BookingID == "" {
		return apis.NewBadRequestError("booking_id is required", err)
	}

	ctx := e.Request.Context()

	bkg, err := h.bookingService.GetBooking(ctx, req.BookingID)
	if err != nil {
		return mapServiceError(err)
	}
	if bkg.UserID != e.Auth.Id {
		return apis.NewForbiddenError("Access denied", nil)
	}

	updated, err := h.bookingService.ApplyPaymentOutcome(ctx, bkg.ID, booking.OutcomeDismissed)
	if err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, updated)
}
