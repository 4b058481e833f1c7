package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"turf-booking/config"
	"turf-booking/internal/booking"
	"turf-booking/internal/status"
	"turf-booking/models"
	"turf-booking/monitoring"
	"turf-booking/utils"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/redis/go-redis/v9"
)

// BookingService owns the reservation lifecycle: admission, cancellation,
// payment-driven status transitions and reaping of abandoned pending
// bookings.
//
// Admission is the correctness-critical path. The overlap check and the
// insert run inside one store transaction, serialized across processes by a
// Redis mutex keyed on (turf, date). Two racing requests for overlapping
// windows therefore cannot both pass the check.
type BookingService struct {
	app     core.App
	Redis   *redis.Client
	cfg     *config.Config
	notify  *Notifier
	monitor *monitoring.Monitor

	// now and lockToken are swapped in tests.
	now       func() time.Time
	lockToken func() string
}

func NewBookingService(app core.App, redisClient *redis.Client, cfg *config.Config, notifier *Notifier, monitor *monitoring.Monitor) *BookingService {
	return &BookingService{
		app:     app,
		Redis:   redisClient,
		cfg:     cfg,
		notify:  notifier,
		monitor: monitor,
		now:     time.Now,
		lockToken: func() string {
			tok, err := utils.GenerateCode(8)
			if err != nil {
				return fmt.Sprintf("%d", time.Now().UnixNano())
			}
			return tok
		},
	}
}

// CreateBooking admits a requested window for the user. The returned
// booking is confirmed with payment pending; the payment flow settles it.
func (s *BookingService) CreateBooking(ctx context.Context, userID, turfID, date, startTime, endTime string) (*models.Booking, error) {
	start, err := booking.ParseClock(startTime)
	if err != nil {
		return nil, status.ErrInvalidWindow
	}
	end, err := booking.ParseClock(endTime)
	if err != nil {
		return nil, status.ErrInvalidWindow
	}
	if _, err := booking.ParseDate(date); err != nil {
		return nil, status.ErrInvalidWindow
	}

	turf, err := fetchTurf(s.app, turfID)
	if err != nil {
		return nil, err
	}
	opening, err := booking.ParseClock(turf.OpeningTime)
	if err != nil {
		return nil, fmt.Errorf("turf %s opening time: %w", turfID, err)
	}
	closing, err := booking.ParseClock(turf.ClosingTime)
	if err != nil {
		return nil, fmt.Errorf("turf %s closing time: %w", turfID, err)
	}

	if err := booking.ValidateWindow(start, end, opening, closing); err != nil {
		return nil, err
	}

	startInstant, err := start.Instant(date)
	if err != nil {
		return nil, status.ErrInvalidWindow
	}
	if !startInstant.After(s.now()) {
		return nil, status.ErrPastSlot
	}

	// The price is always computed server-side from the band table.
	slots, err := s.pricingBands(turfID)
	if err != nil {
		return nil, err
	}
	amount := booking.PriceForWindow(slots, start, end)
	duration := int(end - start)

	release, err := s.acquireAdmissionLock(ctx, turfID, date)
	if err != nil {
		s.trackAdmission(turfID, "lock_busy")
		return nil, err
	}
	defer release()

	began := s.now()

	var created *core.Record
	txErr := s.app.RunInTransaction(func(txApp core.App) error {
		conflicts, err := countOverlapping(txApp, turfID, date, startTime, endTime)
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return status.ErrConflict
		}

		collection, err := txApp.FindCollectionByNameOrId("bookings")
		if err != nil {
			return err
		}

		record := core.NewRecord(collection)
		record.Set("user_id", userID)
		record.Set("turf_id", turfID)
		record.Set("booking_date", date)
		record.Set("start_time", startTime)
		record.Set("end_time", endTime)
		record.Set("duration_minutes", duration)
		record.Set("total_amount", amount)
		record.Set("payment_status", models.PaymentPending)
		record.Set("booking_status", models.BookingConfirmed)

		if err := txApp.Save(record); err != nil {
			return err
		}
		created = record
		return nil
	})

	if s.monitor != nil {
		s.monitor.TrackAdmissionDuration(turfID, s.now().Sub(began))
	}
	if txErr != nil {
		if txErr == status.ErrConflict {
			s.trackAdmission(turfID, "conflict")
			return nil, txErr
		}
		s.trackAdmission(turfID, "error")
		return nil, fmt.Errorf("booking admission: %w", txErr)
	}
	s.trackAdmission(turfID, "admitted")

	result := recordToBooking(created)

	slog.Info("booking admitted",
		"booking", result.ID,
		"turf", turfID,
		"date", date,
		"window", startTime+"-"+endTime,
		"amount", amount,
	)
	go s.notify.PublishBookingUpdate(userID, map[string]any{
		"type":       "booking_confirmed",
		"booking_id": result.ID,
		"turf_id":    turfID,
		"date":       date,
		"start_time": startTime,
		"end_time":   endTime,
		"amount":     amount,
	})

	return &result, nil
}

// CancelBooking cancels an owner's booking, allowed only more than 24 hours
// before the start instant.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, requesterID string) (*models.Booking, error) {
	record, err := s.app.FindRecordById("bookings", bookingID)
	if err != nil {
		return nil, err
	}

	if record.GetString("user_id") != requesterID {
		return nil, status.ErrNotOwner
	}
	if record.GetString("booking_status") == models.BookingCancelled {
		return nil, status.ErrAlreadyCancelled
	}

	start, err := booking.ParseClock(record.GetString("start_time"))
	if err != nil {
		return nil, fmt.Errorf("booking %s start time: %w", bookingID, err)
	}
	if err := booking.CanCancel(s.now(), record.GetString("booking_date"), start); err != nil {
		return nil, err
	}

	record.Set("booking_status", models.BookingCancelled)
	if record.GetString("payment_status") == models.PaymentPaid {
		record.Set("payment_status", models.PaymentRefunded)
	}
	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	result := recordToBooking(record)

	slog.Info("booking cancelled", "booking", bookingID, "user", requesterID)
	go s.notify.PublishBookingUpdate(requesterID, map[string]any{
		"type":       "booking_cancelled",
		"booking_id": bookingID,
	})

	return &result, nil
}

// ApplyPaymentOutcome settles a booking from the gateway's verified verdict.
func (s *BookingService) ApplyPaymentOutcome(ctx context.Context, bookingID string, outcome booking.PaymentOutcome) (*models.Booking, error) {
	record, err := s.app.FindRecordById("bookings", bookingID)
	if err != nil {
		return nil, err
	}

	paymentStatus, bookingStatus, err := booking.ApplyPaymentOutcome(
		record.GetString("payment_status"),
		record.GetString("booking_status"),
		outcome,
	)
	if err != nil {
		return nil, err
	}

	record.Set("payment_status", paymentStatus)
	record.Set("booking_status", bookingStatus)
	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("apply payment outcome: %w", err)
	}

	result := recordToBooking(record)

	slog.Info("payment outcome applied",
		"booking", bookingID,
		"outcome", string(outcome),
		"payment_status", paymentStatus,
		"booking_status", bookingStatus,
	)
	go s.notify.PublishBookingUpdate(result.UserID, map[string]any{
		"type":           "payment_" + string(outcome),
		"booking_id":     bookingID,
		"payment_status": paymentStatus,
		"booking_status": bookingStatus,
	})

	return &result, nil
}

// UpdateStatus applies an explicit status update from a collaborator.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID, paymentStatus, bookingStatus string) (*models.Booking, error) {
	record, err := s.app.FindRecordById("bookings", bookingID)
	if err != nil {
		return nil, err
	}

	if paymentStatus != "" {
		if !validPaymentStatus(paymentStatus) {
			return nil, status.ErrInvalidWindow
		}
		record.Set("payment_status", paymentStatus)
	}
	if bookingStatus != "" {
		if !validBookingStatus(bookingStatus) {
			return nil, status.ErrInvalidWindow
		}
		record.Set("booking_status", bookingStatus)
	}

	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	result := recordToBooking(record)
	return &result, nil
}

// AttachPaymentRef stores the gateway order id on the booking.
func (s *BookingService) AttachPaymentRef(ctx context.Context, bookingID, orderID string) error {
	record, err := s.app.FindRecordById("bookings", bookingID)
	if err != nil {
		return err
	}
	record.Set("payment_ref", orderID)
	return s.app.Save(record)
}

// GetBooking loads one booking.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	record, err := s.app.FindRecordById("bookings", bookingID)
	if err != nil {
		return nil, err
	}
	result := recordToBooking(record)
	return &result, nil
}

// BookingHistory returns the requester's bookings, newest first.
func (s *BookingService) BookingHistory(ctx context.Context, userID string, limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	records, err := s.app.FindRecordsByFilter(
		"bookings",
		"user_id = {:userId}",
		"-created",
		limit,
		0,
		dbx.Params{"userId": userID},
	)
	if err != nil {
		return nil, fmt.Errorf("fetch booking history: %w", err)
	}

	bookings := make([]models.Booking, 0, len(records))
	for _, record := range records {
		bookings = append(bookings, recordToBooking(record))
	}
	return bookings, nil
}

// AllBookings lists bookings for the admin surface, optionally filtered by
// turf and date.
func (s *BookingService) AllBookings(ctx context.Context, turfID, date string) ([]models.Booking, error) {
	query := s.app.DB().
		Select("id", "user_id", "turf_id", "booking_date", "start_time", "end_time",
			"duration_minutes", "total_amount", "payment_status", "booking_status", "payment_ref").
		From("bookings").
		OrderBy("created DESC")

	conditions := dbx.HashExp{}
	if turfID != "" {
		conditions["turf_id"] = turfID
	}
	if date != "" {
		conditions["booking_date"] = date
	}
	if len(conditions) > 0 {
		query = query.Where(conditions)
	}

	bookings := []models.Booking{}
	if err := query.All(&bookings); err != nil {
		return nil, fmt.Errorf("fetch bookings: %w", err)
	}
	return bookings, nil
}

// CleanupAbandonedPending periodically cancels bookings whose payment was
// abandoned, so they stop blocking slot capacity.
func (s *BookingService) CleanupAbandonedPending(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n, err := s.ReapAbandonedPending(ctx); err != nil {
				slog.Error("pending booking reap failed", "error", err)
			} else if n > 0 {
				slog.Info("reaped abandoned pending bookings", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

// ReapAbandonedPending cancels confirmed bookings still payment-pending
// after PendingPaymentTTL. Returns how many were reaped.
func (s *BookingService) ReapAbandonedPending(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-s.cfg.PendingPaymentTTL).Format(types.DefaultDateLayout)

	records, err := s.app.FindRecordsByFilter(
		"bookings",
		"booking_status = {:bs} && payment_status = {:ps} && created <= {:cutoff}",
		"created",
		0,
		0,
		dbx.Params{
			"bs":     models.BookingConfirmed,
			"ps":     models.PaymentPending,
			"cutoff": cutoff,
		},
	)
	if err != nil {
		return 0, fmt.Errorf("scan pending bookings: %w", err)
	}

	reaped := 0
	for _, record := range records {
		record.Set("booking_status", models.BookingCancelled)
		record.Set("payment_status", models.PaymentFailed)
		if err := s.app.Save(record); err != nil {
			slog.Error("failed to reap pending booking", "booking", record.Id, "error", err)
			continue
		}
		reaped++
		if s.monitor != nil {
			s.monitor.TrackReaped()
		}
		go s.notify.PublishBookingUpdate(record.GetString("user_id"), map[string]any{
			"type":       "booking_expired",
			"booking_id": record.Id,
		})
	}
	return reaped, nil
}

// admissionUnlockScript releases the lock only for its owner, so a holder
// whose TTL expired mid-transaction cannot delete a successor's lock.
const admissionUnlockScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`

// acquireAdmissionLock serializes admissions per (turf, date) across
// processes. The TTL bounds how long a crashed holder can block the key.
func (s *BookingService) acquireAdmissionLock(ctx context.Context, turfID, date string) (func(), error) {
	key := AdmissionLockKey(turfID, date)
	token := s.lockToken()

	for attempt := 0; attempt <= s.cfg.AdmissionRetries; attempt++ {
		ok, err := s.Redis.SetNX(ctx, key, token, s.cfg.AdmissionLockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("admission lock: %w", err)
		}
		if ok {
			return func() {
				s.Redis.Eval(context.Background(), admissionUnlockScript, []string{key}, token)
			}, nil
		}
		select {
		case <-time.After(s.cfg.AdmissionRetryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, status.ErrAdmissionBusy
}

// AdmissionLockKey is the Redis key serializing admissions for one turf/date.
func AdmissionLockKey(turfID, date string) string {
	return fmt.Sprintf("admission:%s:%s", turfID, date)
}

// countOverlapping runs the authoritative three-way overlap query against
// confirmed bookings. "HH:MM" strings are zero-padded, so SQL string
// comparison matches time order.
func countOverlapping(app core.App, turfID, date, startTime, endTime string) (int, error) {
	var row struct {
		Count int `db:"count"`
	}
	err := app.DB().
		Select("COUNT(*) AS count").
		From("bookings").
		Where(dbx.HashExp{
			"turf_id":        turfID,
			"booking_date":   date,
			"booking_status": models.BookingConfirmed,
		}).
		AndWhere(dbx.Or(
			dbx.NewExp("start_time <= {:s} AND end_time > {:s}", dbx.Params{"s": startTime}),
			dbx.NewExp("start_time < {:e} AND end_time >= {:e}", dbx.Params{"e": endTime}),
			dbx.NewExp("start_time >= {:s2} AND end_time <= {:e2}", dbx.Params{"s2": startTime, "e2": endTime}),
		)).
		One(&row)
	if err != nil {
		return 0, fmt.Errorf("overlap query: %w", err)
	}
	return row.Count, nil
}

func (s *BookingService) pricingBands(turfID string) ([]booking.Band, error) {
	slots := []models.PricingSlot{}
	err := s.app.DB().
		Select("id", "turf_id", "start_time", "end_time", "price_per_hour").
		From("pricing_slots").
		Where(dbx.HashExp{"turf_id": turfID}).
		OrderBy("start_time ASC").
		All(&slots)
	if err != nil {
		return nil, fmt.Errorf("fetch pricing slots: %w", err)
	}
	return booking.ParseBands(slots)
}

func (s *BookingService) trackAdmission(turfID, outcome string) {
	if s.monitor != nil {
		s.monitor.TrackAdmission(turfID, outcome)
	}
}

func validPaymentStatus(v string) bool {
	switch v {
	case models.PaymentPending, models.PaymentPaid, models.PaymentFailed, models.PaymentRefunded:
		return true
	}
	return false
}

func validBookingStatus(v string) bool {
	switch v {
	case models.BookingConfirmed, models.BookingCancelled, models.BookingCompleted:
		return true
	}
	return false
}

func recordToBooking(record *core.Record) models.Booking {
	return models.Booking{
		ID:              record.Id,
		UserID:          record.GetString("user_id"),
		TurfID:          record.GetString("turf_id"),
		BookingDate:     record.GetString("booking_date"),
		StartTime:       record.GetString("start_time"),
		EndTime:         record.GetString("end_time"),
		DurationMinutes: record.GetInt("duration_minutes"),
		TotalAmount:     record.GetInt("total_amount"),
		PaymentStatus:   record.GetString("payment_status"),
		BookingStatus:   record.GetString("booking_status"),
		PaymentRef:      record.GetString("payment_ref"),
		Created:         record.GetDateTime("created").Time(),
		Updated:         record.GetDateTime("updated").Time(),
	}
}
