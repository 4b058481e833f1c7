package services

import (
	"context"
	"testing"
	"time"

	"turf-booking/config"
	"turf-booking/internal/status"
	"turf-booking/models"

	"github.com/go-redis/redismock/v9"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAdmissionTestApp builds an in-memory store with the three collections
// the admission path touches.
func newAdmissionTestApp(t *testing.T) *tests.TestApp {
	t.Helper()

	app, err := tests.NewTestApp()
	require.NoError(t, err)
	t.Cleanup(app.Cleanup)

	turfs := core.NewBaseCollection("turfs")
	turfs.Fields.Add(
		&core.TextField{Name: "name"},
		&core.TextField{Name: "location"},
		&core.TextField{Name: "description"},
		&core.TextField{Name: "opening_time"},
		&core.TextField{Name: "closing_time"},
		&core.BoolField{Name: "active"},
	)
	require.NoError(t, app.Save(turfs))

	pricingSlots := core.NewBaseCollection("pricing_slots")
	pricingSlots.Fields.Add(
		&core.TextField{Name: "turf_id"},
		&core.TextField{Name: "start_time"},
		&core.TextField{Name: "end_time"},
		&core.NumberField{Name: "price_per_hour", OnlyInt: true},
	)
	require.NoError(t, app.Save(pricingSlots))

	bookings := core.NewBaseCollection("bookings")
	bookings.Fields.Add(
		&core.TextField{Name: "user_id"},
		&core.TextField{Name: "turf_id"},
		&core.TextField{Name: "booking_date"},
		&core.TextField{Name: "start_time"},
		&core.TextField{Name: "end_time"},
		&core.NumberField{Name: "duration_minutes", OnlyInt: true},
		&core.NumberField{Name: "total_amount", OnlyInt: true},
		&core.SelectField{Name: "payment_status", Values: []string{
			models.PaymentPending, models.PaymentPaid, models.PaymentFailed, models.PaymentRefunded,
		}, MaxSelect: 1},
		&core.SelectField{Name: "booking_status", Values: []string{
			models.BookingConfirmed, models.BookingCancelled, models.BookingCompleted,
		}, MaxSelect: 1},
		&core.TextField{Name: "payment_ref"},
		&core.AutodateField{Name: "created", OnCreate: true},
		&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
	)
	require.NoError(t, app.Save(bookings))

	return app
}

func seedTurf(t *testing.T, app core.App) string {
	t.Helper()

	collection, err := app.FindCollectionByNameOrId("turfs")
	require.NoError(t, err)

	record := core.NewRecord(collection)
	record.Set("name", "Main Arena")
	record.Set("opening_time", "06:00")
	record.Set("closing_time", "22:00")
	record.Set("active", true)
	require.NoError(t, app.Save(record))

	return record.Id
}

func seedBooking(t *testing.T, app core.App, turfID, date, startTime, endTime, bookingStatus string) {
	t.Helper()

	collection, err := app.FindCollectionByNameOrId("bookings")
	require.NoError(t, err)

	record := core.NewRecord(collection)
	record.Set("user_id", "someone")
	record.Set("turf_id", turfID)
	record.Set("booking_date", date)
	record.Set("start_time", startTime)
	record.Set("end_time", endTime)
	record.Set("duration_minutes", 60)
	record.Set("total_amount", 500)
	record.Set("payment_status", models.PaymentPending)
	record.Set("booking_status", bookingStatus)
	require.NoError(t, app.Save(record))
}

func newAdmissionService(app core.App) (*BookingService, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	svc := &BookingService{
		app:   app,
		Redis: db,
		cfg: &config.Config{
			AdmissionLockTTL:    10 * time.Second,
			AdmissionRetryDelay: time.Millisecond,
			AdmissionRetries:    2,
		},
		now: func() time.Time {
			return time.Date(2026, 9, 14, 12, 0, 0, 0, time.Local)
		},
		lockToken: func() string { return "tok-test" },
	}
	return svc, mock
}

func expectLockCycle(mock redismock.ClientMock, turfID, date string) {
	key := AdmissionLockKey(turfID, date)
	mock.ExpectSetNX(key, "tok-test", 10*time.Second).SetVal(true)
	mock.ExpectEval(admissionUnlockScript, []string{key}, "tok-test").SetVal(int64(1))
}

func TestCreateBookingAdmitsAndRejectsOverlap(t *testing.T) {
	app := newAdmissionTestApp(t)
	turfID := seedTurf(t, app)
	svc, mock := newAdmissionService(app)
	const date = "2026-09-15"
	ctx := context.Background()

	expectLockCycle(mock, turfID, date)
	first, err := svc.CreateBooking(ctx, "user1", turfID, date, "14:00", "15:30")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, first.BookingStatus)
	assert.Equal(t, models.PaymentPending, first.PaymentStatus)
	// 90 minutes at the default rate with no bands configured.
	assert.Equal(t, 750, first.TotalAmount)

	// A second admission overlapping the confirmed window loses the race
	// inside the transaction and writes nothing.
	expectLockCycle(mock, turfID, date)
	_, err = svc.CreateBooking(ctx, "user2", turfID, date, "15:00", "16:00")
	assert.ErrorIs(t, err, status.ErrConflict)

	total, err := app.CountRecords("bookings")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	// Back-to-back with the confirmed window is not an overlap.
	expectLockCycle(mock, turfID, date)
	second, err := svc.CreateBooking(ctx, "user2", turfID, date, "15:30", "16:30")
	require.NoError(t, err)
	assert.Equal(t, "15:30", second.StartTime)

	total, err = app.CountRecords("bookings")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingIgnoresCancelledWindows(t *testing.T) {
	app := newAdmissionTestApp(t)
	turfID := seedTurf(t, app)
	svc, mock := newAdmissionService(app)
	const date = "2026-09-15"

	seedBooking(t, app, turfID, date, "10:00", "11:00", models.BookingCancelled)

	expectLockCycle(mock, turfID, date)
	created, err := svc.CreateBooking(context.Background(), "user1", turfID, date, "10:00", "11:00")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, created.BookingStatus)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountOverlapping(t *testing.T) {
	app := newAdmissionTestApp(t)
	turfID := seedTurf(t, app)
	const date = "2026-09-15"

	seedBooking(t, app, turfID, date, "14:00", "15:30", models.BookingConfirmed)

	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"overlaps tail", "15:00", "16:00", 1},
		{"overlaps head", "13:30", "14:30", 1},
		{"contained", "14:30", "15:00", 1},
		{"covers", "13:00", "16:00", 1},
		{"exact match", "14:00", "15:30", 1},
		{"ends at start", "13:00", "14:00", 0},
		{"starts at end", "15:30", "16:30", 0},
		{"disjoint", "08:00", "09:00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := countOverlapping(app, turfID, date, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("other date", func(t *testing.T) {
		got, err := countOverlapping(app, turfID, "2026-09-16", "14:00", "15:30")
		require.NoError(t, err)
		assert.Equal(t, 0, got)
	})

	t.Run("other turf", func(t *testing.T) {
		got, err := countOverlapping(app, "other", date, "14:00", "15:30")
		require.NoError(t, err)
		assert.Equal(t, 0, got)
	})

	t.Run("cancelled row not counted", func(t *testing.T) {
		seedBooking(t, app, turfID, date, "18:00", "19:00", models.BookingCancelled)
		got, err := countOverlapping(app, turfID, date, "18:00", "19:00")
		require.NoError(t, err)
		assert.Equal(t, 0, got)
	})
}

func TestCreateBookingRejectsBeforeStore(t *testing.T) {
	app := newAdmissionTestApp(t)
	turfID := seedTurf(t, app)
	svc, _ := newAdmissionService(app)
	ctx := context.Background()
	const date = "2026-09-15"

	// None of these reach the lock or write a row; the Redis mock would
	// fail on any unexpected command.
	cases := []struct {
		name    string
		date    string
		start   string
		end     string
		wantErr error
	}{
		{"malformed start", date, "10:0x", "11:00", status.ErrInvalidWindow},
		{"off-grid start", date, "10:15", "11:15", status.ErrInvalidWindow},
		{"end before start", date, "12:00", "11:00", status.ErrInvalidWindow},
		{"outside hours", date, "05:00", "06:00", status.ErrInvalidWindow},
		{"past closing", date, "21:30", "22:30", status.ErrInvalidWindow},
		{"bad date", "someday", "10:00", "11:00", status.ErrInvalidWindow},
		{"past date", "2026-09-13", "10:00", "11:00", status.ErrPastSlot},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBooking(ctx, "user1", turfID, tt.date, tt.start, tt.end)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	total, err := app.CountRecords("bookings")
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}
