package services

import (
	"context"
	"testing"
	"time"

	"turf-booking/config"
	"turf-booking/internal/status"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBookingService(t *testing.T) (*BookingService, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	svc := &BookingService{
		Redis: db,
		cfg: &config.Config{
			AdmissionLockTTL:    10 * time.Second,
			AdmissionRetryDelay: time.Millisecond,
			AdmissionRetries:    2,
		},
		now:       time.Now,
		lockToken: func() string { return "tok-test" },
	}
	return svc, mock
}

func TestAdmissionLockKey(t *testing.T) {
	assert.Equal(t, "admission:turf123:2026-09-15", AdmissionLockKey("turf123", "2026-09-15"))
}

func TestAcquireAdmissionLock(t *testing.T) {
	svc, mock := newTestBookingService(t)
	key := AdmissionLockKey("turf123", "2026-09-15")

	mock.ExpectSetNX(key, "tok-test", svc.cfg.AdmissionLockTTL).SetVal(true)
	mock.ExpectEval(admissionUnlockScript, []string{key}, "tok-test").SetVal(int64(1))

	release, err := svc.acquireAdmissionLock(context.Background(), "turf123", "2026-09-15")
	require.NoError(t, err)
	require.NotNil(t, release)

	release()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireAdmissionLockRetriesThenSucceeds(t *testing.T) {
	svc, mock := newTestBookingService(t)
	key := AdmissionLockKey("turf123", "2026-09-15")

	mock.ExpectSetNX(key, "tok-test", svc.cfg.AdmissionLockTTL).SetVal(false)
	mock.ExpectSetNX(key, "tok-test", svc.cfg.AdmissionLockTTL).SetVal(true)
	mock.ExpectEval(admissionUnlockScript, []string{key}, "tok-test").SetVal(int64(1))

	release, err := svc.acquireAdmissionLock(context.Background(), "turf123", "2026-09-15")
	require.NoError(t, err)
	release()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireAdmissionLockBusy(t *testing.T) {
	svc, mock := newTestBookingService(t)
	key := AdmissionLockKey("turf123", "2026-09-15")

	// Initial attempt plus two retries, all held by another admission.
	for i := 0; i <= svc.cfg.AdmissionRetries; i++ {
		mock.ExpectSetNX(key, "tok-test", svc.cfg.AdmissionLockTTL).SetVal(false)
	}

	release, err := svc.acquireAdmissionLock(context.Background(), "turf123", "2026-09-15")
	assert.ErrorIs(t, err, status.ErrAdmissionBusy)
	assert.Nil(t, release)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionLockReleaseIsOwnerScoped(t *testing.T) {
	svc, mock := newTestBookingService(t)
	key := AdmissionLockKey("turf123", "2026-09-15")

	mock.ExpectSetNX(key, "tok-test", svc.cfg.AdmissionLockTTL).SetVal(true)
	// The TTL expired and another admission re-acquired the key; the
	// guarded delete must leave the successor's lock in place.
	mock.ExpectEval(admissionUnlockScript, []string{key}, "tok-test").SetVal(int64(0))

	release, err := svc.acquireAdmissionLock(context.Background(), "turf123", "2026-09-15")
	require.NoError(t, err)
	release()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireAdmissionLockContextCancelled(t *testing.T) {
	svc, mock := newTestBookingService(t)
	key := AdmissionLockKey("turf123", "2026-09-15")

	mock.ExpectSetNX(key, "tok-test", svc.cfg.AdmissionLockTTL).SetVal(false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.acquireAdmissionLock(ctx, "turf123", "2026-09-15")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidStatuses(t *testing.T) {
	assert.True(t, validPaymentStatus("pending"))
	assert.True(t, validPaymentStatus("paid"))
	assert.True(t, validPaymentStatus("failed"))
	assert.True(t, validPaymentStatus("refunded"))
	assert.False(t, validPaymentStatus("settled"))

	assert.True(t, validBookingStatus("confirmed"))
	assert.True(t, validBookingStatus("cancelled"))
	assert.True(t, validBookingStatus("completed"))
	assert.False(t, validBookingStatus("held"))
}
