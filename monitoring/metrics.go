package monitoring

import (
	"context"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	admissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_admissions_total",
			Help: "Booking admission attempts by outcome",
		},
		[]string{"turf_id", "outcome"},
	)

	slotQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slot_queries_total",
			Help: "Slot availability listings served",
		},
		[]string{"turf_id"},
	)

	pendingReaped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pending_bookings_reaped_total",
			Help: "Abandoned pending bookings auto-cancelled by the reaper",
		},
	)

	pendingBookings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pending_bookings_current",
			Help: "Confirmed bookings still awaiting payment",
		},
	)

	admissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booking_admission_duration_seconds",
			Help:    "Duration of the authoritative admission path",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"turf_id"},
	)
)

type Monitor struct {
	app   core.App
	redis *redis.Client
}

func NewMonitor(app core.App, redisClient *redis.Client) *Monitor {
	monitor := &Monitor{app: app, redis: redisClient}

	// Start metrics collection
	go monitor.collectMetrics()

	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.collectPendingBookings()
	}
}

func (m *Monitor) collectPendingBookings() {
	var row struct {
		Count int `db:"count"`
	}
	err := m.app.DB().
		Select("COUNT(*) AS count").
		From("bookings").
		Where(dbx.HashExp{"booking_status": "confirmed", "payment_status": "pending"}).
		One(&row)
	if err != nil {
		return
	}
	pendingBookings.Set(float64(row.Count))
}

func (m *Monitor) RedisHealthy(ctx context.Context) bool {
	return m.redis.Ping(ctx).Err() == nil
}

// TrackAdmission records one admission attempt.
func (m *Monitor) TrackAdmission(turfID, outcome string) {
	admissions.WithLabelValues(turfID, outcome).Inc()
}

// TrackSlotQuery records one availability listing.
func (m *Monitor) TrackSlotQuery(turfID string) {
	slotQueries.WithLabelValues(turfID).Inc()
}

// TrackReaped records one auto-cancelled pending booking.
func (m *Monitor) TrackReaped() {
	pendingReaped.Inc()
}

// TrackAdmissionDuration records how long the admission critical section took.
func (m *Monitor) TrackAdmissionDuration(turfID string, d time.Duration) {
	admissionDuration.WithLabelValues(turfID).Observe(d.Seconds())
}
