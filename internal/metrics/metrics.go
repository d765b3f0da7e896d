package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "salon"

var (
	once sync.Once

	appointmentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_created_total",
			Help:      "Appointments booked.",
		},
	)

	bookingConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Bookings and reschedules rejected by reason.",
		},
		[]string{"reason"},
	)

	lockAcquisitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_lock_acquisitions_total",
			Help:      "Slot lock attempts by outcome.",
		},
		[]string{"outcome"},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_transitions_total",
			Help:      "Successful status transitions by target status.",
		},
		[]string{"status"},
	)

	waitlistMatches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waitlist_matches_total",
			Help:      "Open slots surfaced for waitlist entries.",
		},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Outbound notifications by channel and status.",
		},
		[]string{"channel", "status"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)
)

// Register registers the collectors. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			appointmentsCreated,
			bookingConflicts,
			lockAcquisitions,
			transitions,
			waitlistMatches,
			notifications,
			httpRequests,
		)
	})
}

func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

func IncAppointmentCreated() {
	appointmentsCreated.Inc()
}

func IncBookingConflict(reason string) {
	bookingConflicts.WithLabelValues(reason).Inc()
}

func IncLockAcquisition(outcome string) {
	lockAcquisitions.WithLabelValues(outcome).Inc()
}

func IncTransition(status string) {
	transitions.WithLabelValues(status).Inc()
}

func AddWaitlistMatches(n int) {
	waitlistMatches.Add(float64(n))
}

func IncNotification(channel, status string) {
	notifications.WithLabelValues(channel, status).Inc()
}

func IncHTTP(route, code string) {
	httpRequests.WithLabelValues(route, code).Inc()
}
