package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Upstream API metrics
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	UpstreamErrors   *prometheus.CounterVec

	// Booking metrics
	BookingsCreated     prometheus.Counter
	BookingsSynthesized prometheus.Counter
	BookingsRejected    prometheus.Counter

	// Status board metrics
	BoardRefreshes    prometheus.Counter
	BoardTransitions  *prometheus.CounterVec
	BoardAppointments *prometheus.GaugeVec

	// Directory metrics
	DirectoryFallbacks prometheus.Counter
	DirectoryCacheHits prometheus.Counter
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		UpstreamRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "upstream_requests_total",
			Help:      "Total number of requests issued to the upstream API",
		}, []string{"method", "endpoint", "status"}),
		UpstreamLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of upstream API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		UpstreamErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "upstream_errors_total",
			Help:      "Total number of failed upstream API requests",
		}, []string{"endpoint"}),

		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bookings_created_total",
			Help:      "Total number of appointments booked",
		}),
		BookingsSynthesized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bookings_synthesized_total",
			Help:      "Bookings completed with a locally synthesized record",
		}),
		BookingsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bookings_rejected_total",
			Help:      "Bookings rejected by client-side validation",
		}),

		BoardRefreshes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "board_refreshes_total",
			Help:      "Total number of status board refreshes",
		}),
		BoardTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "board_transitions_total",
			Help:      "Status transitions issued from the doctor board",
		}, []string{"transition"}),
		BoardAppointments: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "board_appointments",
			Help:      "Appointments currently on the board, by bucket",
		}, []string{"bucket"}),

		DirectoryFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "directory_fallbacks_total",
			Help:      "Directory lookups that fell back to defaults",
		}),
		DirectoryCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "directory_cache_hits_total",
			Help:      "Directory lookups served from the local cache",
		}),
	}
}
