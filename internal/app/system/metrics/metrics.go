// internal/app/system/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the activity log service.
type Metrics struct {
	EventsRecorded    *prometheus.CounterVec
	ValidationErrors  *prometheus.CounterVec
	StoreFailures     *prometheus.CounterVec
	CurrentlyLoggedIn prometheus.Gauge
	RecordDurationMs  prometheus.Histogram
	ReportDurationMs  prometheus.Histogram
}

// New registers and returns the service metrics collectors.
func New() *Metrics {
	return &Metrics{
		EventsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hvcportal_activity_events_recorded_total",
			Help: "Total number of login/logout events recorded",
		}, []string{"action"}),
		ValidationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hvcportal_activity_validation_errors_total",
			Help: "Total number of rejected activity log requests",
		}, []string{"endpoint"}),
		StoreFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hvcportal_activity_store_failures_total",
			Help: "Total number of event store failures surfaced to callers",
		}, []string{"endpoint"}),
		CurrentlyLoggedIn: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "hvcportal_currently_logged_in",
			Help: "Users whose most recent event in the report window is a login",
		}),
		RecordDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hvcportal_record_event_duration_ms",
			Help:    "Duration of record-event requests in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		ReportDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hvcportal_session_report_duration_ms",
			Help:    "Duration of active-sessions report requests in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}),
	}
}
