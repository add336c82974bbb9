package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSent   = "sent"
	statusFailed = "failed"
)

// Metrics counts notifications per channel and status.
type Metrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		total: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tuition",
			Subsystem: "notifications",
			Name:      "total",
			Help:      "Number of notifications dispatched, by channel and status.",
		}, []string{"channel", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tuition",
			Subsystem: "notifications",
			Name:      "duration_seconds",
			Help:      "Time spent sending a notification, by channel.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"channel"}),
	}
}

func (m *Metrics) observe(channel string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := statusSent
	if err != nil {
		status = statusFailed
	}
	m.total.WithLabelValues(channel, status).Inc()
	m.duration.WithLabelValues(channel).Observe(elapsed.Seconds())
}

// Counter returns the counter of channel notifications with the given status ("sent" or "failed").
func (m *Metrics) Counter(channel, status string) prometheus.Counter {
	return m.total.WithLabelValues(channel, status)
}
