package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Check pipeline metrics
	ChecksRun        prometheus.Counter
	CheckDuration    prometheus.Histogram
	DueTasksFound    prometheus.Counter
	ChecksSkipped    *prometheus.CounterVec

	// Delivery metrics
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter
	SubscriptionsPruned prometheus.Counter
	ActiveSubscriptions prometheus.Gauge
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		ChecksRun: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "checks_run_total",
			Help:      "Total number of due-task check pipeline runs",
		}),
		CheckDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "check_duration_seconds",
			Help:      "Time spent running one due-task check",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		DueTasksFound: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "due_tasks_found_total",
			Help:      "Total number of due tasks produced by scans",
		}),
		ChecksSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "checks_skipped_total",
			Help:      "Checks skipped before scanning, by reason",
		}, []string{"reason"}),
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_sent_total",
			Help:      "Total number of push messages delivered to a subscription",
		}),
		NotificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_failed_total",
			Help:      "Total number of push delivery failures",
		}),
		SubscriptionsPruned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "subscriptions_pruned_total",
			Help:      "Subscriptions deleted after the push service reported them gone",
		}),
		ActiveSubscriptions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_subscriptions",
			Help:      "Current number of registered push subscriptions",
		}),
	}
}
