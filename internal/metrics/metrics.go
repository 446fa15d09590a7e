package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EntityWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal", Name: "entity_writes_total", Help: "Committed entity writes",
	}, []string{"kind"})
	NotificationsEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal", Name: "notifications_emitted_total", Help: "Notifications appended to the ledger",
	}, []string{"kind"})
	DerivationErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "portal", Name: "derivation_errors_total", Help: "Notification derivation failures (swallowed)",
	})
	ThresholdAlerts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "portal", Name: "threshold_alerts_total", Help: "Elevated absence-threshold alerts",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "portal", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(EntityWrites, NotificationsEmitted, DerivationErrors, ThresholdAlerts, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
