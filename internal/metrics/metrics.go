package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tickethub"

// Registry is the Prometheus registry for all tickethub metrics.
var Registry = prometheus.NewRegistry()

// AppInfo exposes version information as labels (value is always 1).
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// HTTPRequestsTotal counts served requests by method and status class.
var HTTPRequestsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests served",
	},
	[]string{"method", "status"},
)

// HTTPRequestDuration tracks request latency in seconds.
var HTTPRequestDuration = promauto.With(Registry).NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// AuthFailuresTotal counts rejected requests at the access gate.
var AuthFailuresTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Requests rejected by the access gate",
	},
	[]string{"reason"},
)

// SessionResetsTotal counts demo-data truncations.
var SessionResetsTotal = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_resets_total",
		Help:      "Times the session reset routine truncated all tables",
	},
)

// Init registers runtime collectors and records build information.
func Init(version, commit, buildDate string) {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
}

// Handler serves the registry in Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
