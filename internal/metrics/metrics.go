package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapweb_login_attempts_total",
		Help: "Login submissions by outcome (success, invalid, rejected, error, abandoned).",
	}, []string{"outcome"})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "swapweb_auth_upstream_duration_seconds",
		Help:    "Latency of POST /login against the authentication service, by status.",
		Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"status"})

	LoginInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "swapweb_login_in_flight",
		Help: "Upstream login calls currently in flight.",
	})

	LanguageChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapweb_language_changes_total",
		Help: "Language selections by resulting language.",
	}, []string{"language"})
)
