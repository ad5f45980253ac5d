// Package metrics exposes Prometheus collectors for the watch pipeline.
//
// A run is a short-lived batch process with no scrape endpoint, so the
// collectors live on a private registry that is dumped to a node-exporter
// textfile at the end of the run when a path is configured.
package metrics

import (
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registry *prometheus.Registry

	watchPagesTotal         *prometheus.CounterVec
	watchChangesTotal       *prometheus.CounterVec
	watchFailuresTotal      *prometheus.CounterVec
	watchTierFallbacksTotal *prometheus.CounterVec
	watchRunDurationSeconds prometheus.Gauge

	once sync.Once
)

// Init initializes the collectors. It is safe to call multiple times; every
// exported observer calls it, so explicit initialization is optional.
func Init() {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		factory := promauto.With(registry)

		watchPagesTotal = factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watch_pages_total",
				Help: "Targets processed, labeled by site and outcome.",
			},
			[]string{"site", "outcome"},
		)

		watchChangesTotal = factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watch_changes_total",
				Help: "Content changes detected, labeled by site.",
			},
			[]string{"site"},
		)

		watchFailuresTotal = factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watch_failures_total",
				Help: "Run failures, labeled by error kind.",
			},
			[]string{"kind"},
		)

		watchTierFallbacksTotal = factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watch_tier_fallbacks_total",
				Help: "Retrieval tier escalations, labeled by tier.",
			},
			[]string{"tier"},
		)

		watchRunDurationSeconds = factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "watch_run_duration_seconds",
				Help: "Wall-clock duration of the last run.",
			},
		)
	})
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// ObserveTarget counts one processed target with its outcome.
func ObserveTarget(site string, outcome string) {
	Init()
	watchPagesTotal.WithLabelValues(SanitizeSite(site), outcome).Inc()
}

// ObserveChange counts one detected content change.
func ObserveChange(site string) {
	Init()
	watchChangesTotal.WithLabelValues(SanitizeSite(site)).Inc()
}

// ObserveFailure counts one failure of the given error kind.
func ObserveFailure(kind string) {
	Init()
	watchFailuresTotal.WithLabelValues(kind).Inc()
}

// ObserveTierFallback counts one escalation to the given retrieval tier.
func ObserveTierFallback(tier string) {
	Init()
	watchTierFallbacksTotal.WithLabelValues(tier).Inc()
}

// SetRunDuration records the wall-clock duration of the run.
func SetRunDuration(d time.Duration) {
	Init()
	watchRunDurationSeconds.Set(d.Seconds())
}

// WriteTextfile dumps the registry in text exposition format for the
// node-exporter textfile collector. The write is atomic.
func WriteTextfile(path string) error {
	Init()
	return prometheus.WriteToTextfile(path, registry)
}
