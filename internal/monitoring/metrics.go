package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "leadscout"

// Metrics exposes generation and search outcomes as Prometheus series.
// It satisfies textgen.Observer and pipeline.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	generations       *prometheus.CounterVec
	generationLatency *prometheus.HistogramVec

	searches       *prometheus.CounterVec
	searchLatency  prometheus.Histogram
	leadsExtracted prometheus.Counter
	leadsAccepted  prometheus.Counter
	leadsDropped   prometheus.Counter
}

// NewMetrics registers every series on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		generations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "textgen",
			Name:      "generations_total",
			Help:      "Generation calls by provider and outcome",
		}, []string{"provider", "outcome"}),
		generationLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "textgen",
			Name:      "generation_duration_seconds",
			Help:      "Generation call latency",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"provider"}),
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "runs_total",
			Help:      "Lead searches by outcome",
		}, []string{"outcome"}),
		searchLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "End-to-end search latency",
			Buckets:   []float64{1, 5, 10, 20, 40, 80, 160},
		}),
		leadsExtracted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "leads_extracted_total",
			Help:      "Records parsed from provider answers",
		}),
		leadsAccepted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "leads_accepted_total",
			Help:      "Leads saved after deduplication",
		}),
		leadsDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "leads_dropped_total",
			Help:      "Records dropped as invalid",
		}),
	}
}

// ObserveGeneration records one generation call.
func (m *Metrics) ObserveGeneration(provider string, elapsed time.Duration, cached bool, err error) {
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case cached:
		outcome = "cached"
	}
	m.generations.WithLabelValues(provider, outcome).Inc()
	if !cached {
		m.generationLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
	}
}

// ObserveSearch records one completed or failed search.
func (m *Metrics) ObserveSearch(extracted, accepted, dropped int, elapsed time.Duration, err error) {
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case extracted == 0:
		outcome = "empty"
	}
	m.searches.WithLabelValues(outcome).Inc()
	m.searchLatency.Observe(elapsed.Seconds())
	m.leadsExtracted.Add(float64(extracted))
	m.leadsAccepted.Add(float64(accepted))
	m.leadsDropped.Add(float64(dropped))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
