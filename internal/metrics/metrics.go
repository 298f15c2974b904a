// Package metrics exports progress statistics as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/nqdm/internal/stats"
)

const namespace = "nqdm"

// Metrics holds the Prometheus collectors for one run. Each instance owns a
// private registry so parallel runs and tests never collide.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	steps      prometheus.Counter
	failures   prometheus.Counter
	scrapes    prometheus.Counter
	current    prometheus.Gauge
	total      prometheus.Gauge
	ratio      prometheus.Gauge
	throughput prometheus.Gauge
	elapsed    prometheus.Gauge
	eta        prometheus.Gauge
}

// NewMetrics registers the progress collectors plus the Go runtime and
// process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Progress steps emitted.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callback_failures_total",
			Help:      "Progress steps aborted by a failing callback.",
		}),
		scrapes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrapes_total",
			Help:      "Requests served by the metrics endpoint.",
		}),
		current: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "progress_current",
			Help:      "Items completed.",
		}),
		total: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "progress_total",
			Help:      "Expected item count, -1 when unknown.",
		}),
		ratio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "progress_ratio",
			Help:      "Fraction of items completed.",
		}),
		throughput: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "progress_items_per_second",
			Help:      "Average items per second since start.",
		}),
		elapsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "progress_elapsed_seconds",
			Help:      "Seconds since the progress source was created.",
		}),
		eta: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "progress_eta_seconds",
			Help:      "Estimated seconds remaining, -1 when unknown.",
		}),
	}
	m.total.Set(-1)
	m.eta.Set(-1)
	reg.MustRegister(
		m.steps, m.failures, m.scrapes,
		m.current, m.total, m.ratio, m.throughput, m.elapsed, m.eta,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return m
}

// Observe records one progress snapshot.
func (m *Metrics) Observe(s stats.Snapshot) {
	m.steps.Inc()
	m.current.Set(float64(s.Current))
	if s.HasTotal {
		m.total.Set(float64(s.Total))
	}
	m.ratio.Set(s.Ratio)
	m.throughput.Set(s.Throughput)
	m.elapsed.Set(s.Elapsed.Seconds())
	if s.HasETA {
		m.eta.Set(s.ETA.Seconds())
	} else {
		m.eta.Set(-1)
	}
}

// Callback returns a progress callback that records every snapshot.
func (m *Metrics) Callback() func(stats.Snapshot) error {
	return func(s stats.Snapshot) error {
		m.Observe(s)
		return nil
	}
}

// RecordCallbackFailure counts a step aborted by a callback error.
func (m *Metrics) RecordCallbackFailure() { m.failures.Inc() }

// IncrementScrapes counts a request to the metrics endpoint.
func (m *Metrics) IncrementScrapes() { m.scrapes.Inc() }

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WritePrometheus writes the metrics in the Prometheus text format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
