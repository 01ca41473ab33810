package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hamed0406/urlchecker/internal/domain"
)

// Collector owns its registry so tests and multiple servers do not collide.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	probesTotal   *prometheus.CounterVec
	sslTotal      *prometheus.CounterVec
	probeDuration prometheus.Histogram
	inFlight      prometheus.Gauge

	batchesTotal  *prometheus.CounterVec
	batchSize     prometheus.Histogram
	batchDuration prometheus.Histogram
}

func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		probesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "probes_total",
				Help:      "URL probes by outcome (ok, http_error).",
			},
			[]string{"outcome"},
		),
		sslTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ssl_checks_total",
				Help:      "TLS certificate checks on completed probes.",
			},
			[]string{"valid"},
		),
		probeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_seconds",
				Help:      "HTTP probe response time in seconds.",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "probes_in_flight",
				Help:      "URL probes currently running.",
			},
		),
		batchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batches_total",
				Help:      "Batches by result (ok, failed).",
			},
			[]string{"result"},
		),
		batchSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_size",
				Help:      "URLs per batch.",
				Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
			},
		),
		batchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_duration_seconds",
				Help:      "Wall-clock time per batch.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
	reg.MustRegister(
		c.probesTotal, c.sslTotal, c.probeDuration, c.inFlight,
		c.batchesTotal, c.batchSize, c.batchDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) ProbeStarted() {
	if c == nil {
		return
	}
	c.inFlight.Inc()
}

func (c *Collector) ProbeEnded() {
	if c == nil {
		return
	}
	c.inFlight.Dec()
}

// RecordProbe counts one finished result.
func (c *Collector) RecordProbe(r domain.ProbeResult) {
	if c == nil {
		return
	}
	if r.Failed() {
		c.probesTotal.WithLabelValues("http_error").Inc()
		return
	}
	c.probesTotal.WithLabelValues("ok").Inc()
	if r.SSLValid {
		c.sslTotal.WithLabelValues("true").Inc()
	} else {
		c.sslTotal.WithLabelValues("false").Inc()
	}
	if r.ResponseTimeMS != nil {
		c.probeDuration.Observe(float64(*r.ResponseTimeMS) / 1000.0)
	}
}

func (c *Collector) BatchFinished(size int, seconds float64, err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "failed"
	}
	c.batchesTotal.WithLabelValues(result).Inc()
	c.batchSize.Observe(float64(size))
	c.batchDuration.Observe(seconds)
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
