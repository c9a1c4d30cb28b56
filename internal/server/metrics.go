package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alfredjeanlab/carbon/internal/model"
	"github.com/alfredjeanlab/carbon/internal/store"
)

// badgeCountTimeout bounds the store queries made during a scrape.
const badgeCountTimeout = 2 * time.Second

// Metrics holds the Prometheus instruments of one server. Each server owns
// its registry so tests can build servers side by side.
type Metrics struct {
	registry *prometheus.Registry

	recorded        *prometheus.CounterVec
	rejected        *prometheus.CounterVec
	co2Total        prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the ledger instruments. When s is non-nil a collector
// reports the stored emission count per badge at scrape time.
func NewMetrics(s store.Store) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		recorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carbon_emissions_recorded_total",
				Help: "Emissions accepted by the ingestion endpoint, by badge.",
			},
			[]string{"badge"},
		),
		rejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carbon_emissions_rejected_total",
				Help: "Ingestion requests that did not store an emission, by reason.",
			},
			[]string{"reason"},
		),
		co2Total: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "carbon_co2_recorded_kg_total",
				Help: "Sum of CO2 (kg) over accepted emissions.",
			},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "carbon_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	if s != nil {
		reg.MustRegister(&badgeCollector{store: s})
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) observeRecorded(e *model.Emission) {
	badge := "other"
	if e.Badge.IsKnown() {
		badge = string(e.Badge)
	}
	m.recorded.WithLabelValues(badge).Inc()
	m.co2Total.Add(e.CO2)
}

func (m *Metrics) observeRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) observeRequest(method, route string, status int, d time.Duration) {
	m.requestDuration.WithLabelValues(method, route, statusLabel(status)).Observe(d.Seconds())
}

// badgeCollector reports CountByBadge for every known badge on each scrape.
type badgeCollector struct {
	store store.Store
}

var badgeStoredDesc = prometheus.NewDesc(
	"carbon_emissions_stored",
	"Emissions currently in the store, by badge.",
	[]string{"badge"}, nil,
)

func (c *badgeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- badgeStoredDesc
}

func (c *badgeCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), badgeCountTimeout)
	defer cancel()

	for _, b := range model.KnownBadges {
		n, err := c.store.CountByBadge(ctx, b)
		if err != nil {
			slog.Warn("failed to count emissions by badge", "badge", b, "error", err)
			ch <- prometheus.NewInvalidMetric(badgeStoredDesc, err)
			continue
		}
		ch <- prometheus.MustNewConstMetric(badgeStoredDesc, prometheus.GaugeValue, float64(n), string(b))
	}
}
