package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles Prometheus metrics for the catalog pipeline and its
// HTTP surface, and provides helpers to wire them into handlers.
type Collector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	FetchDurations *prometheus.HistogramVec

	RecordsExcluded *prometheus.CounterVec

	CatalogRecords prometheus.Gauge
	CatalogMatches prometheus.Gauge
}

// Exclusion reasons for records_excluded_total.
const (
	ReasonMalformedField = "malformed_field"
	ReasonInvalidElement = "invalid_element"
)

// NewCollector registers the pipeline Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of handled HTTP requests, labeled by route, method, and status code.",
	}, []string{"route", "method", "code"})
	requests, err := registerCounterVec(reg, requests, "http_requests_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"route", "method"})
	durations, err = registerHistogramVec(reg, durations, "http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	fetches := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_fetch_duration_seconds",
		Help:    "Upstream catalog fetch latency in seconds, labeled by group and outcome.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"group", "outcome"})
	fetches, err = registerHistogramVec(reg, fetches, "catalog_fetch_duration_seconds")
	if err != nil {
		return nil, err
	}

	excluded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "records_excluded_total",
		Help: "Records dropped from filter runs due to per-record decode or element errors.",
	}, []string{"reason"})
	excluded, err = registerCounterVec(reg, excluded, "records_excluded_total")
	if err != nil {
		return nil, err
	}

	records, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_records",
		Help: "Record count of the most recent parsed catalog snapshot.",
	}), "catalog_records")
	if err != nil {
		return nil, err
	}
	matches, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_leo_matches",
		Help: "Match count of the most recent filter run.",
	}), "catalog_leo_matches")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:        gatherer,
		HTTPRequests:    requests,
		HTTPDurations:   durations,
		FetchDurations:  fetches,
		RecordsExcluded: excluded,
		CatalogRecords:  records,
		CatalogMatches:  matches,
	}, nil
}

// InstrumentHandler records request counts and durations for one route.
// Routes are labeled explicitly to keep label cardinality bounded.
func (c *Collector) InstrumentHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		if c == nil {
			return
		}
		if c.HTTPRequests != nil {
			c.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(sw.code)).Inc()
		}
		if c.HTTPDurations != nil {
			c.HTTPDurations.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		}
	})
}

// ObserveFetch records one upstream fetch attempt.
func (c *Collector) ObserveFetch(group string, elapsed time.Duration, err error) {
	if c == nil || c.FetchDurations == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.FetchDurations.WithLabelValues(group, outcome).Observe(elapsed.Seconds())
}

// AddExcluded bumps the per-reason exclusion counters after a filter run.
func (c *Collector) AddExcluded(malformed, invalid int) {
	if c == nil || c.RecordsExcluded == nil {
		return
	}
	if malformed > 0 {
		c.RecordsExcluded.WithLabelValues(ReasonMalformedField).Add(float64(malformed))
	}
	if invalid > 0 {
		c.RecordsExcluded.WithLabelValues(ReasonInvalidElement).Add(float64(invalid))
	}
}

// SetCatalogRecords satisfies the catalog MetricsRecorder interface so the
// snapshot store can drive gauge values directly from its mutators.
func (c *Collector) SetCatalogRecords(n int) {
	if c == nil || c.CatalogRecords == nil {
		return
	}
	c.CatalogRecords.Set(float64(n))
}

// SetCatalogMatches records the match count of the latest filter run.
func (c *Collector) SetCatalogMatches(n int) {
	if c == nil || c.CatalogMatches == nil {
		return
	}
	c.CatalogMatches.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	code  int
	wrote bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wrote {
		w.code = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(b)
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
