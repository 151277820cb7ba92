package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the scheduling
// core: HTTP traffic, availability cache behaviour and the completion sweep.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	sweepRuns        prometheus.Counter
	sweepDuration    prometheus.Histogram
	sweepCompletions prometheus.Counter
	sweepFailures    prometheus.Counter

	bookingsTotal *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "availability_cache_hits_total",
		Help: "Total availability cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "availability_cache_misses_total",
		Help: "Total availability cache misses",
	})

	sweepRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sweep_runs_total",
		Help: "Total completion sweep passes",
	})

	sweepDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sweep_duration_seconds",
		Help:    "Duration of completion sweep passes",
		Buckets: prometheus.DefBuckets,
	})

	sweepCompletions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sweep_completions_total",
		Help: "Appointments promoted to completed by the sweep",
	})

	sweepFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sweep_record_failures_total",
		Help: "Appointments skipped by the sweep due to per-record errors",
	})

	bookingsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_total",
		Help: "Booking attempts by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses,
		sweepRuns, sweepDuration, sweepCompletions, sweepFailures, bookingsTotal, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		sweepRuns:        sweepRuns,
		sweepDuration:    sweepDuration,
		sweepCompletions: sweepCompletions,
		sweepFailures:    sweepFailures,
		bookingsTotal:    bookingsTotal,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if s == nil {
		return
	}
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// RecordCacheLookup records an availability cache hit or miss.
func (s *MetricsService) RecordCacheLookup(hit bool) {
	if s == nil {
		return
	}
	if hit {
		s.cacheHits.Inc()
	} else {
		s.cacheMisses.Inc()
	}
}

// RecordSweep records one completed sweep pass.
func (s *MetricsService) RecordSweep(duration time.Duration, completions, failures int) {
	if s == nil {
		return
	}
	s.sweepRuns.Inc()
	s.sweepDuration.Observe(duration.Seconds())
	s.sweepCompletions.Add(float64(completions))
	s.sweepFailures.Add(float64(failures))
}

// RecordBooking records a booking attempt outcome label.
func (s *MetricsService) RecordBooking(outcome string) {
	if s == nil {
		return
	}
	s.bookingsTotal.WithLabelValues(outcome).Inc()
}
