package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sadopc/taskday/internal/timer"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	starts        *prometheus.CounterVec
	stops         prometheus.Counter
	warnings      *prometheus.CounterVec
	storeErrors   *prometheus.CounterVec
	entrySeconds  prometheus.Histogram
	requests      *prometheus.CounterVec
	requestTiming *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		starts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskday",
			Subsystem: "timer",
			Name:      "starts_total",
			Help:      "Timer start requests by outcome (created, resumed, already_complete).",
		}, []string{"result"}),
		stops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taskday",
			Subsystem: "timer",
			Name:      "stops_total",
			Help:      "Time entries closed.",
		}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskday",
			Subsystem: "timer",
			Name:      "warnings_total",
			Help:      "Aggregate warnings observed, by kind.",
		}, []string{"kind"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskday",
			Subsystem: "timer",
			Name:      "store_errors_total",
			Help:      "Time entry store failures, by operation.",
		}, []string{"op"}),
		entrySeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "taskday",
			Subsystem: "timer",
			Name:      "entry_duration_seconds",
			Help:      "Duration of closed time entries.",
			Buckets:   []float64{60, 300, 900, 1500, 1800, 3600, 7200, 14400},
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskday",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestTiming: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "taskday",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	reg.MustRegister(m.starts, m.stops, m.warnings, m.storeErrors, m.entrySeconds, m.requests, m.requestTiming)
	return m
}

// Observe implements timer.Observer.
func (m *Metrics) Observe(_ context.Context, ev timer.Event) {
	switch ev.Kind {
	case timer.EventStarted:
		m.starts.WithLabelValues("created").Inc()
	case timer.EventResumed:
		m.starts.WithLabelValues("resumed").Inc()
	case timer.EventAlreadyComplete:
		m.starts.WithLabelValues("already_complete").Inc()
	case timer.EventStopped:
		m.stops.Inc()
		if ev.Entry != nil && ev.Entry.DurationSeconds != nil {
			m.entrySeconds.Observe(float64(*ev.Entry.DurationSeconds))
		}
	case timer.EventWarning:
		m.warnings.WithLabelValues(timer.WarningKind(ev.Warning)).Inc()
	case timer.EventStoreError:
		m.storeErrors.WithLabelValues(ev.Op).Inc()
	}
}

// RecordRequest counts one served HTTP request.
func (m *Metrics) RecordRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestTiming.WithLabelValues(route).Observe(elapsed.Seconds())
}
