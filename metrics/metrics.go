// Package metrics exposes Prometheus instrumentation for the tournament service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "swiss_tournament"

// Outcome labels for pairing rounds and match reports.
const (
	OutcomeOK        = "ok"
	OutcomeExhausted = "exhausted"
	OutcomeOdd       = "odd"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	pairingRounds      *prometheus.CounterVec
	pairingDuration    *prometheus.HistogramVec
	rematchRejections  prometheus.Counter
	groupsEscalated    prometheus.Counter
	matchesReported    *prometheus.CounterVec
	playersRegistered  prometheus.Counter
	liveClients        prometheus.Gauge
	httpRequests       *prometheus.CounterVec
	httpRequestLatency *prometheus.HistogramVec
}

// New registers every collector on a fresh registry, so several instances
// can coexist in tests.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		pairingRounds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pairing",
			Name:      "rounds_total",
			Help:      "Pairing attempts by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		pairingDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pairing",
			Name:      "duration_seconds",
			Help:      "Time spent computing a round, including the standings snapshot.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
		rematchRejections: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pairing",
			Name:      "rematch_rejections_total",
			Help:      "Candidate pairs rejected because the players already met.",
		}),
		groupsEscalated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pairing",
			Name:      "groups_escalated_total",
			Help:      "Rank groups whose leftovers were carried into a lower group.",
		}),
		matchesReported: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matches",
			Name:      "reported_total",
			Help:      "Match reports by outcome.",
		}, []string{"outcome"}),
		playersRegistered: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "players",
			Name:      "registered_total",
			Help:      "Players registered since start.",
		}),
		liveClients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "clients",
			Help:      "Connected websocket clients.",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpRequestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Recording methods are no-ops on a nil *Metrics.

func (m *Metrics) ObservePairing(strategy, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.pairingRounds.WithLabelValues(strategy, outcome).Inc()
	m.pairingDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

func (m *Metrics) RematchRejected() {
	if m != nil {
		m.rematchRejections.Inc()
	}
}

func (m *Metrics) GroupEscalated() {
	if m != nil {
		m.groupsEscalated.Inc()
	}
}

func (m *Metrics) MatchReported(outcome string) {
	if m != nil {
		m.matchesReported.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) PlayerRegistered() {
	if m != nil {
		m.playersRegistered.Inc()
	}
}

func (m *Metrics) LiveClients(n int) {
	if m != nil {
		m.liveClients.Set(float64(n))
	}
}

// Middleware records request counts and latency keyed by the chi route
// pattern, which keeps label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpRequestLatency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
