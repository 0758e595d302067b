package metrics

import (
	"strconv"
	"sync"
	"time"

	hatimdomain "hatim-app-go/internal/domain/hatim"
	teamdomain "hatim-app-go/internal/domain/team"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultNamespace = "hatim"

// PrometheusCollector implements the hatim and team metrics hooks and the
// HTTP request instrumentation on top of Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	hatimsStarted         prometheus.Counter
	pageMarks             *prometheus.CounterVec
	completionTransitions *prometheus.CounterVec
	membershipDecisions   *prometheus.CounterVec
	httpRequests          *prometheus.CounterVec
	httpDuration          *prometheus.HistogramVec
}

var (
	_ hatimdomain.Metrics = (*PrometheusCollector)(nil)
	_ teamdomain.Metrics  = (*PrometheusCollector)(nil)
)

// NewPrometheus creates a collector registering on reg, or on
// prometheus.DefaultRegisterer when reg is nil.
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = defaultNamespace
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.hatimsStarted = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "hatims_started_total",
			Help:      "Total hatims started.",
		})
		p.pageMarks = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "page_marks_total",
			Help:      "Total page marks by action (add, remove).",
		}, []string{"action"})
		p.completionTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "completion_transitions_total",
			Help:      "Total active to completed transitions by the path that committed them.",
		}, []string{"source"})
		p.membershipDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "team",
			Name:      "membership_decisions_total",
			Help:      "Total join requests and admin decisions by kind.",
		}, []string{"decision"})
		p.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"})
		p.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds by route.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms .. ~2.5s
		}, []string{"route"})

		p.reg.MustRegister(p.hatimsStarted)
		p.reg.MustRegister(p.pageMarks)
		p.reg.MustRegister(p.completionTransitions)
		p.reg.MustRegister(p.membershipDecisions)
		p.reg.MustRegister(p.httpRequests)
		p.reg.MustRegister(p.httpDuration)
	})
}

func (p *PrometheusCollector) HatimStarted() {
	p.ensureRegistered()
	p.hatimsStarted.Inc()
}

func (p *PrometheusCollector) PageMarked(completed bool) {
	p.ensureRegistered()
	action := "remove"
	if completed {
		action = "add"
	}
	p.pageMarks.WithLabelValues(action).Inc()
}

func (p *PrometheusCollector) CompletionTransition(source hatimdomain.CompletionSource) {
	p.ensureRegistered()
	p.completionTransitions.WithLabelValues(string(source)).Inc()
}

func (p *PrometheusCollector) MembershipDecision(decision string) {
	p.ensureRegistered()
	p.membershipDecisions.WithLabelValues(decision).Inc()
}

func (p *PrometheusCollector) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	p.ensureRegistered()
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
