// Package metrics exports Prometheus metrics for the analysis service:
// remote call outcomes, manual fallbacks, breaker state and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spigell/hr-assist/internal/analysis"
	"github.com/spigell/hr-assist/internal/failover"
)

const defaultNamespace = "hr_assist"

// Recorder owns a registry and every collector the service exports. It
// implements failover.Observer.
type Recorder struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry
	runtime   bool

	remoteCalls         *prometheus.CounterVec
	remoteDuration      *prometheus.HistogramVec
	fallbacks           *prometheus.CounterVec
	analyses            *prometheus.CounterVec
	breakerOpen         prometheus.Gauge
	consecutiveFailures prometheus.Gauge
	failureThreshold    prometheus.Gauge
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

var _ failover.Observer = (*Recorder)(nil)

func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: defaultNamespace,
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}
	if r.runtime {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(r.registry)

	r.remoteCalls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "remote_calls_total",
		Help:      "Remote analysis calls by kind and outcome.",
	}, []string{"kind", "outcome"})

	r.remoteDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "remote_call_duration_seconds",
		Help:      "Latency of remote analysis calls.",
		Buckets:   r.buckets,
	}, []string{"kind"})

	r.fallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "manual_fallbacks_total",
		Help:      "Calls answered by the manual analyzer, by kind and reason.",
	}, []string{"kind", "reason"})

	r.analyses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "analyses_total",
		Help:      "Completed analyses by kind and producing mode.",
	}, []string{"kind", "mode"})

	r.breakerOpen = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "remote_disabled",
		Help:      "1 when remote analysis is disabled after consecutive failures.",
	})

	r.consecutiveFailures = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "remote_consecutive_failures",
		Help:      "Current number of consecutive remote failures.",
	})

	r.failureThreshold = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "remote_failure_threshold",
		Help:      "Consecutive failures that disable remote analysis.",
	})

	r.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	r.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   r.buckets,
	}, []string{"route", "method"})

	return r
}

// Registry returns the registry backing the recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) RemoteSucceeded(kind analysis.Kind, elapsed time.Duration) {
	r.remoteCalls.WithLabelValues(string(kind), "success").Inc()
	r.remoteDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

func (r *Recorder) RemoteFailed(kind analysis.Kind, elapsed time.Duration) {
	r.remoteCalls.WithLabelValues(string(kind), "failure").Inc()
	r.remoteDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

func (r *Recorder) Fallback(kind analysis.Kind, reason failover.Reason) {
	r.fallbacks.WithLabelValues(string(kind), string(reason)).Inc()
}

func (r *Recorder) StateChanged(status failover.Status) {
	open := 0.0
	if status.Mode == failover.StateDisabled {
		open = 1
	}
	r.breakerOpen.Set(open)
	r.consecutiveFailures.Set(float64(status.ConsecutiveFailures))
	r.failureThreshold.Set(float64(status.Threshold))
}

// RecordAnalysis counts a finished analysis by the arm that produced it.
func (r *Recorder) RecordAnalysis(kind analysis.Kind, mode analysis.Mode) {
	r.analyses.WithLabelValues(string(kind), string(mode)).Inc()
}

// RecordHTTPRequest counts a served request and its latency.
func (r *Recorder) RecordHTTPRequest(route, method string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
