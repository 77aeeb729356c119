// Package metrics records resolution and affiliate gateway outcomes.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Affiliate fetch outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
)

// Recorder receives operation timings and affiliate outcomes.
type Recorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
	Affiliate(library, outcome string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Observe(context.Context, string, bool, time.Duration) {}
func (Nop) Affiliate(string, string)                             {}

// Prometheus exports counters and latency histograms.
type Prometheus struct {
	ops        *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	affiliates *prometheus.CounterVec
}

// NewPrometheus registers the collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bibresolver",
			Name:      "operations_total",
			Help:      "Resolution operations by result.",
		}, []string{"operation", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bibresolver",
			Name:      "operation_duration_seconds",
			Help:      "Resolution operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		affiliates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bibresolver",
			Name:      "affiliate_fetch_total",
			Help:      "Affiliate holdings fetches by library and outcome.",
		}, []string{"library", "outcome"}),
	}
	reg.MustRegister(p.ops, p.latency, p.affiliates)
	return p
}

func (p *Prometheus) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	result := "error"
	if success {
		result = "success"
	}
	p.ops.WithLabelValues(operation, result).Inc()
	p.latency.WithLabelValues(operation).Observe(duration.Seconds())
}

func (p *Prometheus) Affiliate(library, outcome string) {
	p.affiliates.WithLabelValues(library, outcome).Inc()
}
