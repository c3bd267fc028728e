// Package metrics exposes Prometheus instrumentation for a search run.
//
// A nil *Recorder is valid and records nothing, so components accept one unconditionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dramtune"

// Simulator invocation outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeFailed     = "invocation_failure"
	OutcomeParseError = "parse_failure"
	OutcomeTimeout    = "timeout"
)

// Recorder holds the collectors for one search run.
type Recorder struct {
	lookups     *prometheus.CounterVec
	invocations *prometheus.CounterVec
	duration    prometheus.Histogram
	generation  prometheus.Gauge
	bestFitness prometheus.Gauge
}

// New creates a Recorder and registers its collectors with reg. A nil reg leaves the
// collectors unregistered.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		lookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fitness_lookups_total",
			Help:      "Fitness requests by how they were served (hit, miss, coalesced).",
		}, []string{"result"}),
		invocations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulator_invocations_total",
			Help:      "External simulator invocations by outcome.",
		}, []string{"outcome"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulator_duration_seconds",
			Help:      "Wall-clock time of one simulator invocation.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		generation: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generation",
			Help:      "Index (1-based) of the last evaluated generation.",
		}),
		bestFitness: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_fitness",
			Help:      "Lowest fitness in the last ranked population.",
		}),
	}
}

// Lookup counts one fitness request; result is "hit", "miss" or "coalesced".
func (r *Recorder) Lookup(result string) {
	if r == nil {
		return
	}
	r.lookups.WithLabelValues(result).Inc()
}

// Invocation counts one simulator run with its outcome and duration.
func (r *Recorder) Invocation(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.invocations.WithLabelValues(outcome).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// Generation publishes the progress of the search.
func (r *Recorder) Generation(index int, best float64) {
	if r == nil {
		return
	}
	r.generation.Set(float64(index))
	r.bestFitness.Set(best)
}
