package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "coin_calculator"

	AlgorithmLabel = "algorithm"
	OutcomeLabel   = "outcome"

	Succeeded = "succeeded"
	Failed    = "failed"
)

// Recorder owns the service collectors and the registry they are exposed from.
// A nil *Recorder ignores every observation.
type Recorder struct {
	registry *prometheus.Registry

	solves              *prometheus.CounterVec
	solveDuration       *prometheus.HistogramVec
	denominationUpdates *prometheus.CounterVec
	canonical           prometheus.Gauge
}

// New creates a Recorder with its collectors registered on a private registry,
// alongside the Go runtime and process collectors.
func New() (*Recorder, error) {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solves_total",
				Help:      "Monotonic count of solve requests by algorithm and outcome",
			},
			[]string{AlgorithmLabel, OutcomeLabel},
		),
		solveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solve_duration_seconds",
				Help:      "Time spent computing quantities",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{AlgorithmLabel},
		),
		denominationUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "denomination_updates_total",
				Help:      "Monotonic count of denomination set replacements by outcome",
			},
			[]string{OutcomeLabel},
		),
		canonical: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "canonical_denominations",
				Help:      "1 when the active denomination set is solved greedily, 0 otherwise",
			},
		),
	}

	for _, c := range []prometheus.Collector{
		r.solves,
		r.solveDuration,
		r.denominationUpdates,
		r.canonical,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return r, nil
}

// ObserveSolve records a solve attempt. algorithm may be empty when the
// request failed before an algorithm was chosen.
func (r *Recorder) ObserveSolve(algorithm string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	if algorithm == "" {
		algorithm = "none"
	}
	r.solves.WithLabelValues(algorithm, outcome(err)).Inc()
	if err == nil {
		r.solveDuration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	}
}

// ObserveDenominationUpdate records an attempt to replace the denomination set.
func (r *Recorder) ObserveDenominationUpdate(err error) {
	if r == nil {
		return
	}
	r.denominationUpdates.WithLabelValues(outcome(err)).Inc()
}

// SetCanonical publishes whether the active set is canonical.
func (r *Recorder) SetCanonical(canonical bool) {
	if r == nil {
		return
	}
	if canonical {
		r.canonical.Set(1)
		return
	}
	r.canonical.Set(0)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return Failed
	}
	return Succeeded
}
