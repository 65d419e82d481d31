package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config controls how a Collector registers its metrics.
type Config struct {
	// Registerer receives the metrics. If nil, prometheus.DefaultRegisterer
	// is used.
	Registerer prometheus.Registerer

	// Namespace prefixes the metric names. If empty, DefaultNamespace is used.
	Namespace string
}

// Collector records observations as Prometheus metrics.
type Collector struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

// New creates and registers a Collector. Registering twice against the same
// Registerer reuses the metrics already there.
func New(cfg Config) (*Collector, error) {
	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	if !isMetricNameValid.MatchString(ns) {
		return nil, ErrInvalidMetricName
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "requests_total",
		Help:      "Intercepted HTTP calls by outcome.",
	}, []string{"outcome"})

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "response_seconds",
		Help:      "Time taken to answer intercepted HTTP calls.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	})

	if err := reg.Register(requests); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		requests = existing
	}

	if err := reg.Register(duration); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(prometheus.Histogram)
		if !ok {
			return nil, err
		}
		duration = existing
	}

	// Pre-create the label values so every outcome is exported from the start
	for _, o := range Outcomes {
		requests.WithLabelValues(string(o))
	}

	return &Collector{requests: requests, duration: duration}, nil
}

// Observe counts the outcome and records elapsed.
func (c *Collector) Observe(outcome Outcome, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(string(outcome)).Inc()
	c.duration.Observe(elapsed.Seconds())
}
