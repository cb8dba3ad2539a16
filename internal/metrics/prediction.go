package metrics

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Prediction Prometheus metrics of the default registry.
var (
	PredictionRequestsTotal        = newRequestsTotal()
	PredictionRequestDuration      = newRequestDuration()
	PredictionTransportErrorsTotal = newTransportErrorsTotal()
	PredictionCacheTotal           = newCacheTotal()
)

func newRequestsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foldcall",
			Name:      "prediction_requests_total",
			Help:      "Total number of prediction requests that received a response",
		},
		[]string{"endpoint", "status_class"},
	)
}

func newRequestDuration() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "foldcall",
			Name:      "prediction_request_duration_seconds",
			Help:      "Prediction request duration in seconds",
			// Structure prediction on a GPU routinely takes minutes.
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"endpoint"},
	)
}

func newTransportErrorsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foldcall",
			Name:      "prediction_transport_errors_total",
			Help:      "Total prediction requests that failed before a response was received",
		},
		[]string{"endpoint"},
	)
}

func newCacheTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foldcall",
			Name:      "prediction_cache_total",
			Help:      "Prediction response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
}

var registerOnce sync.Once

// RegisterPredictionMetrics registers prediction metrics on the default registry.
// Safe to call more than once.
func RegisterPredictionMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PredictionRequestsTotal,
			PredictionRequestDuration,
			PredictionTransportErrorsTotal,
			PredictionCacheTotal,
		)
	})
}

// PredictionSet is one set of prediction collectors. Library callers get
// their own set so that metrics land on the registry they pass in.
type PredictionSet struct {
	RequestsTotal        *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	TransportErrorsTotal *prometheus.CounterVec
	CacheTotal           *prometheus.CounterVec
}

// DefaultPredictionSet returns the package-level collectors.
func DefaultPredictionSet() *PredictionSet {
	return &PredictionSet{
		RequestsTotal:        PredictionRequestsTotal,
		RequestDuration:      PredictionRequestDuration,
		TransportErrorsTotal: PredictionTransportErrorsTotal,
		CacheTotal:           PredictionCacheTotal,
	}
}

// NewPredictionSet creates unregistered collectors.
func NewPredictionSet() *PredictionSet {
	return &PredictionSet{
		RequestsTotal:        newRequestsTotal(),
		RequestDuration:      newRequestDuration(),
		TransportErrorsTotal: newTransportErrorsTotal(),
		CacheTotal:           newCacheTotal(),
	}
}

// Register registers the set on reg. Collectors already registered there
// replace the set's own, so several clients can share one registry.
func (s *PredictionSet) Register(reg prometheus.Registerer) error {
	if err := RegisterOrReuse(reg, &s.RequestsTotal); err != nil {
		return err
	}
	if err := RegisterOrReuse(reg, &s.RequestDuration); err != nil {
		return err
	}
	if err := RegisterOrReuse(reg, &s.TransportErrorsTotal); err != nil {
		return err
	}
	return RegisterOrReuse(reg, &s.CacheTotal)
}

// RegisterOrReuse registers a collector or reuses an existing one.
func RegisterOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("register metric: %w", err)
	}
	return nil
}
