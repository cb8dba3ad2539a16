package foldcall

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/foldcall/internal/metrics"
)

// Operation statuses used as the "status" metric label.
const (
	statusOK      = "ok"
	statusFailure = "failure" // the service answered with a non-2xx status
	statusError   = "error"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foldcall",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "foldcall",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300, 900},
		}, []string{"operation"}),
	}
	if err := metrics.RegisterOrReuse(reg, &m.operations); err != nil {
		return nil, fmt.Errorf("foldcall: %w", err)
	}
	if err := metrics.RegisterOrReuse(reg, &m.duration); err != nil {
		return nil, fmt.Errorf("foldcall: %w", err)
	}
	return m, nil
}

// observer provides logging and metrics for SDK operations.
// prediction holds the transport and cache collectors of this client;
// they are registered only when a registerer is given.
type observer struct {
	logger     *slog.Logger
	metrics    *sdkMetrics
	prediction *metrics.PredictionSet
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	obs := &observer{logger: logger, prediction: metrics.NewPredictionSet()}
	if reg == nil {
		return obs, nil
	}

	m, err := newSDKMetrics(reg)
	if err != nil {
		return nil, err
	}
	obs.metrics = m
	if err := obs.prediction.Register(reg); err != nil {
		return nil, fmt.Errorf("foldcall: %w", err)
	}
	return obs, nil
}

func (o *observer) predictionSet() *metrics.PredictionSet {
	if o == nil || o.prediction == nil {
		return metrics.NewPredictionSet()
	}
	return o.prediction
}

func (o *observer) observe(op string, start time.Time, out Outcome, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	status := statusOK
	switch {
	case err != nil:
		status = statusError
	case !out.IsSuccess():
		status = statusFailure
	}

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	switch status {
	case statusError:
		o.logger.Warn("operation failed",
			"op", op,
			"duration", dur,
			"error", err,
		)
	case statusFailure:
		o.logger.Warn("prediction rejected",
			"op", op,
			"duration", dur,
			"status", out.StatusCode,
		)
	default:
		o.logger.Debug("operation completed",
			"op", op,
			"duration", dur,
			"status", out.StatusCode,
			"cached", out.Cached,
		)
	}
}
