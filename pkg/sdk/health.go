package foldcall

import (
	"context"
	"time"

	healthuc "github.com/kailas-cloud/foldcall/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Health checks that the prediction service accepts connections and,
// when configured, that the response cache answers.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	hs := HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
	if c.obs != nil && c.obs.logger != nil {
		c.obs.logger.Debug("health checked", "status", hs.Status, "duration", time.Since(start))
	}
	return hs
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
