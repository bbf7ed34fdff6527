package entitysearch

import (
	"context"

	"github.com/kailas-cloud/entitysearch/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Health checks the search backend and, when configured, the cache.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// Ping reports whether the search backend is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if r := c.healthSvc.Check(ctx); r.Status == health.Unhealthy {
		return ErrBackend
	}
	return nil
}
