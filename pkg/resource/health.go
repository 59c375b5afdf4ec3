// pkg/resource/health.go
package resource

import (
	"context"
	"fmt"
)

// ResourceHealthCheck reports unhealthy when resource usage approaches
// the configured limits.
type ResourceHealthCheck struct {
	manager *ResourceManager
}

// NewResourceHealthCheck creates a new health check for the resource manager.
func NewResourceHealthCheck(manager *ResourceManager) *ResourceHealthCheck {
	return &ResourceHealthCheck{
		manager: manager,
	}
}

// Name returns the name of this health check.
func (r *ResourceHealthCheck) Name() string {
	return "resource"
}

// Check verifies that resource usage is within acceptable limits.
func (r *ResourceHealthCheck) Check(ctx context.Context) error {
	if usage, limit := r.manager.GetMemoryUsage(), r.manager.MaxMemoryMB(); usage > limit {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", usage, limit)
	}

	// Goroutine pressure is reported early, at 80% of the budget.
	threshold := int64(float64(r.manager.MaxGoroutines()) * 0.8)
	if count := r.manager.GetGoroutineCount(); count > threshold {
		return fmt.Errorf("goroutine count %d exceeds 80%% threshold (%d/%d)",
			count, threshold, r.manager.MaxGoroutines())
	}

	return nil
}
