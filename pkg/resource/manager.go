// pkg/resource/manager.go
package resource

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-airsim/pkg/config"
	"github.com/opd-ai/go-airsim/pkg/logging"
)

// ResourceManager tracks memory and goroutine usage for the telemetry
// server so a runaway client fan-out cannot exhaust the process. It
// enforces a goroutine budget on connection handlers and samples
// memory against the configured limit.
type ResourceManager struct {
	maxMemoryMB     int64
	maxGoroutines   int64
	shutdownTimeout time.Duration
	checkInterval   time.Duration

	goroutineCount int64
	memoryUsageMB  int64

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
	running bool
	logger  *logging.Logger
}

// NewResourceManager creates a resource manager from environment
// configuration.
func NewResourceManager(cfg *config.EnvironmentConfig) *ResourceManager {
	ctx, cancel := context.WithCancel(context.Background())

	return &ResourceManager{
		maxMemoryMB:     cfg.MaxMemoryMB,
		maxGoroutines:   int64(cfg.MaxGoroutines),
		shutdownTimeout: cfg.ShutdownTimeout,
		checkInterval:   cfg.ResourceCheckInterval,
		ctx:             ctx,
		cancel:          cancel,
		done:            make(chan struct{}),
		logger:          logging.NewLogger(),
	}
}

// Start begins the periodic resource monitoring loop.
func (rm *ResourceManager) Start() error {
	rm.mu.Lock()
	if rm.running {
		rm.mu.Unlock()
		return fmt.Errorf("resource manager already running")
	}
	rm.running = true
	rm.mu.Unlock()

	go rm.monitoringLoop()

	rm.logger.Info(rm.ctx, "Resource manager started",
		"max_memory_mb", rm.maxMemoryMB,
		"max_goroutines", rm.maxGoroutines,
		"check_interval", rm.checkInterval,
	)
	return nil
}

// StartGoroutine starts a tracked goroutine with panic recovery,
// refusing if the goroutine budget is exhausted.
func (rm *ResourceManager) StartGoroutine(ctx context.Context, name string, fn func(context.Context)) error {
	current := atomic.LoadInt64(&rm.goroutineCount)
	if current >= rm.maxGoroutines {
		return fmt.Errorf("goroutine limit exceeded: %d/%d", current, rm.maxGoroutines)
	}

	atomic.AddInt64(&rm.goroutineCount, 1)

	go func() {
		defer atomic.AddInt64(&rm.goroutineCount, -1)
		defer func() {
			if r := recover(); r != nil {
				rm.logger.Error(ctx, "Goroutine panic",
					fmt.Errorf("panic: %v", r),
					"name", name,
				)
			}
		}()
		fn(ctx)
	}()

	return nil
}

// CheckMemoryUsage samples current memory usage and compares it
// against the configured limit.
func (rm *ResourceManager) CheckMemoryUsage() error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	currentMB := int64(m.Alloc / 1024 / 1024)
	atomic.StoreInt64(&rm.memoryUsageMB, currentMB)

	if currentMB > rm.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, rm.maxMemoryMB)
	}
	return nil
}

// GetGoroutineCount returns the current number of tracked goroutines.
func (rm *ResourceManager) GetGoroutineCount() int64 {
	return atomic.LoadInt64(&rm.goroutineCount)
}

// GetMemoryUsage returns the most recently sampled memory usage in MB.
func (rm *ResourceManager) GetMemoryUsage() int64 {
	return atomic.LoadInt64(&rm.memoryUsageMB)
}

// MaxMemoryMB returns the configured memory limit.
func (rm *ResourceManager) MaxMemoryMB() int64 {
	return rm.maxMemoryMB
}

// MaxGoroutines returns the configured goroutine budget.
func (rm *ResourceManager) MaxGoroutines() int64 {
	return rm.maxGoroutines
}

// Shutdown stops monitoring and waits for tracked goroutines to
// finish, up to the configured shutdown timeout.
func (rm *ResourceManager) Shutdown(ctx context.Context) error {
	rm.mu.Lock()
	if !rm.running {
		rm.mu.Unlock()
		return nil
	}
	rm.running = false
	rm.mu.Unlock()

	rm.cancel()

	shutdownCtx, cancel := context.WithTimeout(ctx, rm.shutdownTimeout)
	defer cancel()

	select {
	case <-rm.done:
	case <-shutdownCtx.Done():
		rm.logger.Warn(ctx, "Resource monitoring loop did not stop gracefully")
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if rm.GetGoroutineCount() == 0 {
			return nil
		}
		select {
		case <-ticker.C:
		case <-shutdownCtx.Done():
			remaining := rm.GetGoroutineCount()
			return fmt.Errorf("shutdown timeout: %d goroutines still running", remaining)
		}
	}
}

func (rm *ResourceManager) monitoringLoop() {
	defer close(rm.done)

	ticker := time.NewTicker(rm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := rm.CheckMemoryUsage(); err != nil {
				rm.logger.Error(rm.ctx, "Memory limit exceeded", err)
			}
			rm.logger.Debug(rm.ctx, "Resource usage check",
				"goroutines", rm.GetGoroutineCount(),
				"memory_mb", rm.GetMemoryUsage(),
			)
		case <-rm.ctx.Done():
			return
		}
	}
}
