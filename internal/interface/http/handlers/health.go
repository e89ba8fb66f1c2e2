package handlers

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH CHECKS
// ══════════════════════════════════════════════════════════════════════════════

// HealthChecker reports the state of the search service.
type HealthChecker interface {
	Check(ctx context.Context) HealthStatus
	AddCheck(name string, check HealthCheckFunc)
}

// HealthCheckFunc returns nil when the dependency is usable.
type HealthCheckFunc func(ctx context.Context) error

// HealthStatus is the body of /health.
//
// Healthy is false when any check fails. Ready is false only when a critical
// check fails; the response cache is optional, so a Redis outage leaves the
// service ready but degraded.
type HealthStatus struct {
	Healthy  bool                   `json:"healthy"`
	Ready    bool                   `json:"ready"`
	Degraded []string               `json:"degraded,omitempty"`
	Message  string                 `json:"message,omitempty"`
	Checks   map[string]CheckResult `json:"checks,omitempty"`
	Uptime   string                 `json:"uptime,omitempty"`

	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version,omitempty"`
}

// CheckResult is the outcome of one named check.
type CheckResult struct {
	Healthy  bool   `json:"healthy"`
	Critical bool   `json:"critical"`
	Message  string `json:"message,omitempty"`
	Duration string `json:"duration,omitempty"`
}

type registeredCheck struct {
	run      HealthCheckFunc
	critical bool
}

// CompositeHealthChecker runs every registered check concurrently.
type CompositeHealthChecker struct {
	mu        sync.RWMutex
	checks    map[string]registeredCheck
	startTime time.Time
	version   string
	timeout   time.Duration
}

// NewCompositeHealthChecker creates a checker with a 3s per-check timeout.
func NewCompositeHealthChecker(version string) *CompositeHealthChecker {
	return &CompositeHealthChecker{
		checks:    make(map[string]registeredCheck),
		startTime: time.Now(),
		version:   version,
		timeout:   3 * time.Second,
	}
}

// SetTimeout changes the per-check timeout.
func (c *CompositeHealthChecker) SetTimeout(timeout time.Duration) {
	c.mu.Lock()
	c.timeout = timeout
	c.mu.Unlock()
}

// AddCheck registers a critical check. Registering a name again replaces it.
func (c *CompositeHealthChecker) AddCheck(name string, check HealthCheckFunc) {
	c.register(name, check, true)
}

// AddOptionalCheck registers a check whose failure marks the service as
// degraded without taking it out of rotation.
func (c *CompositeHealthChecker) AddOptionalCheck(name string, check HealthCheckFunc) {
	c.register(name, check, false)
}

func (c *CompositeHealthChecker) register(name string, check HealthCheckFunc, critical bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = registeredCheck{run: check, critical: critical}
}

// Check runs all checks and aggregates them.
func (c *CompositeHealthChecker) Check(ctx context.Context) HealthStatus {
	c.mu.RLock()
	names := make([]string, 0, len(c.checks))
	checks := make([]registeredCheck, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		checks = append(checks, c.checks[name])
	}
	timeout := c.timeout
	c.mu.RUnlock()

	status := HealthStatus{
		Healthy:   true,
		Ready:     true,
		Checks:    make(map[string]CheckResult, len(checks)),
		Uptime:    time.Since(c.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Version:   c.version,
	}
	if len(checks) == 0 {
		status.Message = "no checks registered"
		return status
	}

	// Each goroutine writes only its own slot.
	results := make([]CheckResult, len(checks))
	var wg sync.WaitGroup
	for i, chk := range checks {
		wg.Add(1)
		go func(i int, chk registeredCheck) {
			defer wg.Done()
			results[i] = runCheck(ctx, chk, timeout)
		}(i, chk)
	}
	wg.Wait()

	var failed []string
	for i, res := range results {
		status.Checks[names[i]] = res
		if res.Healthy {
			continue
		}
		status.Healthy = false
		failed = append(failed, names[i])
		if res.Critical {
			status.Ready = false
		} else {
			status.Degraded = append(status.Degraded, names[i])
		}
	}

	switch {
	case len(failed) == 0:
		status.Message = "all checks passed"
	case status.Ready:
		status.Message = "degraded: " + strings.Join(failed, ", ")
	default:
		status.Message = "failing: " + strings.Join(failed, ", ")
	}
	return status
}

func runCheck(ctx context.Context, chk registeredCheck, timeout time.Duration) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := chk.run(ctx)

	res := CheckResult{
		Healthy:  err == nil,
		Critical: chk.critical,
		Message:  "ok",
		Duration: time.Since(start).Round(time.Millisecond).String(),
	}
	if err != nil {
		res.Message = err.Error()
	}
	return res
}

// ══════════════════════════════════════════════════════════════════════════════
// CHECKS
// ══════════════════════════════════════════════════════════════════════════════

// DatasetChecker reports the size of the loaded dataset.
type DatasetChecker interface {
	Len() int
}

// NewDatasetCheck fails when no students are loaded.
func NewDatasetCheck(data DatasetChecker) HealthCheckFunc {
	return func(ctx context.Context) error {
		if data == nil || data.Len() == 0 {
			return errors.New("dataset is empty")
		}
		return nil
	}
}

// CacheChecker is satisfied by the Redis response cache.
type CacheChecker interface {
	Ping(ctx context.Context) error
}

// NewCacheCheck pings the response cache.
func NewCacheCheck(cache CacheChecker) HealthCheckFunc {
	return func(ctx context.Context) error {
		return cache.Ping(ctx)
	}
}
