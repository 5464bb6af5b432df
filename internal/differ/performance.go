package differ

import (
	"sync"
	"time"
)

// PerformanceMetrics is the introspection snapshot exposed by the engine.
type PerformanceMetrics struct {
	TotalComparisons        int64   `json:"total_comparisons"`
	AverageComparisonTimeMs float64 `json:"average_comparison_time_ms"`
	FallbackComparisons     int64   `json:"fallback_comparisons"`
}

// performanceTracker keeps a running count and moving average of comparison
// durations. Updated on every successful comparison.
type performanceTracker struct {
	mu        sync.Mutex
	total     int64
	averageMs float64
	fallbacks int64
}

// record folds one comparison duration into the moving average
func (pt *performanceTracker) record(duration time.Duration) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	pt.total++
	ms := float64(duration.Microseconds()) / 1000.0
	pt.averageMs += (ms - pt.averageMs) / float64(pt.total)
}

// recordFallback counts one transparent fallback to the sequential executor
func (pt *performanceTracker) recordFallback() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.fallbacks++
}

// snapshot returns the current metrics
func (pt *performanceTracker) snapshot() PerformanceMetrics {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	return PerformanceMetrics{
		TotalComparisons:        pt.total,
		AverageComparisonTimeMs: pt.averageMs,
		FallbackComparisons:     pt.fallbacks,
	}
}
