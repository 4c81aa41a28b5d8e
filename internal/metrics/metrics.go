// Package metrics collects render-loop counters the host process can
// expose for observability. Nothing in here is called from the render
// pipeline itself; the frame loop records into it between frames, so the
// silent-drop policy for intents stays observable without changing it.
package metrics

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Metrics aggregates composer counters since process start.
type Metrics struct {
	// Frame metrics.
	FramesRendered int64   `json:"frames_rendered"`
	FrameOverruns  int64   `json:"frame_overruns"`
	AvgFrameTimeMs float64 `json:"avg_frame_time_ms"`

	// Intent metrics.
	IntentsEnqueued int64 `json:"intents_enqueued"`
	IntentsDropped  int64 `json:"intents_dropped"`

	// State metrics.
	EffectSwitches int64 `json:"effect_switches"`
	PowerCycles    int64 `json:"power_cycles"`

	// System metrics.
	Uptime         int64  `json:"uptime_seconds"`
	MemoryUsed     uint64 `json:"memory_used_bytes"`
	MemoryTotal    uint64 `json:"memory_total_bytes"`
	GoroutineCount int    `json:"goroutine_count"`

	mu        sync.RWMutex
	startTime time.Time
}

// NewMetrics builds an empty metrics aggregate anchored at now.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// RecordFrame records one completed frame and its render+write duration.
func (m *Metrics) RecordFrame(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FramesRendered++

	// Exponential moving average keeps the hot loop free of a ring of
	// samples.
	ms := float64(duration.Microseconds()) / 1000.0
	if m.AvgFrameTimeMs == 0 {
		m.AvgFrameTimeMs = ms
	} else {
		m.AvgFrameTimeMs = (m.AvgFrameTimeMs * 0.9) + (ms * 0.1)
	}
}

// RecordOverrun records a frame whose deadline had already passed when the
// scheduler got to it (drift correction kicked in).
func (m *Metrics) RecordOverrun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FrameOverruns++
}

// RecordIntentEnqueued records an intent accepted onto the channel.
func (m *Metrics) RecordIntentEnqueued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IntentsEnqueued++
}

// RecordIntentDropped records an intent rejected by a full channel. The
// drop itself stays silent toward the producer; this counter is the
// observability hook.
func (m *Metrics) RecordIntentDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IntentsDropped++
}

// RecordEffectSwitch records one completed effect switch.
func (m *Metrics) RecordEffectSwitch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EffectSwitches++
}

// RecordPowerCycle records a power-on or power-off operation.
func (m *Metrics) RecordPowerCycle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PowerCycles++
}

// UpdateSystemMetrics refreshes the uptime/memory/goroutine gauges.
func (m *Metrics) UpdateSystemMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Uptime = int64(time.Since(m.startTime).Seconds())

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	m.MemoryUsed = memStats.Alloc
	m.MemoryTotal = memStats.Sys

	m.GoroutineCount = runtime.NumGoroutine()
}

// GetMetrics returns a nested snapshot suitable for JSON encoding.
func (m *Metrics) GetMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"frames": map[string]interface{}{
			"rendered":          m.FramesRendered,
			"overruns":          m.FrameOverruns,
			"avg_frame_time_ms": m.AvgFrameTimeMs,
		},
		"intents": map[string]interface{}{
			"enqueued": m.IntentsEnqueued,
			"dropped":  m.IntentsDropped,
			"drop_rate": func() float64 {
				total := m.IntentsEnqueued + m.IntentsDropped
				if total == 0 {
					return 0.0
				}
				return float64(m.IntentsDropped) / float64(total) * 100
			}(),
		},
		"state": map[string]interface{}{
			"effect_switches": m.EffectSwitches,
			"power_cycles":    m.PowerCycles,
		},
		"system": map[string]interface{}{
			"uptime_seconds":     m.Uptime,
			"memory_used_bytes":  m.MemoryUsed,
			"memory_total_bytes": m.MemoryTotal,
			"memory_used_mb":     m.MemoryUsed / 1024 / 1024,
			"goroutines":         m.GoroutineCount,
		},
	}
}

// PrometheusFormat renders the counters in Prometheus text exposition
// format.
func (m *Metrics) PrometheusFormat() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return `# HELP composer_frames_rendered_total Total number of rendered frames
# TYPE composer_frames_rendered_total counter
composer_frames_rendered_total ` + formatInt64(m.FramesRendered) + `

# HELP composer_frame_overruns_total Frames that triggered drift correction
# TYPE composer_frame_overruns_total counter
composer_frame_overruns_total ` + formatInt64(m.FrameOverruns) + `

# HELP composer_frame_time_ms Average render+write time per frame in milliseconds
# TYPE composer_frame_time_ms gauge
composer_frame_time_ms ` + formatFloat64(m.AvgFrameTimeMs) + `

# HELP composer_intents_enqueued_total Intents accepted onto the channel
# TYPE composer_intents_enqueued_total counter
composer_intents_enqueued_total ` + formatInt64(m.IntentsEnqueued) + `

# HELP composer_intents_dropped_total Intents rejected by a full channel
# TYPE composer_intents_dropped_total counter
composer_intents_dropped_total ` + formatInt64(m.IntentsDropped) + `

# HELP composer_effect_switches_total Completed effect switches
# TYPE composer_effect_switches_total counter
composer_effect_switches_total ` + formatInt64(m.EffectSwitches) + `

# HELP composer_power_cycles_total Power on/off operations
# TYPE composer_power_cycles_total counter
composer_power_cycles_total ` + formatInt64(m.PowerCycles) + `

# HELP composer_uptime_seconds Uptime in seconds
# TYPE composer_uptime_seconds gauge
composer_uptime_seconds ` + formatInt64(m.Uptime) + `

# HELP composer_memory_used_bytes Memory used in bytes
# TYPE composer_memory_used_bytes gauge
composer_memory_used_bytes ` + formatUint64(m.MemoryUsed) + `

# HELP composer_goroutines Number of goroutines
# TYPE composer_goroutines gauge
composer_goroutines ` + formatInt(m.GoroutineCount) + `
`
}

func formatInt64(n int64) string {
	return fmt.Sprintf("%d", n)
}

func formatUint64(n uint64) string {
	return fmt.Sprintf("%d", n)
}

func formatInt(n int) string {
	return fmt.Sprintf("%d", n)
}

func formatFloat64(n float64) string {
	return fmt.Sprintf("%.2f", n)
}
