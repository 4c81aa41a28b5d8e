package metrics

import (
	"strings"
	"testing"
	"time"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}
	if m.startTime.IsZero() {
		t.Error("Start time not set")
	}
}

func TestRecordFrame(t *testing.T) {
	m := NewMetrics()

	m.RecordFrame(10 * time.Millisecond)
	m.RecordFrame(10 * time.Millisecond)

	if m.FramesRendered != 2 {
		t.Errorf("Expected FramesRendered to be 2, got %d", m.FramesRendered)
	}
	if m.AvgFrameTimeMs < 9.0 || m.AvgFrameTimeMs > 11.0 {
		t.Errorf("Expected AvgFrameTimeMs near 10, got %f", m.AvgFrameTimeMs)
	}
}

func TestRecordIntentCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordIntentEnqueued()
	m.RecordIntentEnqueued()
	m.RecordIntentDropped()

	if m.IntentsEnqueued != 2 {
		t.Errorf("Expected IntentsEnqueued to be 2, got %d", m.IntentsEnqueued)
	}
	if m.IntentsDropped != 1 {
		t.Errorf("Expected IntentsDropped to be 1, got %d", m.IntentsDropped)
	}
}

func TestRecordOverrun(t *testing.T) {
	m := NewMetrics()

	m.RecordOverrun()
	if m.FrameOverruns != 1 {
		t.Errorf("Expected FrameOverruns to be 1, got %d", m.FrameOverruns)
	}
}

func TestRecordStateCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordEffectSwitch()
	m.RecordPowerCycle()
	m.RecordPowerCycle()

	if m.EffectSwitches != 1 {
		t.Errorf("Expected EffectSwitches to be 1, got %d", m.EffectSwitches)
	}
	if m.PowerCycles != 2 {
		t.Errorf("Expected PowerCycles to be 2, got %d", m.PowerCycles)
	}
}

func TestUpdateSystemMetrics(t *testing.T) {
	m := NewMetrics()
	m.UpdateSystemMetrics()

	if m.GoroutineCount < 1 {
		t.Error("Expected at least one goroutine")
	}
	if m.MemoryUsed == 0 {
		t.Error("Expected non-zero memory usage")
	}
}

func TestGetMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordFrame(5 * time.Millisecond)
	m.RecordIntentDropped()

	snapshot := m.GetMetrics()

	frames, ok := snapshot["frames"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected frames section in snapshot")
	}
	if frames["rendered"] != int64(1) {
		t.Errorf("Expected 1 rendered frame, got %v", frames["rendered"])
	}

	intents, ok := snapshot["intents"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected intents section in snapshot")
	}
	if intents["dropped"] != int64(1) {
		t.Errorf("Expected 1 dropped intent, got %v", intents["dropped"])
	}
	if intents["drop_rate"] != 100.0 {
		t.Errorf("Expected 100%% drop rate, got %v", intents["drop_rate"])
	}
}

func TestPrometheusFormat(t *testing.T) {
	m := NewMetrics()
	m.RecordFrame(time.Millisecond)
	m.UpdateSystemMetrics()

	out := m.PrometheusFormat()

	for _, metric := range []string{
		"composer_frames_rendered_total 1",
		"composer_intents_dropped_total 0",
		"# TYPE composer_frame_time_ms gauge",
		"composer_goroutines",
	} {
		if !strings.Contains(out, metric) {
			t.Errorf("Prometheus output missing %q", metric)
		}
	}
}

// Benchmark tests
func BenchmarkRecordFrame(b *testing.B) {
	m := NewMetrics()
	for i := 0; i < b.N; i++ {
		m.RecordFrame(11 * time.Millisecond)
	}
}

func BenchmarkGetMetrics(b *testing.B) {
	m := NewMetrics()
	m.RecordFrame(time.Millisecond)
	m.RecordIntentEnqueued()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.GetMetrics()
	}
}
