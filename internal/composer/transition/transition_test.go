package transition

import (
	"testing"

	"github.com/myrtio/light-composer/internal/composer/color"
)

func TestImmediateSetHasNoTransition(t *testing.T) {
	vt := NewUint8(10)
	vt.Set(200, 0, 1000)
	if vt.IsTransitioning() {
		t.Fatal("zero-duration Set should not start a transition")
	}
	if got := vt.Current(); got != 200 {
		t.Errorf("Current() = %d, want 200", got)
	}
}

func TestTickMonotonicProgress(t *testing.T) {
	vt := NewUint8(0)
	vt.Set(255, 1000, 0)

	prev := uint8(0)
	for ms := int64(0); ms <= 1000; ms += 100 {
		vt.Tick(ms)
		cur := vt.Current()
		if cur < prev {
			t.Fatalf("transition value decreased at t=%d: %d -> %d", ms, prev, cur)
		}
		prev = cur
	}
}

func TestTickCompletesAtDuration(t *testing.T) {
	vt := NewUint8(0)
	vt.Set(255, 500, 0)
	vt.Tick(500)
	if vt.IsTransitioning() {
		t.Fatal("transition should be complete once elapsed >= duration")
	}
	if got := vt.Current(); got != 255 {
		t.Errorf("Current() after completion = %d, want 255", got)
	}
}

func TestRetargetMidFlightStartsFromCurrent(t *testing.T) {
	vt := NewUint8(0)
	vt.Set(200, 1000, 0)
	vt.Tick(500)
	mid := vt.Current()
	if mid == 0 || mid == 200 {
		t.Fatalf("expected an intermediate value at t=500, got %d", mid)
	}

	// Retargeting must resume from the interpolated value, not snap to
	// the old source or target.
	vt.Set(0, 1000, 500)
	vt.Tick(500)
	if got := vt.Current(); got != mid {
		t.Errorf("Current() right after retarget = %d, want %d", got, mid)
	}

	vt.Tick(1500)
	if got := vt.Current(); got != 0 {
		t.Errorf("Current() after retargeted transition = %d, want 0", got)
	}
}

func TestRGBTransitionBlendsPerChannel(t *testing.T) {
	vt := NewRGB(color.RGB{R: 0, G: 255, B: 0})
	vt.Set(color.RGB{R: 255, G: 0, B: 0}, 1000, 0)
	vt.Tick(1000)
	if got := vt.Current(); got != (color.RGB{R: 255, G: 0, B: 0}) {
		t.Errorf("Current() = %+v, want pure red", got)
	}
}

func TestTickPastDeadlineSettles(t *testing.T) {
	vt := NewUint8(0)
	vt.Set(255, 500, 0)
	vt.Tick(10_000)
	if got := vt.Current(); got != 255 {
		t.Errorf("Current() long after deadline = %d, want 255", got)
	}
}
