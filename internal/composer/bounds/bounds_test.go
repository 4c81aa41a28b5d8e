package bounds

import (
	"testing"

	"github.com/myrtio/light-composer/internal/composer/color"
)

func TestCountAndCenter(t *testing.T) {
	b := RenderingBounds{Start: 2, End: 10}
	if got := b.Count(); got != 8 {
		t.Errorf("Count() = %d, want 8", got)
	}
	if got := b.Center(); got != 4 {
		t.Errorf("Center() = %d, want 4", got)
	}

	odd := RenderingBounds{Start: 0, End: 5}
	if got := odd.Center(); got != 3 {
		t.Errorf("odd Center() = %d, want 3 (ceil)", got)
	}
}

func TestBoundedSlicesWithinRange(t *testing.T) {
	leds := make([]color.RGB, 10)
	for i := range leds {
		leds[i] = color.RGB{R: uint8(i)}
	}

	b := RenderingBounds{Start: 2, End: 5}
	sub := Bounded(leds, b)
	if len(sub) != 3 {
		t.Fatalf("len(sub) = %d, want 3", len(sub))
	}
	if sub[0].R != 2 {
		t.Errorf("sub[0].R = %d, want 2", sub[0].R)
	}
}
