package color

import "testing"

func TestFillGradientFPEndpoints(t *testing.T) {
	leds := make([]RGB, 10)
	start := HSV{Hue: 0, Sat: 255, Val: 255}
	end := HSV{Hue: 85, Sat: 255, Val: 255}

	FillGradientFP(leds, 0, start, 9, end, GradientForward)

	if got := leds[0]; got != HSVToRGB(start) {
		t.Errorf("first pixel = %+v, want %+v", got, HSVToRGB(start))
	}
}

func TestFillGradientFPEmptySlice(t *testing.T) {
	var leds []RGB
	FillGradientFP(leds, 0, HSV{}, 0, HSV{}, GradientForward)
}

func TestFillGradientFPBlackKeepsStartHue(t *testing.T) {
	leds := make([]RGB, 5)
	start := HSV{Hue: 128, Sat: 255, Val: 255}
	end := HSV{Hue: 0, Sat: 0, Val: 0}

	FillGradientFP(leds, 0, start, 4, end, GradientForward)

	last := leds[len(leds)-1]
	if last != (RGB{0, 0, 0}) {
		t.Errorf("fade to black should end at black, got %+v", last)
	}
}

func TestFillGradientThreeFPPrimaryAnchors(t *testing.T) {
	leds := make([]RGB, 5)
	c1 := HSV{Hue: 0, Sat: 255, Val: 255}   // red
	c2 := HSV{Hue: 85, Sat: 255, Val: 255}  // green
	c3 := HSV{Hue: 171, Sat: 255, Val: 255} // blue

	FillGradientThreeFP(leds, c1, c2, c3)

	if got := leds[0]; got != (RGB{R: 255}) {
		t.Errorf("index 0 = %+v, want pure red", got)
	}
	if got := leds[2]; got != (RGB{G: 255}) {
		t.Errorf("index 2 = %+v, want pure green", got)
	}
	if got := leds[4]; got.B < 250 || got.R > 5 {
		t.Errorf("index 4 = %+v, want ~pure blue", got)
	}
}

func TestFillGradientFPSwapsReversedEndpoints(t *testing.T) {
	forward := make([]RGB, 8)
	reversed := make([]RGB, 8)
	a := HSV{Hue: 10, Sat: 255, Val: 255}
	b := HSV{Hue: 60, Sat: 255, Val: 255}

	FillGradientFP(forward, 0, a, 7, b, GradientForward)
	FillGradientFP(reversed, 7, b, 0, a, GradientForward)

	for i := range forward {
		if forward[i] != reversed[i] {
			t.Errorf("pixel %d: %+v != %+v", i, forward[i], reversed[i])
		}
	}
}

func TestFillGradientThreeFPSplitsAtHalf(t *testing.T) {
	leds := make([]RGB, 10)
	c1 := HSV{Hue: 0, Sat: 255, Val: 255}
	c2 := HSV{Hue: 85, Sat: 255, Val: 255}
	c3 := HSV{Hue: 171, Sat: 255, Val: 255}

	FillGradientThreeFP(leds, c1, c2, c3)

	if got := leds[0]; got != HSVToRGB(c1) {
		t.Errorf("first pixel = %+v, want %+v", got, HSVToRGB(c1))
	}
	if got := leds[5]; got != HSVToRGB(c2) {
		t.Errorf("midpoint pixel = %+v, want %+v", got, HSVToRGB(c2))
	}
}
