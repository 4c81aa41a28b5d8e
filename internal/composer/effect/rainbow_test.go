package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/myrtio/light-composer/internal/composer/color"
)

func renderRainbow(e *RainbowEffect, nowMs int64, count int) []color.RGB {
	leds := make([]color.RGB, count)
	e.Render(nowMs, leds)
	return leds
}

func TestRainbowPeriodicity(t *testing.T) {
	e := NewRainbowEffect(VariantShort, false)

	atZero := renderRainbow(e, 0, 60)
	atCycle := renderRainbow(e, 12_000, 60)
	atHalf := renderRainbow(e, 6_000, 60)

	assert.Equal(t, atZero, atCycle, "frames one full cycle apart must match")
	assert.NotEqual(t, atZero, atHalf, "frame at half cycle must differ")
}

func TestRainbowCustomCycleDuration(t *testing.T) {
	e := NewRainbowEffect(VariantShort, false).WithCycleDuration(4_000)

	atZero := renderRainbow(e, 0, 30)
	atCycle := renderRainbow(e, 4_000, 30)

	assert.Equal(t, atZero, atCycle)
}

func TestRainbowMirroredIsSymmetric(t *testing.T) {
	e := NewRainbowEffect(VariantMirrored, false)
	leds := renderRainbow(e, 3_000, 60)

	for i := 0; i < 30; i++ {
		assert.Equal(t, leds[i], leds[59-i], "pixel %d", i)
	}
}

func TestRainbowInverseReverses(t *testing.T) {
	forward := renderRainbow(NewRainbowEffect(VariantShort, false), 1_000, 20)
	inverse := renderRainbow(NewRainbowEffect(VariantShort, true), 1_000, 20)

	for i := range forward {
		assert.Equal(t, forward[i], inverse[19-i], "pixel %d", i)
	}
}

func TestRainbowStartsOnBaseHue(t *testing.T) {
	e := NewRainbowEffect(VariantShort, false)
	leds := renderRainbow(e, 0, 60)

	// base_hue at t=0 is 0: pure red at full sat/val.
	assert.Equal(t, color.HSVToRGB(color.HSV{Hue: 0, Sat: 255, Val: 255}), leds[0])
}

func TestRainbowValueAndSaturationOverrides(t *testing.T) {
	e := NewRainbowEffect(VariantShort, false).WithValue(128).WithSaturation(0)
	leds := renderRainbow(e, 0, 10)

	// Zero saturation renders gray at the configured value.
	assert.Equal(t, color.RGB{R: 128, G: 128, B: 128}, leds[0])
}

func TestRainbowEmptySlice(t *testing.T) {
	e := NewRainbowEffect(VariantMirrored, false)
	e.Render(0, nil)
}
