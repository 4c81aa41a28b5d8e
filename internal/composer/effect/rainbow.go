package effect

import (
	"github.com/myrtio/light-composer/internal/composer/color"
)

// RainbowVariant selects how the three-stop gradient is laid across the
// strip: Short walks the hue wheel the fast way between stops, Long the
// slow way, Mirrored renders Short across the first half and mirrors it.
type RainbowVariant int

const (
	VariantLong RainbowVariant = iota
	VariantShort
	VariantMirrored
)

const (
	defaultCycleMs int64 = 12_000
	hueStep        uint8 = 60
)

// RainbowEffect cycles a three-stop HSV gradient across the strip using the
// fixed-point gradient fill, ported from FastLED's fillGradient idiom.
type RainbowEffect struct {
	cycleMs    int64
	value      uint8
	saturation uint8
	variant    RainbowVariant
	inverse    bool
}

// NewRainbowEffect builds a rainbow effect for variant, optionally reversed.
func NewRainbowEffect(variant RainbowVariant, inverse bool) *RainbowEffect {
	return &RainbowEffect{
		cycleMs:    defaultCycleMs,
		value:      255,
		saturation: 255,
		variant:    variant,
		inverse:    inverse,
	}
}

// WithCycleDuration overrides the default 12s cycle.
func (e *RainbowEffect) WithCycleDuration(durationMs int64) *RainbowEffect {
	e.cycleMs = durationMs
	return e
}

// WithValue overrides the default full brightness (255).
func (e *RainbowEffect) WithValue(value uint8) *RainbowEffect {
	e.value = value
	return e
}

// WithSaturation overrides the default full saturation (255).
func (e *RainbowEffect) WithSaturation(saturation uint8) *RainbowEffect {
	e.saturation = saturation
	return e
}

// Render draws the current rainbow frame.
func (e *RainbowEffect) Render(nowMs int64, leds []color.RGB) {
	if len(leds) == 0 {
		return
	}

	cycleMs := e.cycleMs
	if cycleMs < 1 {
		cycleMs = 1
	}
	progressMs := nowMs % cycleMs
	baseHue := uint8((progressMs * 255) / cycleMs)

	c1 := color.HSV{Hue: baseHue, Sat: e.saturation, Val: e.value}
	c2 := color.HSV{Hue: baseHue + hueStep, Sat: e.saturation, Val: e.value}
	c3 := color.HSV{Hue: baseHue + 2*hueStep, Sat: e.saturation, Val: e.value}

	switch e.variant {
	case VariantShort:
		color.FillGradientThreeFP(leds, c1, c2, c3)
	case VariantLong:
		color.FillGradientThreeFP(leds, c3, c1, c2)
	case VariantMirrored:
		centerLen := color.CenterOf(leds)
		color.FillGradientThreeFP(leds[:centerLen], c1, c2, c3)
		color.MirrorHalf(leds)
	}

	if e.inverse {
		reverse(leds)
	}
}

func reverse(leds []color.RGB) {
	for i, j := 0, len(leds)-1; i < j; i, j = i+1, j-1 {
		leds[i], leds[j] = leds[j], leds[i]
	}
}

// Reset is a no-op; the rainbow phase is purely a function of nowMs.
func (e *RainbowEffect) Reset() {}

// IsTransitioning is always false: rainbow has no discrete color target.
func (e *RainbowEffect) IsTransitioning() bool { return false }

// PreciseColors reports false: color correction is skipped for the
// rainbow; the brightness filter still applies.
func (e *RainbowEffect) PreciseColors() bool { return false }
