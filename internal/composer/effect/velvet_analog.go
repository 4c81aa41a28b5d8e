package effect

import (
	"github.com/myrtio/light-composer/internal/composer/color"
	"github.com/myrtio/light-composer/internal/composer/math8"
	"github.com/myrtio/light-composer/internal/composer/transition"
)

const (
	defaultBreathePeriodMs int64 = 14_000
	defaultDriftPeriodMs   int64 = 27_000

	// velvetHueShift is the small analog hue offset either side of the
	// anchor color (0-255 hue circle).
	velvetHueShift uint8 = 10

	breatheMinScale uint8 = 235
	breatheMaxScale uint8 = 255
)

// VelvetAnalogEffect renders a calm three-stop gradient derived from a
// single anchor color, with gentle breathing (value) and midpoint drift
// (spatial) so the strip never looks perfectly static.
type VelvetAnalogEffect struct {
	color         *transition.ValueTransition[color.RGB]
	breathePeriod int64
	driftPeriod   int64
}

// NewVelvetAnalogEffect builds the effect anchored on c.
func NewVelvetAnalogEffect(c color.RGB) *VelvetAnalogEffect {
	return &VelvetAnalogEffect{
		color:         transition.NewRGB(c),
		breathePeriod: defaultBreathePeriodMs,
		driftPeriod:   defaultDriftPeriodMs,
	}
}

// SetColor arms a crossfade to the new anchor color.
func (e *VelvetAnalogEffect) SetColor(c color.RGB, durationMs int64, nowMs int64) {
	e.color.Set(c, durationMs, nowMs)
}

func (e *VelvetAnalogEffect) breatheScale(nowMs int64) uint8 {
	period := e.breathePeriod
	if period < 1 {
		period = 1
	}
	progress := nowMs % period
	p := uint8((progress * 255) / period)
	eased := math8.EaseInOutQuad(p)
	return math8.Blend8(breatheMinScale, breatheMaxScale, eased)
}

func (e *VelvetAnalogEffect) midpoint(nowMs int64, ledCount int) int {
	if ledCount <= 1 {
		return 0
	}
	last := ledCount - 1

	rng := ledCount / 10
	if rng > 12 {
		rng = 12
	}
	if rng < 1 {
		rng = 1
	}

	period := e.driftPeriod
	if period < 1 {
		period = 1
	}
	progress := nowMs % period
	p := uint8((progress * 255) / period)

	tri := p
	if p&0x80 != 0 {
		tri = 255 - p
	}
	tri2 := tri << 1
	eased := math8.EaseInOutQuad(tri2)

	offset := (int(eased) - 128) * rng / 128
	baseMid := ledCount / 2

	mid := baseMid + offset
	if mid < 0 {
		mid = 0
	}
	if mid > last {
		mid = last
	}
	return mid
}

func velvetPaletteFromAnchor(anchor color.HSV, breathe uint8) (shadow, body, highlight color.HSV) {
	baseSat := anchor.Sat
	if baseSat > 220 {
		baseSat = 220
	}

	shadow = color.HSV{
		Hue: anchor.Hue - velvetHueShift,
		Sat: math8.Scale8(baseSat, 170),
		Val: math8.Scale8(anchor.Val, math8.Scale8(120, breathe)),
	}
	body = color.HSV{
		Hue: anchor.Hue,
		Sat: math8.Scale8(baseSat, 200),
		Val: math8.Scale8(anchor.Val, math8.Scale8(200, breathe)),
	}
	highlight = color.HSV{
		Hue: anchor.Hue + velvetHueShift,
		Sat: math8.Scale8(baseSat, 150),
		Val: math8.Scale8(anchor.Val, breathe),
	}
	return shadow, body, highlight
}

// Render draws the current velvet-analog frame.
func (e *VelvetAnalogEffect) Render(nowMs int64, leds []color.RGB) {
	e.color.Tick(nowMs)
	rgb := e.color.Current()

	if len(leds) == 0 {
		return
	}

	breathe := e.breatheScale(nowMs)
	anchor := color.RGBToHSV(rgb)
	shadow, body, highlight := velvetPaletteFromAnchor(anchor, breathe)

	last := len(leds) - 1
	mid := e.midpoint(nowMs, len(leds))

	color.FillGradientFP(leds, 0, shadow, mid, body, color.GradientShortest)
	color.FillGradientFP(leds, mid, body, last, highlight, color.GradientShortest)
}

// Reset is a no-op: breathing/drift phase is a pure function of nowMs.
func (e *VelvetAnalogEffect) Reset() {}

// IsTransitioning reports whether the anchor-color crossfade is in flight.
func (e *VelvetAnalogEffect) IsTransitioning() bool {
	return e.color.IsTransitioning()
}

// PreciseColors reports true: the palette is derived from a real anchor
// color, so white-balance correction should still run over it.
func (e *VelvetAnalogEffect) PreciseColors() bool { return true }
