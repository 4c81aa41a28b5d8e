package filter

import (
	"github.com/myrtio/light-composer/internal/composer/color"
	"github.com/myrtio/light-composer/internal/composer/math8"
	"github.com/myrtio/light-composer/internal/composer/transition"
)

// BrightnessRange clamps the effective brightness an intent can request,
// so a caller can never fade a strip all the way to an uncomfortably dim
// (but not fully off) floor or beyond a hardware-safe ceiling.
type BrightnessRange struct {
	Min, Max uint8
}

// BrightnessFilterConfig configures a BrightnessFilter.
type BrightnessFilterConfig struct {
	// MinBrightness is the floor added back after scaling, so the lowest
	// setting reached through Set stays visible; Set(0) lands on the floor,
	// and fully off goes through SetUncorrected.
	MinBrightness uint8
	// Scale compresses the requested 0-255 range before MinBrightness is
	// added back (255 = no compression).
	Scale uint8
	// Adjust is an optional LUT (e.g. color.GammaAdjust) applied to the
	// current brightness value before it scales the frame.
	Adjust math8.Adjuster
}

// BrightnessFilter is the global brightness envelope: it drives fade-in,
// fade-out and direct brightness changes via a ValueTransition, and
// multiplies every pixel by the current (optionally gamma-adjusted) value.
type BrightnessFilter struct {
	minBrightness uint8
	scale         uint8
	adjust        math8.Adjuster
	brightness    *transition.ValueTransition[uint8]
}

// NewBrightnessFilter builds a filter starting at brightness, configured by cfg.
func NewBrightnessFilter(brightness uint8, cfg BrightnessFilterConfig) *BrightnessFilter {
	return &BrightnessFilter{
		minBrightness: cfg.MinBrightness,
		scale:         cfg.Scale,
		adjust:        cfg.Adjust,
		brightness:    transition.NewUint8(brightness),
	}
}

// Set arms a transition to brightness, first compressing it through Scale
// and re-adding MinBrightness, so the requested 0-255 range maps onto
// [MinBrightness, Scale8(255-MinBrightness, Scale)+MinBrightness]; a
// request of 0 lands on MinBrightness, not fully off.
func (f *BrightnessFilter) Set(brightness uint8, durationMs int64, nowMs int64) {
	reduced := saturatingSub(brightness, f.minBrightness)
	corrected := saturatingAdd(math8.Scale8(reduced, f.scale), f.minBrightness)
	f.brightness.Set(corrected, durationMs, nowMs)
}

// SetUncorrected arms a transition to brightness without the Min/Scale
// correction, e.g. for the renderer's power-off fade to 0.
func (f *BrightnessFilter) SetUncorrected(brightness uint8, durationMs int64, nowMs int64) {
	f.brightness.Set(brightness, durationMs, nowMs)
}

// SetAdjuster swaps the output-adjustment LUT. Safe only between frames,
// from the render goroutine.
func (f *BrightnessFilter) SetAdjuster(adjust math8.Adjuster) {
	f.adjust = adjust
}

// IsTransitioning reports whether a brightness fade is in flight.
func (f *BrightnessFilter) IsTransitioning() bool {
	return f.brightness.IsTransitioning()
}

// Tick advances the brightness transition to nowMs.
func (f *BrightnessFilter) Tick(nowMs int64) {
	f.brightness.Tick(nowMs)
}

// Apply multiplies every pixel in frame by the current brightness, in
// place; brightness 255 is a no-op and 0 blanks the frame without touching
// the (possibly expensive) adjust LUT.
func (f *BrightnessFilter) Apply(frame []color.RGB) {
	current := f.brightness.Current()

	if current == 255 {
		return
	}
	if current == 0 {
		for i := range frame {
			frame[i] = color.Black
		}
		return
	}

	if f.adjust != nil {
		current = f.adjust(current)
	}

	for i, pixel := range frame {
		frame[i] = color.RGB{
			R: math8.Scale8(pixel.R, current),
			G: math8.Scale8(pixel.G, current),
			B: math8.Scale8(pixel.B, current),
		}
	}
}

func saturatingSub(a, b uint8) uint8 {
	if b > a {
		return 0
	}
	return a - b
}

func saturatingAdd(a, b uint8) uint8 {
	sum := int(a) + int(b)
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}
