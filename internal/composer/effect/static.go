package effect

import (
	"github.com/myrtio/light-composer/internal/composer/color"
	"github.com/myrtio/light-composer/internal/composer/transition"
)

// StaticEffect fills every LED with one color, crossfading on SetColor.
type StaticEffect struct {
	color *transition.ValueTransition[color.RGB]
}

// NewStaticEffect builds a static fill effect anchored on c.
func NewStaticEffect(c color.RGB) *StaticEffect {
	return &StaticEffect{color: transition.NewRGB(c)}
}

// SetColor arms a crossfade to c.
func (e *StaticEffect) SetColor(c color.RGB, durationMs int64, nowMs int64) {
	e.color.Set(c, durationMs, nowMs)
}

// Render fills leds with the current interpolated color.
func (e *StaticEffect) Render(nowMs int64, leds []color.RGB) {
	e.color.Tick(nowMs)
	current := e.color.Current()
	for i := range leds {
		leds[i] = current
	}
}

// Reset is a no-op; static color has no free-running state to rewind.
func (e *StaticEffect) Reset() {}

// IsTransitioning reports whether a color crossfade is in flight.
func (e *StaticEffect) IsTransitioning() bool {
	return e.color.IsTransitioning()
}

// PreciseColors reports true: a solid fill is exact and should still get
// the white-balance color correction pass.
func (e *StaticEffect) PreciseColors() bool { return true }
