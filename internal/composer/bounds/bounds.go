// Package bounds restricts rendering to a contiguous sub-range of the strip.
package bounds

import "github.com/myrtio/light-composer/internal/composer/color"

// RenderingBounds is a half-open [Start, End) range of LED indices.
type RenderingBounds struct {
	Start, End uint8
}

// Count returns the number of LEDs covered by the bounds.
func (b RenderingBounds) Count() uint8 {
	return b.End - b.Start
}

// Center returns ceil(Count()/2), clamped to Count().
func (b RenderingBounds) Center() uint8 {
	count := b.Count()
	center := count / 2
	if count%2 != 0 {
		center++
	}
	if center > count {
		return count
	}
	return center
}

// Bounded returns the sub-slice of leds covered by bounds.
func Bounded(leds []color.RGB, b RenderingBounds) []color.RGB {
	return leds[b.Start:b.End]
}
