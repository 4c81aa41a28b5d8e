// Package filter implements the post-processing stage applied to every
// rendered frame before it reaches the output driver: white-balance color
// correction, then the brightness envelope.
package filter

import (
	"github.com/myrtio/light-composer/internal/composer/color"
	"github.com/myrtio/light-composer/internal/composer/math8"
)

// ColorCorrection applies per-channel multiplicative scaling, e.g. for
// white balance or a fixed color-temperature correction.
type ColorCorrection struct {
	factors color.RGB
}

// NewColorCorrection builds a correction from per-channel factors (255 =
// no change on that channel).
func NewColorCorrection(factors color.RGB) ColorCorrection {
	return ColorCorrection{factors: factors}
}

// IsActive reports whether this correction changes anything.
func (c ColorCorrection) IsActive() bool {
	return c.factors.R != 255 || c.factors.G != 255 || c.factors.B != 255
}

// Apply scales every pixel in frame by the correction factors, in place.
func (c ColorCorrection) Apply(frame []color.RGB) {
	if !c.IsActive() {
		return
	}
	for i, pixel := range frame {
		frame[i] = color.RGB{
			R: math8.Scale8(pixel.R, c.factors.R),
			G: math8.Scale8(pixel.G, c.factors.G),
			B: math8.Scale8(pixel.B, c.factors.B),
		}
	}
}
