package color

import (
	"math"

	"github.com/myrtio/light-composer/internal/composer/math8"
)

// gammaLUT is a 256-entry perceptual-brightness correction table (gamma
// 2.8, the value WS2812 strips are commonly driven at) computed once at
// package init and reused as a math8.Adjuster in the brightness filter.
var gammaLUT = buildGammaLUT(2.8)

func buildGammaLUT(gamma float64) [256]uint8 {
	var lut [256]uint8
	for i := range lut {
		lut[i] = uint8(math.Round(math.Pow(float64(i)/255.0, gamma) * 255.0))
	}
	return lut
}

// GammaAdjust is a math8.Adjuster applying the WS2812 gamma-correction LUT.
func GammaAdjust(value uint8) uint8 {
	return gammaLUT[value]
}

var _ math8.Adjuster = GammaAdjust
