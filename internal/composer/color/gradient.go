package color

// GradientDirection selects which way a hue gradient walks around the wheel.
type GradientDirection int

const (
	// GradientForward walks hue upward (wrapping at 256).
	GradientForward GradientDirection = iota
	// GradientBackward walks hue downward (wrapping at 0).
	GradientBackward
	// GradientShortest picks whichever of Forward/Backward covers fewer steps.
	GradientShortest
)

// FillGradientFP fills leds[startPos..endPos] (both ends inclusive, endPos
// clipped to the last index) with an HSV gradient from
// startColor to endColor using 8.24 fixed-point accumulators, matching
// FastLED's fill_gradient. startPos/endPos are swapped (with their colors)
// if given in reverse order. A zero-val or zero-sat endpoint inherits the
// other endpoint's hue, so fades to/from black or white never hue-shift.
func FillGradientFP(leds []RGB, startPos int, startColor HSV, endPos int, endColor HSV, direction GradientDirection) {
	if len(leds) == 0 {
		return
	}

	if endPos < startPos {
		startPos, endPos = endPos, startPos
		startColor, endColor = endColor, startColor
	}

	if endColor.Val == 0 || endColor.Sat == 0 {
		endColor.Hue = startColor.Hue
	}
	if startColor.Val == 0 || startColor.Sat == 0 {
		startColor.Hue = endColor.Hue
	}

	satDistance87 := (int16(endColor.Sat) - int16(startColor.Sat)) << 7
	valDistance87 := (int16(endColor.Val) - int16(startColor.Val)) << 7

	hueDelta := endColor.Hue - startColor.Hue

	actualDirection := direction
	if direction == GradientShortest {
		if hueDelta > 127 {
			actualDirection = GradientBackward
		} else {
			actualDirection = GradientForward
		}
	}

	var hueDistance87 int16
	if actualDirection == GradientForward {
		hueDistance87 = int16(hueDelta) << 7
	} else {
		backwardDelta := uint8(256 - uint16(hueDelta))
		hueDistance87 = -(int16(backwardDelta) << 7)
	}

	pixelDistance := endPos - startPos
	if pixelDistance < 0 {
		pixelDistance = 0
	}
	divisor := int32(pixelDistance)
	if divisor == 0 {
		divisor = 1
	}

	hueDelta823 := ((int32(hueDistance87) * 65536) / divisor) * 2
	satDelta823 := ((int32(satDistance87) * 65536) / divisor) * 2
	valDelta823 := ((int32(valDistance87) * 65536) / divisor) * 2

	hue824 := uint32(startColor.Hue) << 24
	sat824 := uint32(startColor.Sat) << 24
	val824 := uint32(startColor.Val) << 24

	lastIdx := len(leds) - 1
	stop := endPos
	if stop > lastIdx {
		stop = lastIdx
	}

	for i := startPos; i <= stop; i++ {
		leds[i] = HSVToRGB(HSV{
			Hue: uint8(hue824 >> 24),
			Sat: uint8(sat824 >> 24),
			Val: uint8(val824 >> 24),
		})
		hue824 += uint32(hueDelta823)
		sat824 += uint32(satDelta823)
		val824 += uint32(valDelta823)
	}
}

// FillGradientThreeFP fills leds with two consecutive Forward gradients:
// c1->c2 over the first half, c2->c3 over the remainder.
func FillGradientThreeFP(leds []RGB, c1, c2, c3 HSV) {
	if len(leds) == 0 {
		return
	}

	length := len(leds)
	half := length / 2
	last := length - 1

	FillGradientFP(leds, 0, c1, half, c2, GradientForward)
	if last > half {
		FillGradientFP(leds, half, c2, last, c3, GradientForward)
	}
}
