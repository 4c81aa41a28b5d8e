package color

import "math"

// lnLUT caches ln(x) at the integers 10..66, where Tanner Helland's
// green/blue formulas evaluate the log for almost every input. lnLookup
// truncates x to an integer before the lookup and falls back to math.Log
// outside that range (the blue formula reaches down to just above 9).
var lnLUT = [57]float64{
	2.302585, 2.397895, 2.484907, 2.564949, 2.639057, 2.707606, 2.772589, 2.833213,
	2.890372, 2.944438, 2.995732, 3.044522, 3.091042, 3.135494, 3.178054, 3.218876,
	3.258097, 3.295837, 3.332205, 3.367296, 3.401197, 3.433987, 3.465736, 3.496508,
	3.526361, 3.555348, 3.583519, 3.610918, 3.637586, 3.663562, 3.688879, 3.713572,
	3.73767, 3.7612, 3.78419, 3.806662, 3.828641, 3.850148, 3.871201, 3.89182, 3.912023,
	3.931825, 3.951244, 3.970292, 3.988984, 4.007333, 4.025352, 4.043051, 4.060443,
	4.077537, 4.094345, 4.110874, 4.127134, 4.143134, 4.158883, 4.174387, 4.189654,
}

func lnLookup(x float64) float64 {
	idx := int(x) - 10
	if idx >= 0 && idx < len(lnLUT) {
		return lnLUT[idx]
	}
	return math.Log(x)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// KelvinToRGB converts a color temperature in Kelvin (1000-40000K) to RGB
// using the Tanner Helland approximation. This is the one place in the
// render pipeline that touches floating point; it runs at intent-processing
// time, never per pixel per frame.
func KelvinToRGB(kelvin uint16) RGB {
	temp := clamp(float64(kelvin)/100.0, 10.0, 400.0)
	originalTemp := temp

	var red float64
	if temp <= 66.0 {
		red = 255.0
	} else {
		temp -= 60.0
		red = clamp(329.69873*math.Pow(temp, -0.13320476), 0.0, 255.0)
	}

	var green float64
	if originalTemp <= 66.0 {
		green = 99.4708*lnLookup(originalTemp) - 161.11957
	} else {
		temp = originalTemp - 60.0
		green = 288.12217 * math.Pow(temp, -0.07551485)
	}
	green = clamp(green, 0.0, 255.0)

	var blue float64
	switch {
	case originalTemp >= 66.0:
		blue = 255.0
	case originalTemp <= 19.0:
		blue = 0.0
	default:
		temp = originalTemp - 10.0
		blue = 138.51773*lnLookup(temp) - 305.0448
	}
	blue = clamp(blue, 0.0, 255.0)

	return RGB{R: uint8(red), G: uint8(green), B: uint8(blue)}
}
