// Package color implements the RGB/HSV value types and the integer
// conversions, blends and gradients the render pipeline paints frames with.
// Everything here is 8-bit fixed-point except two float uses, neither
// per-pixel: the gamma table in gamma.go is computed once at package init,
// and Kelvin conversion in kelvin.go runs only at intent-processing time.
package color

import "github.com/myrtio/light-composer/internal/composer/math8"

// RGB is a single LED's linear-ish 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// HSV is a color on the 256-step hue wheel used by the gradient and effect
// math; Hue wraps modulo 256, Sat and Val saturate at 255.
type HSV struct {
	Hue, Sat, Val uint8
}

// Black is the zero RGB value, used as the default frame-buffer fill.
var Black = RGB{}

// BlendRGB blends each channel of a and b independently by amountOfB/255.
func BlendRGB(a, b RGB, amountOfB uint8) RGB {
	return RGB{
		R: math8.Blend8(a.R, b.R, amountOfB),
		G: math8.Blend8(a.G, b.G, amountOfB),
		B: math8.Blend8(a.B, b.B, amountOfB),
	}
}

// FromU32 builds an RGB from a packed 0xRRGGBB value.
func FromU32(value uint32) RGB {
	return RGB{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
	}
}

// MirrorHalf mirrors the first half of leds onto the second half: for i in
// [0, center), leds[len-1-i] = leds[i], where center = ceil(len/2).
func MirrorHalf(leds []RGB) {
	if len(leds) == 0 {
		return
	}
	center := CenterOf(leds)
	last := len(leds) - 1
	for i := 0; i < center; i++ {
		leds[last-i] = leds[i]
	}
}

// CenterOf returns ceil(len(s)/2), clamped to len(s).
func CenterOf[T any](s []T) int {
	count := len(s)
	center := count / 2
	if count%2 != 0 {
		center++
	}
	if center > count {
		return count
	}
	return center
}

// hueBreakpoints are the hue values RGBToHSV anchors pure red/yellow/green/
// cyan/blue/magenta to (0, 43, 85, 128, 171, 213); HSVToRGB walks the same
// six corners so the two conversions round-trip exactly on those colors.
var hueBreakpoints = [7]uint16{0, 43, 85, 128, 171, 213, 256}

// hueCorners flags, per corner, which channels sit at val (1) vs 0.
var hueCorners = [7][3]uint8{
	{1, 0, 0}, // red
	{1, 1, 0}, // yellow
	{0, 1, 0}, // green
	{0, 1, 1}, // cyan
	{0, 0, 1}, // blue
	{1, 0, 1}, // magenta
	{1, 0, 0}, // red (wrap)
}

// HSVToRGB performs the standard six-sector integer HSV->RGB conversion.
func HSVToRGB(hsv HSV) RGB {
	if hsv.Sat == 0 {
		return RGB{R: hsv.Val, G: hsv.Val, B: hsv.Val}
	}

	hue := uint16(hsv.Hue)
	sector := 0
	for s := 0; s < 6; s++ {
		if hue >= hueBreakpoints[s] && hue < hueBreakpoints[s+1] {
			sector = s
			break
		}
	}

	width := hueBreakpoints[sector+1] - hueBreakpoints[sector]
	remainder := uint8((hue - hueBreakpoints[sector]) * 255 / width)

	start, end := hueCorners[sector], hueCorners[sector+1]
	hueRGB := [3]uint8{
		math8.Blend8(start[0]*hsv.Val, end[0]*hsv.Val, remainder),
		math8.Blend8(start[1]*hsv.Val, end[1]*hsv.Val, remainder),
		math8.Blend8(start[2]*hsv.Val, end[2]*hsv.Val, remainder),
	}

	return RGB{
		R: math8.Blend8(hsv.Val, hueRGB[0], hsv.Sat),
		G: math8.Blend8(hsv.Val, hueRGB[1], hsv.Sat),
		B: math8.Blend8(hsv.Val, hueRGB[2], hsv.Sat),
	}
}

// RGBToHSV returns value=max(r,g,b), saturation=(max-min)/max scaled to 255,
// and hue in one of the three 0/85/171-anchored sectors. Pure primaries and
// pure white/black round-trip exactly through HSVToRGB/RGBToHSV.
func RGBToHSV(c RGB) HSV {
	maxC := max3(c.R, c.G, c.B)
	minC := min3(c.R, c.G, c.B)
	delta := maxC - minC

	val := maxC

	var sat uint8
	if maxC != 0 {
		sat = uint8((uint16(delta) * 255) / uint16(maxC))
	}

	var hue uint8
	switch {
	case delta == 0:
		hue = 0
	case maxC == c.R:
		hue = hueSector(0, int16(c.G)-int16(c.B), int16(delta))
	case maxC == c.G:
		hue = hueSector(85, int16(c.B)-int16(c.R), int16(delta))
	default:
		hue = hueSector(171, int16(c.R)-int16(c.G), int16(delta))
	}

	return HSV{Hue: hue, Sat: sat, Val: val}
}

func hueSector(anchor int16, diff, delta int16) uint8 {
	h := anchor + (43*diff)/delta
	if h < 0 {
		h += 256
	}
	return uint8(h)
}

func max3(a, b, c uint8) uint8 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c uint8) uint8 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
