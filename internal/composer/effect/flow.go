package effect

import (
	"github.com/myrtio/light-composer/internal/composer/color"
	"github.com/myrtio/light-composer/internal/composer/math8"
)

// FlowVariant selects the palette a FlowEffect paints with.
type FlowVariant int

const (
	VariantAurora FlowVariant = iota
	VariantLavaLamp
)

var auroraPalette = []color.RGB{
	color.FromU32(0x002EB8), // deep blue
	color.FromU32(0x00FFD4), // teal
	color.FromU32(0x14FF78), // green
	color.FromU32(0x00C8FF), // cyan
	color.FromU32(0x8800FF), // violet
	color.FromU32(0xFF0090), // pink/magenta
}

var lavaLampPalette = []color.RGB{
	color.FromU32(0x3C0014), // dark magenta
	color.FromU32(0xD10038), // deep red
	color.FromU32(0xFF5000), // orange
	color.FromU32(0xFF972E), // bright yellow
	color.FromU32(0xF2039F), // purple accent
}

const (
	layer1PeriodMs int64 = 8_000
	layer2PeriodMs int64 = 5_000
	layer3PeriodMs int64 = 13_000

	minCell1Leds, maxCell1Leds uint32 = 12, 40
	minCell2Leds, maxCell2Leds uint32 = 6, 18
	minCell3Leds, maxCell3Leds uint32 = 18, 60
)

// FlowEffect paints a layered value-noise flow across the strip, sampling a
// themed palette by the combined noise value at each pixel.
type FlowEffect struct {
	layer1Period, layer2Period, layer3Period int64
	variant                                  FlowVariant
}

// NewFlowEffect builds a flow effect for the given palette variant.
func NewFlowEffect(variant FlowVariant) *FlowEffect {
	return &FlowEffect{
		layer1Period: layer1PeriodMs,
		layer2Period: layer2PeriodMs,
		layer3Period: layer3PeriodMs,
		variant:      variant,
	}
}

func flowHash(x uint64) uint32 {
	z := x + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return uint32(z ^ (z >> 31))
}

func clampU32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// valueNoise computes a smooth 1D noise sample for a 16.16 fixed-point
// position, interpolating between hashed lattice points.
func valueNoise(posFP uint64) uint8 {
	cell := posFP >> 16
	frac := uint8((posFP >> 8) & 0xFF)

	v0 := uint8(flowHash(cell) & 0xFF)
	v1 := uint8(flowHash(cell+1) & 0xFF)

	t := math8.EaseInOutQuad(frac)
	return math8.Blend8(v0, v1, t)
}

func samplePalette(palette []color.RGB, t uint8) color.RGB {
	segments := len(palette) - 1
	if segments <= 0 {
		if len(palette) == 0 {
			return color.Black
		}
		return palette[0]
	}

	scaled := uint16(t) * uint16(segments)
	segment := int(scaled >> 8)
	if segment > segments-1 {
		segment = segments - 1
	}
	localT := uint8(scaled & 0xFF)

	return color.BlendRGB(palette[segment], palette[segment+1], localT)
}

func (e *FlowEffect) palette() []color.RGB {
	if e.variant == VariantLavaLamp {
		return lavaLampPalette
	}
	return auroraPalette
}

func (e *FlowEffect) combinedNoise(i, length uint32, nowMs int64) uint8 {
	timeMs := uint64(nowMs)

	cell1 := clampU32(length/6, minCell1Leds, maxCell1Leds)
	if cell1 < 1 {
		cell1 = 1
	}
	cell2 := clampU32(length/12, minCell2Leds, maxCell2Leds)
	if cell2 < 1 {
		cell2 = 1
	}
	cell3 := clampU32(length/4, minCell3Leds, maxCell3Leds)
	if cell3 < 1 {
		cell3 = 1
	}

	i64 := uint64(i)
	x1 := (i64 << 16) / uint64(cell1)
	x2 := (i64 << 16) / uint64(cell2)
	x3 := (i64 << 16) / uint64(cell3)

	p1 := (timeMs << 16) / uint64(e.layer1Period)
	p2 := (timeMs << 16) / uint64(e.layer2Period)
	p3 := (timeMs << 16) / uint64(e.layer3Period)

	n1 := valueNoise(x1 + p1)
	n2 := valueNoise(x2 - p2)
	n3 := valueNoise(x3 + p3*2)

	combined := (uint16(n1)*128 + uint16(n2)*77 + uint16(n3)*51) >> 8
	return uint8(combined)
}

// Render draws the current flow frame.
func (e *FlowEffect) Render(nowMs int64, leds []color.RGB) {
	if len(leds) == 0 {
		return
	}

	length := uint32(len(leds))
	palette := e.palette()

	for i := range leds {
		noise := e.combinedNoise(uint32(i), length, nowMs)
		base := samplePalette(palette, noise)

		brightnessMod := math8.Scale8(noise, 64)
		if int(brightnessMod)+191 > 255 {
			brightnessMod = 255
		} else {
			brightnessMod += 191
		}

		leds[i] = color.RGB{
			R: math8.Scale8(base.R, brightnessMod),
			G: math8.Scale8(base.G, brightnessMod),
			B: math8.Scale8(base.B, brightnessMod),
		}
	}
}

// Reset is a no-op: the flow phase is a pure function of nowMs.
func (e *FlowEffect) Reset() {}

// IsTransitioning is always false: flow has no discrete target state.
func (e *FlowEffect) IsTransitioning() bool { return false }

// PreciseColors reports false: color correction is skipped for the flow;
// the brightness filter still applies.
func (e *FlowEffect) PreciseColors() bool { return false }
