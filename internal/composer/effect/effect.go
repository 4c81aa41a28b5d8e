// Package effect implements the closed catalogue of LED effects the
// renderer can switch between. Effects are stored as tagged variants (an
// EffectSlot wrapping one concrete effect struct at a time) rather than
// behind a free-form interface registry, so switching effects never
// allocates and the set of effects is fixed at compile time.
package effect

import "github.com/myrtio/light-composer/internal/composer/color"

// EffectID is the stable, wire-visible identifier for a catalogue entry.
type EffectID uint8

// Canonical effect IDs. These values are part of the external contract
// (intents reference them by number) and must never be renumbered.
const (
	Static              EffectID = 0
	RainbowMirrored     EffectID = 1
	RainbowLong         EffectID = 2
	RainbowShort        EffectID = 3
	RainbowLongInverse  EffectID = 4
	RainbowShortInverse EffectID = 5
	VelvetAnalog        EffectID = 6
	Aurora              EffectID = 7
	LavaLamp            EffectID = 8
)

var effectNames = map[EffectID]string{
	Static:              "static",
	RainbowMirrored:     "rainbow_mirrored",
	RainbowLong:         "rainbow_long",
	RainbowShort:        "rainbow_short",
	RainbowLongInverse:  "rainbow_long_inverse",
	RainbowShortInverse: "rainbow_short_inverse",
	VelvetAnalog:        "velvet_analog",
	Aurora:              "aurora",
	LavaLamp:            "lava_lamp",
}

var namesToID = func() map[string]EffectID {
	m := make(map[string]EffectID, len(effectNames))
	for id, name := range effectNames {
		m[name] = id
	}
	return m
}()

// String returns the stable lowercase name for id, or "unknown" if id isn't
// in the canonical catalogue.
func (id EffectID) String() string {
	if name, ok := effectNames[id]; ok {
		return name
	}
	return "unknown"
}

// ParseEffectID resolves a catalogue name back to its EffectID.
func ParseEffectID(name string) (EffectID, bool) {
	id, ok := namesToID[name]
	return id, ok
}

// Effect renders one frame of a single effect into leds, in place.
type Effect interface {
	// Render draws the effect's current frame at time nowMs.
	Render(nowMs int64, leds []color.RGB)
	// Reset returns the effect to its initial state.
	Reset()
	// IsTransitioning reports whether the effect has an in-flight color
	// transition of its own (distinct from the operation-queue fade).
	IsTransitioning() bool
	// PreciseColors reports whether the white-balance color-correction
	// filter should run over this effect's output. Aesthetic effects
	// (rainbow, flow) opt out: correcting them only dims the palette.
	PreciseColors() bool
}

// ColorSetter is implemented by effects whose anchor color can be changed
// with a smooth transition (Static, VelvetAnalog).
type ColorSetter interface {
	SetColor(c color.RGB, durationMs int64, nowMs int64)
}

// EffectSlot holds exactly one live effect at a time, tagged by EffectID so
// switching never allocates a new concrete type at render time.
type EffectSlot struct {
	id     EffectID
	effect Effect
}

// NewEffectSlot builds the slot for id, seeded with anchorColor for the
// color-bearing effects (Static, VelvetAnalog); other effects ignore it.
func NewEffectSlot(id EffectID, anchorColor color.RGB) EffectSlot {
	switch id {
	case Static:
		return EffectSlot{id: id, effect: NewStaticEffect(anchorColor)}
	case RainbowMirrored:
		return EffectSlot{id: id, effect: NewRainbowEffect(VariantMirrored, false)}
	case RainbowLong:
		return EffectSlot{id: id, effect: NewRainbowEffect(VariantLong, false)}
	case RainbowShort:
		return EffectSlot{id: id, effect: NewRainbowEffect(VariantShort, false)}
	case RainbowLongInverse:
		return EffectSlot{id: id, effect: NewRainbowEffect(VariantLong, true)}
	case RainbowShortInverse:
		return EffectSlot{id: id, effect: NewRainbowEffect(VariantShort, true)}
	case VelvetAnalog:
		return EffectSlot{id: id, effect: NewVelvetAnalogEffect(anchorColor)}
	case Aurora:
		return EffectSlot{id: id, effect: NewFlowEffect(VariantAurora)}
	case LavaLamp:
		return EffectSlot{id: id, effect: NewFlowEffect(VariantLavaLamp)}
	default:
		return EffectSlot{id: RainbowMirrored, effect: NewRainbowEffect(VariantMirrored, false)}
	}
}

// ID returns the catalogue entry currently loaded into the slot.
func (s EffectSlot) ID() EffectID { return s.id }

// Render renders the loaded effect.
func (s *EffectSlot) Render(nowMs int64, leds []color.RGB) {
	s.effect.Render(nowMs, leds)
}

// Reset resets the loaded effect's internal state.
func (s *EffectSlot) Reset() {
	s.effect.Reset()
}

// IsTransitioning reports the loaded effect's own transition state.
func (s *EffectSlot) IsTransitioning() bool {
	return s.effect.IsTransitioning()
}

// RequiresPreciseColors reports whether the color-correction filter should
// run over the loaded effect's output.
func (s *EffectSlot) RequiresPreciseColors() bool {
	return s.effect.PreciseColors()
}

// SetColor forwards a color change to the loaded effect if it supports one;
// effects without an anchor color (Rainbow, Flow) silently ignore it.
func (s *EffectSlot) SetColor(c color.RGB, durationMs int64, nowMs int64) {
	if setter, ok := s.effect.(ColorSetter); ok {
		setter.SetColor(c, durationMs, nowMs)
	}
}
