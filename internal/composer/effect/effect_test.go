package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/myrtio/light-composer/internal/composer/color"
)

func TestEffectIDNameRoundTrip(t *testing.T) {
	ids := []EffectID{
		Static, RainbowMirrored, RainbowLong, RainbowShort,
		RainbowLongInverse, RainbowShortInverse, VelvetAnalog, Aurora, LavaLamp,
	}
	for _, id := range ids {
		name := id.String()
		got, ok := ParseEffectID(name)
		if !ok {
			t.Fatalf("ParseEffectID(%q) failed to parse", name)
		}
		if got != id {
			t.Errorf("ParseEffectID(%q) = %v, want %v", name, got, id)
		}
	}
}

func TestEffectIDCanonicalValues(t *testing.T) {
	cases := map[EffectID]uint8{
		Static:              0,
		RainbowMirrored:     1,
		RainbowLong:         2,
		RainbowShort:        3,
		RainbowLongInverse:  4,
		RainbowShortInverse: 5,
		VelvetAnalog:        6,
		Aurora:              7,
		LavaLamp:            8,
	}
	for id, want := range cases {
		if uint8(id) != want {
			t.Errorf("%v = %d, want %d", id, uint8(id), want)
		}
	}
}

func TestParseEffectIDRejectsUnknown(t *testing.T) {
	if _, ok := ParseEffectID("not_a_real_effect"); ok {
		t.Fatal("ParseEffectID should reject unknown names")
	}
}

func TestEffectSlotRendersEveryCatalogueEntry(t *testing.T) {
	ids := []EffectID{
		Static, RainbowMirrored, RainbowLong, RainbowShort,
		RainbowLongInverse, RainbowShortInverse, VelvetAnalog, Aurora, LavaLamp,
	}
	anchor := color.RGB{R: 200, G: 40, B: 10}
	for _, id := range ids {
		slot := NewEffectSlot(id, anchor)
		assert.Equal(t, id, slot.ID())

		leds := make([]color.RGB, 30)
		slot.Render(0, leds)
		slot.Render(5_000, leds)
		slot.Reset()
	}
}

func TestEffectSlotUnknownIDFallsBack(t *testing.T) {
	slot := NewEffectSlot(EffectID(250), color.RGB{})
	assert.Equal(t, RainbowMirrored, slot.ID())
}

func TestEffectSlotSetColorIgnoredByColorlessEffects(t *testing.T) {
	slot := NewEffectSlot(RainbowShort, color.RGB{})
	slot.SetColor(color.RGB{R: 255}, 100, 0)
	assert.False(t, slot.IsTransitioning())
}

func TestEffectSlotPreciseColorsPerVariant(t *testing.T) {
	cases := map[EffectID]bool{
		Static:          true,
		VelvetAnalog:    true,
		RainbowMirrored: false,
		RainbowShort:    false,
		Aurora:          false,
		LavaLamp:        false,
	}
	for id, want := range cases {
		slot := NewEffectSlot(id, color.RGB{R: 10, G: 20, B: 30})
		assert.Equal(t, want, slot.RequiresPreciseColors(), "effect %v", id)
	}
}
