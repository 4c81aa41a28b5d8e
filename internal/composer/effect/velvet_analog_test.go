package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/myrtio/light-composer/internal/composer/color"
)

func TestVelvetAnalogBlackAnchorStaysBlack(t *testing.T) {
	e := NewVelvetAnalogEffect(color.RGB{})

	for _, nowMs := range []int64{0, 1_000, 7_777, 14_000, 26_999, 100_000} {
		leds := make([]color.RGB, 60)
		e.Render(nowMs, leds)
		for i, pixel := range leds {
			assert.Equal(t, color.Black, pixel, "t=%d pixel %d", nowMs, i)
		}
	}
}

func TestVelvetAnalogDeterministic(t *testing.T) {
	anchor := color.RGB{R: 180, G: 60, B: 200}
	a := NewVelvetAnalogEffect(anchor)
	b := NewVelvetAnalogEffect(anchor)

	ledsA := make([]color.RGB, 60)
	ledsB := make([]color.RGB, 60)
	a.Render(9_999, ledsA)
	b.Render(9_999, ledsB)

	assert.Equal(t, ledsA, ledsB)
}

func TestVelvetAnalogBreathes(t *testing.T) {
	e := NewVelvetAnalogEffect(color.RGB{R: 200, G: 40, B: 40})

	// Half a breathing period apart the overall value envelope differs.
	a := make([]color.RGB, 20)
	b := make([]color.RGB, 20)
	e.Render(0, a)
	e.Render(7_000, b)

	assert.NotEqual(t, a, b)
}

func TestVelvetAnalogRetargetsMidFlight(t *testing.T) {
	e := NewVelvetAnalogEffect(color.RGB{R: 255, G: 0, B: 0})
	leds := make([]color.RGB, 10)

	e.SetColor(color.RGB{R: 0, G: 0, B: 255}, 1_000, 0)
	assert.True(t, e.IsTransitioning())

	e.Render(500, leds)
	assert.True(t, e.IsTransitioning())

	e.Render(1_000, leds)
	assert.False(t, e.IsTransitioning())
}

func TestVelvetAnalogSingleLED(t *testing.T) {
	e := NewVelvetAnalogEffect(color.RGB{R: 90, G: 90, B: 200})
	leds := make([]color.RGB, 1)
	e.Render(5_000, leds)
}
