package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myrtio/light-composer/internal/composer/bounds"
	"github.com/myrtio/light-composer/internal/composer/color"
	"github.com/myrtio/light-composer/internal/composer/effect"
	"github.com/myrtio/light-composer/internal/composer/filter"
	"github.com/myrtio/light-composer/internal/composer/intent"
)

const frameStepMs = 11 // ~90 Hz

func newTestRenderer(intents *intent.Channel, initial color.RGB, brightness uint8) *Renderer {
	return New(intents.Receiver(), Config{
		Effect: effect.Static,
		Bounds: bounds.RenderingBounds{Start: 0, End: 60},
		Filters: filter.ProcessorConfig{
			Brightness:      filter.BrightnessFilterConfig{Scale: 255},
			ColorCorrection: color.RGB{R: 255, G: 255, B: 255},
		},
		Timings: TransitionTimings{
			FadeOutMs:     100,
			FadeInMs:      100,
			ColorChangeMs: 100,
			BrightnessMs:  100,
		},
		Brightness: brightness,
		Color:      initial,
		MaxLEDs:    60,
	})
}

// runFrames ticks the renderer from startMs in frame-sized steps until
// endMs, returning the last frame.
func runFrames(r *Renderer, startMs, endMs int64) []color.RGB {
	var frame []color.RGB
	for now := startMs; now <= endMs; now += frameStepMs {
		frame = r.Render(now)
	}
	return frame
}

func sendState(t *testing.T, ch *intent.Channel, state intent.StateIntent) {
	t.Helper()
	require.NoError(t, ch.TrySend(intent.ChangeIntent{Kind: intent.ChangeState, State: state}))
}

func TestSolidColorFadeIn(t *testing.T) {
	ch := intent.NewChannel(16)
	r := newTestRenderer(ch, color.RGB{}, 0)

	on := true
	brightness := uint8(200)
	red := color.RGB{R: 255, G: 0, B: 0}
	id := effect.Static
	sendState(t, ch, intent.StateIntent{
		Power:      &on,
		Brightness: &brightness,
		Color:      &red,
		EffectID:   &id,
	})

	prevR := uint8(0)
	var frame []color.RGB
	for now := int64(0); now <= 2_000; now += frameStepMs {
		frame = r.Render(now)
		pixel := frame[0]
		assert.GreaterOrEqual(t, pixel.R, prevR, "red channel must rise monotonically (t=%d)", now)
		assert.Equal(t, uint8(0), pixel.G)
		assert.Equal(t, uint8(0), pixel.B)
		prevR = pixel.R
	}

	// Settled: red anchor at 200/255 brightness on every pixel.
	want := color.RGB{R: 200}
	for i, pixel := range frame {
		require.Equal(t, want, pixel, "pixel %d", i)
	}
}

func TestDeterminismAcrossRenderers(t *testing.T) {
	chA := intent.NewChannel(16)
	chB := intent.NewChannel(16)
	a := newTestRenderer(chA, color.RGB{R: 20, G: 200, B: 90}, 180)
	b := newTestRenderer(chB, color.RGB{R: 20, G: 200, B: 90}, 180)

	on := true
	id := effect.Aurora
	for _, ch := range []*intent.Channel{chA, chB} {
		sendState(t, ch, intent.StateIntent{Power: &on})
		sendState(t, ch, intent.StateIntent{EffectID: &id})
	}

	for now := int64(0); now <= 3_000; now += frameStepMs {
		frameA := a.Render(now)
		frameB := b.Render(now)
		require.Equal(t, frameA, frameB, "frames diverged at t=%d", now)
	}
}

func TestEffectSwitchRejectedWhenQueueNearlyFull(t *testing.T) {
	ch := intent.NewChannel(16)
	r := newTestRenderer(ch, color.RGB{R: 255, G: 0, B: 0}, 255)

	// Reach steady state: full-brightness red static fill.
	on := true
	sendState(t, ch, intent.StateIntent{Power: &on})
	runFrames(r, 0, 1_000)

	// Stuff the operation queue with pending brightness steps; each takes
	// 100ms to complete so they pile up.
	for i := 0; i < 9; i++ {
		b := uint8(255 - i)
		sendState(t, ch, intent.StateIntent{Brightness: &b})
	}
	r.Render(1_011)

	// The switch needs 3 free slots; with 9 queued it must be dropped
	// whole and the static effect must keep rendering.
	id := effect.LavaLamp
	sendState(t, ch, intent.StateIntent{EffectID: &id})

	frame := runFrames(r, 1_022, 4_000)
	for i, pixel := range frame {
		require.Zero(t, pixel.G, "pixel %d: static red must survive the dropped switch", i)
		require.Zero(t, pixel.B, "pixel %d", i)
	}
}

func TestBoundsChangeAppliesSameFrame(t *testing.T) {
	ch := intent.NewChannel(16)
	r := newTestRenderer(ch, color.RGB{R: 0, G: 0, B: 255}, 255)

	on := true
	sendState(t, ch, intent.StateIntent{Power: &on})
	runFrames(r, 0, 1_000)

	// Shrink the window, then change color: only the window repaints.
	require.NoError(t, ch.TrySend(intent.ChangeIntent{
		Kind:   intent.ChangeBounds,
		Bounds: bounds.RenderingBounds{Start: 0, End: 30},
	}))
	green := color.RGB{R: 0, G: 255, B: 0}
	sendState(t, ch, intent.StateIntent{Color: &green})

	frame := runFrames(r, 1_011, 3_000)
	assert.Equal(t, color.RGB{G: 255}, frame[0], "inside bounds repainted")
	assert.Equal(t, color.RGB{B: 255}, frame[45], "outside bounds keeps its last painted value")
}

func TestBoundsClampedToStrip(t *testing.T) {
	ch := intent.NewChannel(16)
	r := newTestRenderer(ch, color.RGB{R: 10, G: 10, B: 10}, 255)

	require.NoError(t, ch.TrySend(intent.ChangeIntent{
		Kind:   intent.ChangeBounds,
		Bounds: bounds.RenderingBounds{Start: 0, End: 200},
	}))

	// Must not panic slicing a 60-LED buffer.
	frame := r.Render(0)
	assert.Len(t, frame, 60)
}

func TestPowerOffPreservesBrightnessTarget(t *testing.T) {
	ch := intent.NewChannel(16)
	r := newTestRenderer(ch, color.RGB{R: 255, G: 255, B: 255}, 200)

	on := true
	sendState(t, ch, intent.StateIntent{Power: &on})
	frame := runFrames(r, 0, 1_000)
	require.Equal(t, uint8(200), frame[0].R, "fade-in settles at the stored target")

	off := false
	sendState(t, ch, intent.StateIntent{Power: &off})
	frame = runFrames(r, 1_011, 2_000)
	require.Equal(t, color.Black, frame[0], "power off fades fully dark")

	sendState(t, ch, intent.StateIntent{Power: &on})
	frame = runFrames(r, 2_011, 3_000)
	assert.Equal(t, uint8(200), frame[0].R, "power on restores the preserved target")
}

func TestColorCorrectionAppliesOnlyToPreciseEffects(t *testing.T) {
	ch := intent.NewChannel(16)
	r := newTestRenderer(ch, color.RGB{R: 255, G: 255, B: 255}, 255)

	on := true
	sendState(t, ch, intent.StateIntent{Power: &on})
	require.NoError(t, ch.TrySend(intent.ChangeIntent{
		Kind:            intent.ChangeColorCorrection,
		ColorCorrection: color.RGB{R: 255, G: 128, B: 255},
	}))

	// Static declares precise colors: the green channel halves.
	frame := runFrames(r, 0, 1_000)
	assert.InDelta(t, 128, int(frame[0].G), 3)

	// Rainbow opts out: full-value pixels keep their uncorrected green.
	id := effect.RainbowShort
	sendState(t, ch, intent.StateIntent{EffectID: &id})
	frame = runFrames(r, 1_011, 3_000)

	maxG := uint8(0)
	for _, pixel := range frame {
		if pixel.G > maxG {
			maxG = pixel.G
		}
	}
	assert.Equal(t, uint8(255), maxG, "rainbow must render uncorrected")
}

func TestRainbowPipelinePeriodicity(t *testing.T) {
	ch := intent.NewChannel(16)
	r := newTestRenderer(ch, color.RGB{}, 255)

	on := true
	id := effect.RainbowShort
	sendState(t, ch, intent.StateIntent{Power: &on, EffectID: &id})
	runFrames(r, 0, 1_000)

	// Compare aligned phases one full 12s hue cycle apart, well past all
	// transitions.
	atT := make([]color.RGB, 60)
	copy(atT, r.Render(24_000))
	atNext := r.Render(36_000)

	assert.Equal(t, atT, atNext)
}
