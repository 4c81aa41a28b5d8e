// Package renderer implements the main per-frame state machine: draining
// intents, advancing the operation queue, ticking filters, and rendering
// the active effect into a bounded frame buffer.
package renderer

import (
	"github.com/myrtio/light-composer/internal/composer/bounds"
	"github.com/myrtio/light-composer/internal/composer/channel"
	"github.com/myrtio/light-composer/internal/composer/color"
	"github.com/myrtio/light-composer/internal/composer/effect"
	"github.com/myrtio/light-composer/internal/composer/filter"
	"github.com/myrtio/light-composer/internal/composer/intent"
	"github.com/myrtio/light-composer/internal/composer/math8"
	"github.com/myrtio/light-composer/internal/composer/operation"
)

// TransitionTimings configures how long each kind of operation takes to
// complete once it becomes current on the operation stack.
type TransitionTimings struct {
	FadeOutMs     int64
	FadeInMs      int64
	ColorChangeMs int64
	BrightnessMs  int64
}

// lightState is the renderer's authoritative view of what the strip should
// currently be showing, updated only once a queued operation completes.
type lightState struct {
	color         color.RGB
	currentEffect effect.EffectSlot
	brightness    uint8
}

// Config configures a new Renderer.
type Config struct {
	Effect     effect.EffectID
	Bounds     bounds.RenderingBounds
	Filters    filter.ProcessorConfig
	Timings    TransitionTimings
	Brightness uint8
	Color      color.RGB
	MaxLEDs    int
}

// Renderer is the main orchestrator: one instance owns the frame buffer,
// operation stack and filter chain for a single LED strip.
type Renderer struct {
	intents *intent.Processor
	timings TransitionTimings
	bounds  bounds.RenderingBounds

	state        lightState
	stack        *operation.Stack
	currentArmed bool

	frameBuffer []color.RGB
	filters     *filter.Processor
}

// New builds a renderer reading intents from receiver, configured by cfg.
func New(receiver channel.Receiver[intent.ChangeIntent], cfg Config) *Renderer {
	return &Renderer{
		intents:     intent.NewProcessor(receiver),
		frameBuffer: make([]color.RGB, cfg.MaxLEDs),
		timings:     cfg.Timings,
		bounds:      clampBounds(cfg.Bounds, cfg.MaxLEDs),
		state: lightState{
			color:         cfg.Color,
			currentEffect: effect.NewEffectSlot(cfg.Effect, cfg.Color),
			brightness:    cfg.Brightness,
		},
		stack:   operation.NewStack(10),
		filters: filter.NewProcessor(cfg.Filters),
	}
}

// Render processes one frame at time nowMs and returns the full frame
// buffer. Only the bounded sub-slice is painted by the active effect and
// touched by the filter chain; pixels outside the bounds are left as they
// were on the previous frame. The returned slice aliases the renderer's
// internal buffer and is only valid until the next call to Render.
func (r *Renderer) Render(nowMs int64) []color.RGB {
	r.processIntents(nowMs)
	r.processOperations(nowMs)

	r.filters.Tick(nowMs)

	active := bounds.Bounded(r.frameBuffer, r.bounds)
	r.state.currentEffect.Render(nowMs, active)

	r.filters.Apply(active, r.state.currentEffect.RequiresPreciseColors())

	return r.frameBuffer
}

func (r *Renderer) processIntents(nowMs int64) {
	effects := r.intents.ProcessPending(r.stack, r.state.brightness)
	r.applyEffects(effects, nowMs)
}

func (r *Renderer) applyEffects(effects intent.Effects, _ int64) {
	if effects.Bounds != nil {
		r.bounds = clampBounds(*effects.Bounds, len(r.frameBuffer))
	}
	if effects.ColorCorrection != nil {
		r.filters.ColorCorrection = filter.NewColorCorrection(*effects.ColorCorrection)
	}
	if effects.BrightnessRange != nil {
		// The filter is rebuilt at rest on the stored target brightness:
		// a brightness fade still in flight ends there, and the new floor
		// and scale apply to operations armed from this point on.
		r.filters.Brightness = filter.NewBrightnessFilter(r.state.brightness, filter.BrightnessFilterConfig{
			MinBrightness: effects.BrightnessRange.Min,
			Scale:         effects.BrightnessRange.Max,
		})
	}
}

// processOperations advances the operation stack by at most one completed
// operation per frame. An operation's transition is armed the frame it
// becomes current, whether it got there by a pop or by a push onto an
// empty stack; once its transition completes it is committed and the next
// operation starts within the same frame, so the three-step effect swap
// never stalls between steps.
func (r *Renderer) processOperations(nowMs int64) {
	current, ok := r.stack.Current()
	if !ok {
		r.currentArmed = false
		return
	}

	if !r.currentArmed {
		r.armOperation(current, nowMs)
		r.currentArmed = true
	}

	if !r.operationComplete(current) {
		return
	}

	r.commitOperation(current)
	r.stack.Pop()

	next, ok := r.stack.Current()
	if !ok {
		r.currentArmed = false
		return
	}
	r.armOperation(next, nowMs)
}

// armOperation kicks off the transition a newly current operation drives.
func (r *Renderer) armOperation(op operation.Operation, nowMs int64) {
	switch op.Kind {
	case operation.KindSetBrightness:
		r.filters.Brightness.Set(op.Brightness, r.timings.BrightnessMs, nowMs)
	case operation.KindSetColor:
		r.state.currentEffect.SetColor(op.Color, r.timings.ColorChangeMs, nowMs)
	case operation.KindPowerOff:
		r.filters.Brightness.SetUncorrected(0, r.timings.FadeOutMs, nowMs)
	case operation.KindPowerOn:
		r.filters.Brightness.Set(r.state.brightness, r.timings.FadeInMs, nowMs)
	case operation.KindSwitchEffect:
		// Applied at commit; there is nothing to interpolate.
	}
}

func (r *Renderer) operationComplete(op operation.Operation) bool {
	switch op.Kind {
	case operation.KindSetBrightness, operation.KindPowerOff, operation.KindPowerOn:
		return !r.filters.Brightness.IsTransitioning()
	case operation.KindSetColor:
		return !r.state.currentEffect.IsTransitioning()
	case operation.KindSwitchEffect:
		return true
	}
	return true
}

func (r *Renderer) commitOperation(op operation.Operation) {
	switch op.Kind {
	case operation.KindSetBrightness:
		r.state.brightness = op.Brightness
	case operation.KindSetColor:
		r.state.color = op.Color
	case operation.KindSwitchEffect:
		r.setEffect(op.EffectID)
	case operation.KindPowerOff, operation.KindPowerOn:
		// No state field changes; brightness itself already tracks this.
	}
}

// SetTimings replaces the per-operation transition durations. Safe only
// between frames, from the render goroutine; in-flight transitions keep
// the duration they started with.
func (r *Renderer) SetTimings(t TransitionTimings) {
	r.timings = t
}

// SetBrightnessAdjuster swaps the brightness filter's adjustment LUT
// (e.g. enabling or disabling gamma correction at runtime). Safe only
// between frames, from the render goroutine.
func (r *Renderer) SetBrightnessAdjuster(adjust math8.Adjuster) {
	r.filters.Brightness.SetAdjuster(adjust)
}

// clampBounds confines externally supplied bounds to the frame buffer, so
// a sender that got the strip length wrong shrinks the render window
// instead of panicking the slice below.
func clampBounds(b bounds.RenderingBounds, stripLen int) bounds.RenderingBounds {
	limit := uint8(stripLen)
	if stripLen > 255 {
		limit = 255
	}
	if b.End > limit {
		b.End = limit
	}
	if b.Start > b.End {
		b.Start = b.End
	}
	return b
}

func (r *Renderer) setEffect(id effect.EffectID) {
	r.state.currentEffect = effect.NewEffectSlot(id, r.state.color)
	r.state.currentEffect.Reset()
}
