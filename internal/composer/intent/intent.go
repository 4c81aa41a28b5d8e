// Package intent translates external user intents into operations queued
// on the renderer's operation stack, plus a small set of side effects
// (bounds/filter changes) the renderer applies directly.
package intent

import (
	"github.com/myrtio/light-composer/internal/composer/bounds"
	"github.com/myrtio/light-composer/internal/composer/channel"
	"github.com/myrtio/light-composer/internal/composer/color"
	"github.com/myrtio/light-composer/internal/composer/effect"
	"github.com/myrtio/light-composer/internal/composer/filter"
	"github.com/myrtio/light-composer/internal/composer/operation"
)

// StateIntent is a request to change the light's power, brightness, color
// or effect. Pointer fields are "unset" when nil, so an intent can touch
// only one property without clobbering the others.
type StateIntent struct {
	Power            *bool
	Brightness       *uint8
	Color            *color.RGB
	ColorTemperature *uint16
	EffectID         *effect.EffectID
}

// ChangeKind tags which field of a ChangeIntent is meaningful.
type ChangeKind int

const (
	ChangeState ChangeKind = iota
	ChangeBounds
	ChangeColorCorrection
	ChangeBrightnessRange
)

// ChangeIntent is one message on the intent channel.
type ChangeIntent struct {
	Kind            ChangeKind
	State           StateIntent
	Bounds          bounds.RenderingBounds
	ColorCorrection color.RGB
	BrightnessRange filter.BrightnessRange
}

// Channel is the intent transport between producers and the renderer.
type Channel = channel.Channel[ChangeIntent]

// NewChannel builds an intent channel with room for capacity intents.
func NewChannel(capacity int) *Channel {
	return channel.New[ChangeIntent](capacity)
}

// Effects carries the side effects of draining the intent channel that the
// renderer must apply directly (they aren't expressed as queued
// operations because they change renderer configuration, not light state).
type Effects struct {
	Bounds          *bounds.RenderingBounds
	ColorCorrection *color.RGB
	BrightnessRange *filter.BrightnessRange
}

// HasEffects reports whether any field is set.
func (e Effects) HasEffects() bool {
	return e.Bounds != nil || e.ColorCorrection != nil || e.BrightnessRange != nil
}

// Processor drains the intent channel and turns each intent into operation
// stack pushes (for state changes) or Effects (for renderer configuration).
type Processor struct {
	intents channel.Receiver[ChangeIntent]
}

// NewProcessor builds a processor reading from receiver.
func NewProcessor(receiver channel.Receiver[ChangeIntent]) *Processor {
	return &Processor{intents: receiver}
}

// ProcessPending drains every queued intent (non-blocking), pushing
// operations onto stack and returning any renderer-side effects.
func (p *Processor) ProcessPending(stack *operation.Stack, currentBrightness uint8) Effects {
	var effects Effects

	for {
		in, err := p.intents.TryReceive()
		if err != nil {
			break
		}

		switch in.Kind {
		case ChangeState:
			processStateIntent(stack, in.State, currentBrightness)
		case ChangeBounds:
			b := in.Bounds
			effects.Bounds = &b
		case ChangeColorCorrection:
			c := in.ColorCorrection
			effects.ColorCorrection = &c
		case ChangeBrightnessRange:
			r := in.BrightnessRange
			effects.BrightnessRange = &r
		}
	}

	return effects
}

func processStateIntent(stack *operation.Stack, in StateIntent, currentBrightness uint8) {
	if in.EffectID != nil {
		_ = stack.PushEffect(*in.EffectID, currentBrightness)
	}

	if in.Brightness != nil {
		_ = stack.PushBrightness(*in.Brightness)
	}

	switch {
	case in.Color != nil:
		_ = stack.PushColor(*in.Color)
	case in.ColorTemperature != nil:
		_ = stack.PushColor(color.KelvinToRGB(*in.ColorTemperature))
	}

	if in.Power != nil {
		if *in.Power {
			_ = stack.PushPowerOn()
		} else {
			_ = stack.PushPowerOff()
		}
	}
}
