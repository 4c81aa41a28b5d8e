// Package transition provides generic smoothed interpolation between
// successive values so effect and filter state never jumps discontinuously
// between frames.
package transition

import (
	"github.com/myrtio/light-composer/internal/composer/color"
	"github.com/myrtio/light-composer/internal/composer/math8"
)

// Blender interpolates between a and b by progress/255.
type Blender[T any] func(a, b T, progress uint8) T

// ValueTransition holds the current, source and target value of an
// in-flight interpolation, driven forward one frame at a time by Tick.
type ValueTransition[T any] struct {
	blend      Blender[T]
	current    T
	source     T
	target     *T
	durationMs int64
	startMs    int64
}

// New builds a transition at rest on initial, using blend to interpolate.
func New[T any](initial T, blend Blender[T]) *ValueTransition[T] {
	return &ValueTransition[T]{blend: blend, current: initial, source: initial}
}

// NewUint8 builds a transition over a byte value using math8.Blend8.
func NewUint8(initial uint8) *ValueTransition[uint8] {
	return New(initial, func(a, b uint8, progress uint8) uint8 {
		return math8.Blend8(a, b, progress)
	})
}

// NewRGB builds a transition over an RGB value using color.BlendRGB.
func NewRGB(initial color.RGB) *ValueTransition[color.RGB] {
	return New(initial, func(a, b color.RGB, progress uint8) color.RGB {
		return color.BlendRGB(a, b, progress)
	})
}

// Current returns the interpolated value as of the last Tick.
func (vt *ValueTransition[T]) Current() T {
	return vt.current
}

// IsTransitioning reports whether a target is still in flight.
func (vt *ValueTransition[T]) IsTransitioning() bool {
	return vt.target != nil
}

// Set arms a transition toward value. durationMs == 0 applies immediately;
// otherwise the transition blends from the current value starting at
// startTimeMs and completing durationMs later.
func (vt *ValueTransition[T]) Set(value T, durationMs int64, startTimeMs int64) {
	vt.startMs = startTimeMs
	if durationMs <= 0 {
		vt.current = value
		vt.source = value
		vt.target = nil
		vt.durationMs = 0
		return
	}

	vt.source = vt.current
	target := value
	vt.target = &target
	vt.durationMs = durationMs
}

// Tick advances the transition to now, blending current toward the
// in-flight target. Call once per frame.
func (vt *ValueTransition[T]) Tick(nowMs int64) {
	if vt.target == nil {
		return
	}

	elapsed := nowMs - vt.startMs
	if elapsed >= vt.durationMs {
		vt.current = *vt.target
		vt.source = *vt.target
		vt.target = nil
		return
	}

	progress := math8.Progress8(elapsed, vt.durationMs)
	vt.current = vt.blend(vt.source, *vt.target, progress)
}
