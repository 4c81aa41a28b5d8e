// Package scheduler paces the renderer at a fixed frame rate, applying
// drift correction so a stalled process never bursts through a backlog of
// missed frames once it resumes.
package scheduler

import (
	"github.com/myrtio/light-composer/internal/composer/color"
	"github.com/myrtio/light-composer/internal/composer/renderer"
)

// DefaultFPS is the target frame rate absent any override.
const DefaultFPS = 90

// DefaultFrameDurationMs is the frame period implied by DefaultFPS.
const DefaultFrameDurationMs int64 = 1000 / DefaultFPS

// OutputDriver writes one rendered frame to the physical LED strip.
type OutputDriver interface {
	Write(frame []color.RGB) error
}

// FrameResult reports the outcome of one FrameScheduler.Tick.
type FrameResult struct {
	// NextDeadlineMs is when the following frame is due.
	NextDeadlineMs int64
	// SleepMs is how long the caller should wait before calling Tick
	// again; zero if the scheduler is already behind schedule.
	SleepMs int64
	// DriftCorrected reports that this tick found the deadline more than
	// two frame periods in the past and reset it to now instead of
	// bursting through the backlog.
	DriftCorrected bool
}

// FrameScheduler drives a Renderer and OutputDriver at a fixed cadence.
type FrameScheduler struct {
	output          OutputDriver
	renderer        *renderer.Renderer
	nextFrameMs     int64
	frameDurationMs int64
}

// New builds a scheduler at the default 90 FPS frame rate.
func New(r *renderer.Renderer, driver OutputDriver) *FrameScheduler {
	return WithFrameDuration(r, driver, DefaultFrameDurationMs)
}

// WithFrameDuration builds a scheduler at a custom frame period.
func WithFrameDuration(r *renderer.Renderer, driver OutputDriver, frameDurationMs int64) *FrameScheduler {
	return &FrameScheduler{
		output:          driver,
		renderer:        r,
		frameDurationMs: frameDurationMs,
	}
}

// Tick renders and outputs one frame at time nowMs, returning timing
// information for the caller's sleep/wait loop.
func (s *FrameScheduler) Tick(nowMs int64) (FrameResult, error) {
	maxDriftMs := s.frameDurationMs * 2
	drifted := nowMs > s.nextFrameMs+maxDriftMs
	if drifted {
		s.nextFrameMs = nowMs
	}

	frame := s.renderer.Render(nowMs)
	if err := s.output.Write(frame); err != nil {
		return FrameResult{}, err
	}

	s.nextFrameMs += s.frameDurationMs

	sleepMs := int64(0)
	if s.nextFrameMs > nowMs {
		sleepMs = s.nextFrameMs - nowMs
	}

	return FrameResult{NextDeadlineMs: s.nextFrameMs, SleepMs: sleepMs, DriftCorrected: drifted}, nil
}

// Renderer returns the scheduler's underlying renderer.
func (s *FrameScheduler) Renderer() *renderer.Renderer {
	return s.renderer
}
