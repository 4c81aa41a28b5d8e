package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myrtio/light-composer/internal/composer/bounds"
	"github.com/myrtio/light-composer/internal/composer/color"
	"github.com/myrtio/light-composer/internal/composer/effect"
	"github.com/myrtio/light-composer/internal/composer/filter"
	"github.com/myrtio/light-composer/internal/composer/intent"
	"github.com/myrtio/light-composer/internal/composer/renderer"
)

// countingDriver records every frame it is handed.
type countingDriver struct {
	writes int
	last   []color.RGB
}

func (d *countingDriver) Write(frame []color.RGB) error {
	d.writes++
	d.last = append(d.last[:0], frame...)
	return nil
}

func newTestScheduler(driver OutputDriver) *FrameScheduler {
	ch := intent.NewChannel(4)
	r := renderer.New(ch.Receiver(), renderer.Config{
		Effect: effect.Static,
		Bounds: bounds.RenderingBounds{Start: 0, End: 10},
		Filters: filter.ProcessorConfig{
			Brightness:      filter.BrightnessFilterConfig{Scale: 255},
			ColorCorrection: color.RGB{R: 255, G: 255, B: 255},
		},
		Brightness: 255,
		Color:      color.RGB{R: 255, G: 255, B: 255},
		MaxLEDs:    10,
	})
	return New(r, driver)
}

func TestTickWritesOneFrame(t *testing.T) {
	driver := &countingDriver{}
	s := newTestScheduler(driver)

	res, err := s.Tick(0)
	require.NoError(t, err)

	assert.Equal(t, 1, driver.writes)
	assert.Len(t, driver.last, 10, "driver gets the full buffer, not the bounded slice")
	assert.Equal(t, DefaultFrameDurationMs, res.NextDeadlineMs)
	assert.Equal(t, DefaultFrameDurationMs, res.SleepMs)
	assert.False(t, res.DriftCorrected)
}

func TestDeadlineAdvancesPerFrame(t *testing.T) {
	driver := &countingDriver{}
	s := newTestScheduler(driver)

	res1, err := s.Tick(0)
	require.NoError(t, err)
	res2, err := s.Tick(res1.NextDeadlineMs)
	require.NoError(t, err)

	assert.Equal(t, res1.NextDeadlineMs+DefaultFrameDurationMs, res2.NextDeadlineMs)
}

func TestDriftCorrectionSkipsBacklog(t *testing.T) {
	driver := &countingDriver{}
	s := newTestScheduler(driver)

	_, err := s.Tick(0)
	require.NoError(t, err)

	// Ten frame-durations late: the scheduler must reset to now and render
	// exactly once, never burst through the missed frames.
	late := 10 * DefaultFrameDurationMs
	res, err := s.Tick(late)
	require.NoError(t, err)

	assert.Equal(t, 2, driver.writes, "one render per Tick, even after a stall")
	assert.True(t, res.DriftCorrected)
	assert.Equal(t, late+DefaultFrameDurationMs, res.NextDeadlineMs)
	assert.Equal(t, DefaultFrameDurationMs, res.SleepMs)
}

func TestSmallLagIsNotDriftCorrected(t *testing.T) {
	driver := &countingDriver{}
	s := newTestScheduler(driver)

	_, err := s.Tick(0)
	require.NoError(t, err)

	// One frame late is within the two-frame tolerance: the deadline keeps
	// its cadence so the loop can catch up naturally.
	res, err := s.Tick(2 * DefaultFrameDurationMs)
	require.NoError(t, err)

	assert.False(t, res.DriftCorrected)
	assert.Equal(t, 2*DefaultFrameDurationMs, res.NextDeadlineMs)
	assert.Equal(t, int64(0), res.SleepMs)
}

type failingDriver struct{ err error }

func (d *failingDriver) Write([]color.RGB) error { return d.err }

func TestTickPropagatesDriverError(t *testing.T) {
	wantErr := assert.AnError
	failing := newTestScheduler(&failingDriver{err: wantErr})

	_, err := failing.Tick(0)
	assert.ErrorIs(t, err, wantErr)
}
