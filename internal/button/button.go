// Package button turns a momentary push button on a GPIO line into power
// intents: each press toggles the light. It is an intent producer running
// on the GPIO event context, exactly the "user-input task" shape the
// channel's silent-drop policy is designed for — a press during an intent
// burst is simply lost, and the user presses again.
package button

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/myrtio/light-composer/internal/composer/channel"
	"github.com/myrtio/light-composer/internal/composer/intent"
	"github.com/myrtio/light-composer/internal/hal"
)

// DefaultDebounce suppresses contact bounce on cheap tactile switches.
const DefaultDebounce = 150 * time.Millisecond

// Config configures a Toggle.
type Config struct {
	// Pin is the BCM GPIO number the button pulls low (wired to ground,
	// internal pull-up).
	Pin int
	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration
}

// Toggle watches a button and alternates power-on/power-off intents.
type Toggle struct {
	sender   channel.Sender[intent.ChangeIntent]
	log      *zap.Logger
	debounce time.Duration

	mu        sync.Mutex
	powered   bool
	lastPress time.Time
}

// New arms the watcher on gpio and returns the running toggle. The button
// line is configured as a pulled-up input firing on the falling edge.
func New(gpio hal.GPIOProvider, cfg Config, sender channel.Sender[intent.ChangeIntent], log *zap.Logger) (*Toggle, error) {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	t := &Toggle{
		sender:   sender,
		log:      log,
		debounce: debounce,
	}

	if err := gpio.SetPull(cfg.Pin, hal.PullUp); err != nil {
		return nil, fmt.Errorf("button: pull-up on pin %d: %w", cfg.Pin, err)
	}
	if err := gpio.WatchEdge(cfg.Pin, hal.EdgeFalling, func(pin int, _ bool) {
		t.Press(time.Now())
	}); err != nil {
		return nil, fmt.Errorf("button: watch pin %d: %w", cfg.Pin, err)
	}

	return t, nil
}

// Press registers one (possibly bouncing) button press at now and emits
// the toggled power intent. Exported so hosts can feed presses from other
// sources (IR remote, test).
func (t *Toggle) Press(now time.Time) {
	t.mu.Lock()
	if now.Sub(t.lastPress) < t.debounce {
		t.mu.Unlock()
		return
	}
	t.lastPress = now
	t.powered = !t.powered
	power := t.powered
	t.mu.Unlock()

	if err := t.sender.TrySend(intent.ChangeIntent{
		Kind:  intent.ChangeState,
		State: intent.StateIntent{Power: &power},
	}); err != nil {
		t.log.Debug("button press dropped, channel full")
		return
	}
	t.log.Info("button toggled power", zap.Bool("power", power))
}
