// Package ws2812 implements an OutputDriver that bit-bangs WS2812/NeoPixel
// timing directly on a GPIO line through a hal.GPIOProvider. It is the
// direct-register counterpart to pkg/driver/ws2812spi, which drives the
// same protocol over SPI instead.
package ws2812

import (
	"fmt"
	"time"

	"github.com/myrtio/light-composer/internal/composer/color"
	"github.com/myrtio/light-composer/internal/hal"
)

// ColorOrder selects the byte order WS2812 variants expect on the wire.
type ColorOrder int

const (
	OrderGRB ColorOrder = iota
	OrderRGB
	OrderBGR
)

// Config configures a Driver.
type Config struct {
	// Pin is the BCM GPIO number the strip's data line is wired to.
	Pin int
	// NumLEDs is the physical strip length; must match the render
	// pipeline's frame buffer size.
	NumLEDs int
	// Order is the wire byte order (most WS2812 clones are GRB).
	Order ColorOrder
	// Invert sends an inverted signal, for boards behind a level-shifting
	// inverter.
	Invert bool
}

// Driver bit-bangs the WS2812 800kHz one-wire protocol on a single GPIO
// line. Pulse timing is approximate: each pulse is a busy-wait on the wall
// clock, and each GPIO write adds the provider's own latency on top.
type Driver struct {
	gpio   hal.GPIOProvider
	pin    int
	order  ColorOrder
	invert bool
}

// New builds a driver writing to gpio on cfg.Pin, configuring the pin as
// output. It does not check that the host can meet the pulse timing; see
// Driver's doc comment.
func New(gpio hal.GPIOProvider, cfg Config) (*Driver, error) {
	if err := gpio.SetMode(cfg.Pin, hal.Output); err != nil {
		return nil, fmt.Errorf("ws2812: set pin %d to output: %w", cfg.Pin, err)
	}
	return &Driver{gpio: gpio, pin: cfg.Pin, order: cfg.Order, invert: cfg.Invert}, nil
}

// Write implements scheduler.OutputDriver: it sends frame over the wire in
// the configured byte order, one bit at a time, then holds the line low
// for the WS2812 latch/reset window.
func (d *Driver) Write(frame []color.RGB) error {
	for _, pixel := range frame {
		bytes := d.wireBytes(pixel)
		for _, b := range bytes {
			if err := d.writeByte(b); err != nil {
				return err
			}
		}
	}
	return d.gpio.DigitalWrite(d.pin, d.low())
	// Caller is expected to wait out the >50us reset window between
	// frames via the frame scheduler's own pacing; at 90 FPS the gap
	// between successive Write calls already exceeds it comfortably.
}

func (d *Driver) wireBytes(c color.RGB) [3]byte {
	switch d.order {
	case OrderRGB:
		return [3]byte{c.R, c.G, c.B}
	case OrderBGR:
		return [3]byte{c.B, c.G, c.R}
	default: // OrderGRB
		return [3]byte{c.G, c.R, c.B}
	}
}

func (d *Driver) writeByte(b byte) error {
	for bit := 7; bit >= 0; bit-- {
		high := b&(1<<uint(bit)) != 0
		if err := d.writeBit(high); err != nil {
			return err
		}
	}
	return nil
}

// writeBit sends one WS2812 bit. A '1' is a long high pulse followed by a
// short low; a '0' is the reverse. Durations are approximated with a
// busy-wait since the render loop cannot tolerate a scheduler-induced
// stall mid-pixel.
func (d *Driver) writeBit(one bool) error {
	high, low := d.high(), d.low()
	if one {
		if err := d.gpio.DigitalWrite(d.pin, high); err != nil {
			return err
		}
		busyWait(700 * time.Nanosecond)
		if err := d.gpio.DigitalWrite(d.pin, low); err != nil {
			return err
		}
		busyWait(600 * time.Nanosecond)
		return nil
	}
	if err := d.gpio.DigitalWrite(d.pin, high); err != nil {
		return err
	}
	busyWait(350 * time.Nanosecond)
	if err := d.gpio.DigitalWrite(d.pin, low); err != nil {
		return err
	}
	busyWait(800 * time.Nanosecond)
	return nil
}

func (d *Driver) high() bool { return !d.invert }
func (d *Driver) low() bool  { return d.invert }

// busyWait spins instead of sleeping: time.Sleep's scheduler latency is far
// larger than the sub-microsecond windows WS2812 timing needs.
func busyWait(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}
