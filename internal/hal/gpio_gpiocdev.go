//go:build linux
// +build linux

package hal

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

// GpiocdevGPIO implements GPIOProvider over the Linux GPIO character
// device. It works on every board with a gpiochip (Pi 4's bcm2835 and
// Pi 5's RP1 southbridge included) and is the backend of choice for
// inputs like a wall switch; for bit-banged strip output the register
// mapping (RpioGPIO) is the faster option.
type GpiocdevGPIO struct {
	mu       sync.Mutex
	chipName string
	lines    map[int]*gpiocdev.Line
	pinModes map[int]PinMode
	pinPulls map[int]PullMode
}

// NewGpiocdevGPIO opens the named chip long enough to confirm it exists.
func NewGpiocdevGPIO(chipName string) (*GpiocdevGPIO, error) {
	c, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("failed to open GPIO chip %s: %w", chipName, err)
	}
	c.Close()

	return &GpiocdevGPIO{
		chipName: chipName,
		lines:    make(map[int]*gpiocdev.Line),
		pinModes: make(map[int]PinMode),
		pinPulls: make(map[int]PullMode),
	}, nil
}

func (g *GpiocdevGPIO) SetMode(pin int, mode PinMode) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closeLineLocked(pin)

	line, err := g.requestLocked(pin, mode, nil, EdgeNone)
	if err != nil {
		return err
	}
	g.lines[pin] = line
	g.pinModes[pin] = mode
	return nil
}

// SetPull stores the bias and, if the line is already requested,
// re-requests it with the new bias; the character device fixes bias at
// request time.
func (g *GpiocdevGPIO) SetPull(pin int, pull PullMode) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pinPulls[pin] = pull

	mode, open := g.pinModes[pin]
	if !open {
		return nil
	}

	g.closeLineLocked(pin)
	line, err := g.requestLocked(pin, mode, nil, EdgeNone)
	if err != nil {
		return fmt.Errorf("failed to re-request pin %d with pull %v: %w", pin, pull, err)
	}
	g.lines[pin] = line
	g.pinModes[pin] = mode
	return nil
}

func (g *GpiocdevGPIO) DigitalRead(pin int) (bool, error) {
	g.mu.Lock()
	line, ok := g.lines[pin]
	g.mu.Unlock()

	if !ok {
		return false, fmt.Errorf("pin %d not initialized", pin)
	}

	val, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("failed to read pin %d: %w", pin, err)
	}
	return val != 0, nil
}

func (g *GpiocdevGPIO) DigitalWrite(pin int, value bool) error {
	g.mu.Lock()
	line, ok := g.lines[pin]
	g.mu.Unlock()

	if !ok {
		return fmt.Errorf("pin %d not initialized", pin)
	}

	v := 0
	if value {
		v = 1
	}
	if err := line.SetValue(v); err != nil {
		return fmt.Errorf("failed to write pin %d: %w", pin, err)
	}
	return nil
}

// WatchEdge re-requests the pin as an input with kernel edge events; the
// callback runs on gpiocdev's event goroutine, so it must hand work off
// (e.g. TrySend onto the intent channel) rather than block.
func (g *GpiocdevGPIO) WatchEdge(pin int, edge EdgeMode, callback func(pin int, value bool)) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closeLineLocked(pin)

	if edge == EdgeNone {
		line, err := g.requestLocked(pin, Input, nil, EdgeNone)
		if err != nil {
			return err
		}
		g.lines[pin] = line
		g.pinModes[pin] = Input
		return nil
	}

	pinNum := pin
	handler := func(evt gpiocdev.LineEvent) {
		callback(pinNum, evt.Type == gpiocdev.LineEventRisingEdge)
	}

	line, err := g.requestLocked(pin, Input, handler, edge)
	if err != nil {
		return fmt.Errorf("failed to watch edge on pin %d: %w", pin, err)
	}
	g.lines[pin] = line
	g.pinModes[pin] = Input
	return nil
}

func (g *GpiocdevGPIO) ActivePins() map[int]PinMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	result := make(map[int]PinMode, len(g.pinModes))
	for pin, mode := range g.pinModes {
		result[pin] = mode
	}
	return result
}

func (g *GpiocdevGPIO) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for pin, line := range g.lines {
		line.Close()
		delete(g.lines, pin)
		delete(g.pinModes, pin)
	}
	return nil
}

// requestLocked builds the option list for one line request. Must be
// called with g.mu held.
func (g *GpiocdevGPIO) requestLocked(pin int, mode PinMode, handler func(gpiocdev.LineEvent), edge EdgeMode) (*gpiocdev.Line, error) {
	var opts []gpiocdev.LineReqOption

	switch mode {
	case Input:
		opts = append(opts, gpiocdev.AsInput)
	case Output:
		opts = append(opts, gpiocdev.AsOutput(0))
	default:
		return nil, fmt.Errorf("unsupported pin mode: %v", mode)
	}

	if pull, ok := g.pinPulls[pin]; ok {
		opts = append(opts, pullOption(pull))
	}

	if handler != nil {
		opts = append(opts, gpiocdev.WithEventHandler(handler))
		switch edge {
		case EdgeRising:
			opts = append(opts, gpiocdev.WithRisingEdge)
		case EdgeFalling:
			opts = append(opts, gpiocdev.WithFallingEdge)
		case EdgeBoth:
			opts = append(opts, gpiocdev.WithBothEdges)
		}
	}

	line, err := gpiocdev.RequestLine(g.chipName, pin, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to request pin %d: %w", pin, err)
	}
	return line, nil
}

// closeLineLocked releases the line for pin if open. Must be called with
// g.mu held.
func (g *GpiocdevGPIO) closeLineLocked(pin int) {
	if line, ok := g.lines[pin]; ok {
		line.Close()
		delete(g.lines, pin)
	}
	delete(g.pinModes, pin)
}

// pullOption converts a PullMode to a gpiocdev line request option.
func pullOption(pull PullMode) gpiocdev.LineReqOption {
	switch pull {
	case PullUp:
		return gpiocdev.WithPullUp
	case PullDown:
		return gpiocdev.WithPullDown
	default:
		return gpiocdev.WithBiasDisabled
	}
}
