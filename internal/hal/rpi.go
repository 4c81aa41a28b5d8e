package hal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// RaspberryPiHAL bundles the Pi backends: go-rpio for direct-register GPIO
// (fast enough for bit-banged strip protocols), periph.io for the SPI and
// I2C buses.
type RaspberryPiHAL struct {
	gpio GPIOProvider
	i2c  *PeriphI2C
	spi  *PeriphSPI
	info BoardInfo
}

// NewRaspberryPiHAL initializes periph.io, detects the board and opens the
// rpio register mapping. The caller owns Close.
func NewRaspberryPiHAL() (*RaspberryPiHAL, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph.io: %w", err)
	}

	gpio, err := NewRpioGPIO()
	if err != nil {
		return nil, err
	}

	info := BoardInfo{Model: BoardUnknown, Name: "Raspberry Pi"}
	if detected, err := DetectBoard(); err == nil {
		info = *detected
	}

	return &RaspberryPiHAL{
		gpio: gpio,
		i2c:  &PeriphI2C{},
		spi:  &PeriphSPI{},
		info: info,
	}, nil
}

func (h *RaspberryPiHAL) GPIO() GPIOProvider { return h.gpio }
func (h *RaspberryPiHAL) I2C() I2CProvider   { return h.i2c }
func (h *RaspberryPiHAL) SPI() SPIProvider   { return h.spi }
func (h *RaspberryPiHAL) Info() BoardInfo    { return h.info }

func (h *RaspberryPiHAL) Close() error {
	h.i2c.Close()
	h.spi.Close()
	return h.gpio.Close()
}

// RpioGPIO implements GPIOProvider over go-rpio's /dev/mem register
// mapping. Register access makes DigitalWrite fast enough for the
// bit-banged WS2812 driver's sub-microsecond pulse timing, which the
// character-device backend (GpiocdevGPIO) cannot reach.
type RpioGPIO struct {
	mu       sync.Mutex
	pins     map[int]PinMode
	watchers map[int]context.CancelFunc
}

// NewRpioGPIO opens the Broadcom register mapping.
func NewRpioGPIO() (*RpioGPIO, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open GPIO registers: %w", err)
	}
	return &RpioGPIO{
		pins:     make(map[int]PinMode),
		watchers: make(map[int]context.CancelFunc),
	}, nil
}

func (g *RpioGPIO) SetMode(pin int, mode PinMode) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := rpio.Pin(pin)
	switch mode {
	case Input:
		p.Input()
	case Output:
		p.Output()
	default:
		return fmt.Errorf("unsupported pin mode: %v", mode)
	}
	g.pins[pin] = mode
	return nil
}

func (g *RpioGPIO) SetPull(pin int, pull PullMode) error {
	p := rpio.Pin(pin)
	switch pull {
	case PullUp:
		p.PullUp()
	case PullDown:
		p.PullDown()
	default:
		p.PullOff()
	}
	return nil
}

func (g *RpioGPIO) DigitalRead(pin int) (bool, error) {
	return rpio.Pin(pin).Read() == rpio.High, nil
}

func (g *RpioGPIO) DigitalWrite(pin int, value bool) error {
	p := rpio.Pin(pin)
	if value {
		p.High()
	} else {
		p.Low()
	}
	return nil
}

// WatchEdge polls the register-backed edge-detect flag. Latency is bounded
// by the poll interval; callers that need tighter event timing should use
// the character-device backend instead.
func (g *RpioGPIO) WatchEdge(pin int, edge EdgeMode, callback func(pin int, value bool)) error {
	p := rpio.Pin(pin)
	switch edge {
	case EdgeRising:
		p.Detect(rpio.RiseEdge)
	case EdgeFalling:
		p.Detect(rpio.FallEdge)
	case EdgeBoth:
		p.Detect(rpio.AnyEdge)
	case EdgeNone:
		g.mu.Lock()
		if cancel, ok := g.watchers[pin]; ok {
			cancel()
			delete(g.watchers, pin)
		}
		g.mu.Unlock()
		p.Detect(rpio.NoEdge)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.mu.Lock()
	if prev, ok := g.watchers[pin]; ok {
		prev()
	}
	g.watchers[pin] = cancel
	g.mu.Unlock()

	go func() {
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if p.EdgeDetected() {
					callback(pin, p.Read() == rpio.High)
				}
			}
		}
	}()
	return nil
}

func (g *RpioGPIO) ActivePins() map[int]PinMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	active := make(map[int]PinMode, len(g.pins))
	for pin, mode := range g.pins {
		active[pin] = mode
	}
	return active
}

func (g *RpioGPIO) Close() error {
	g.mu.Lock()
	for pin, cancel := range g.watchers {
		cancel()
		delete(g.watchers, pin)
	}
	g.mu.Unlock()
	return rpio.Close()
}

// PeriphI2C implements I2CProvider over periph.io's I2C bus registry.
type PeriphI2C struct {
	mu  sync.Mutex
	bus i2c.BusCloser
	dev *i2c.Dev
}

func (p *PeriphI2C) Open(address byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bus == nil {
		bus, err := i2creg.Open("")
		if err != nil {
			return fmt.Errorf("failed to open I2C bus: %w", err)
		}
		p.bus = bus
	}
	p.dev = &i2c.Dev{Bus: p.bus, Addr: uint16(address)}
	return nil
}

func (p *PeriphI2C) device() (*i2c.Dev, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev == nil {
		return nil, fmt.Errorf("I2C device not opened")
	}
	return p.dev, nil
}

func (p *PeriphI2C) Read(length int) ([]byte, error) {
	dev, err := p.device()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, length)
	if err := dev.Tx(nil, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (p *PeriphI2C) Write(data []byte) error {
	dev, err := p.device()
	if err != nil {
		return err
	}
	return dev.Tx(data, nil)
}

func (p *PeriphI2C) ReadRegister(register byte, length int) ([]byte, error) {
	dev, err := p.device()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, length)
	if err := dev.Tx([]byte{register}, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (p *PeriphI2C) WriteRegister(register byte, data []byte) error {
	dev, err := p.device()
	if err != nil {
		return err
	}
	return dev.Tx(append([]byte{register}, data...), nil)
}

func (p *PeriphI2C) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dev = nil
	if p.bus != nil {
		err := p.bus.Close()
		p.bus = nil
		return err
	}
	return nil
}

// PeriphSPI implements SPIProvider over periph.io's SPI port registry.
// Speed/mode/bits changes reconnect the port; periph fixes them at
// Connect time.
type PeriphSPI struct {
	mu    sync.Mutex
	port  spi.PortCloser
	conn  spi.Conn
	speed int
	mode  byte
	bits  byte
}

func (p *PeriphSPI) Open(bus, device int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	port, err := spireg.Open(fmt.Sprintf("SPI%d.%d", bus, device))
	if err != nil {
		return fmt.Errorf("failed to open SPI%d.%d: %w", bus, device, err)
	}
	p.port = port
	p.conn = nil
	p.speed = 1_000_000
	p.mode = 0
	p.bits = 8
	return nil
}

func (p *PeriphSPI) connectLocked() error {
	if p.port == nil {
		return fmt.Errorf("SPI port not opened")
	}
	conn, err := p.port.Connect(physic.Frequency(p.speed)*physic.Hertz, spi.Mode(p.mode), int(p.bits))
	if err != nil {
		return fmt.Errorf("failed to connect to SPI device: %w", err)
	}
	p.conn = conn
	return nil
}

func (p *PeriphSPI) Transfer(data []byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		if err := p.connectLocked(); err != nil {
			return nil, err
		}
	}
	read := make([]byte, len(data))
	if err := p.conn.Tx(data, read); err != nil {
		return nil, err
	}
	return read, nil
}

func (p *PeriphSPI) SetSpeed(speed int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.speed = speed
	p.conn = nil
	return nil
}

func (p *PeriphSPI) SetMode(mode byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = mode
	p.conn = nil
	return nil
}

func (p *PeriphSPI) SetBitsPerWord(bits byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bits = bits
	p.conn = nil
	return nil
}

func (p *PeriphSPI) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conn = nil
	if p.port != nil {
		err := p.port.Close()
		p.port = nil
		return err
	}
	return nil
}
