package hal

import (
	"fmt"
	"sync"
)

// MockHAL is an in-memory HAL implementation for tests and off-target runs.
type MockHAL struct {
	gpio *MockGPIO
	i2c  *MockI2C
	spi  *MockSPI
	info BoardInfo
}

// NewMockHAL builds a MockHAL with a generic 40-pin board profile.
func NewMockHAL() *MockHAL {
	return &MockHAL{
		gpio: &MockGPIO{pins: make(map[int]*MockPin)},
		i2c:  &MockI2C{},
		spi:  &MockSPI{},
		info: BoardInfo{
			Model:    BoardUnknown,
			Name:     "Mock Board",
			NumGPIO:  40,
			NumI2C:   2,
			NumSPI:   2,
			CPUCores: 4,
			RAMSize:  1024,
			GPIOChip: "gpiochip0",
		},
	}
}

func (m *MockHAL) GPIO() GPIOProvider { return m.gpio }
func (m *MockHAL) I2C() I2CProvider   { return m.i2c }
func (m *MockHAL) SPI() SPIProvider   { return m.spi }
func (m *MockHAL) Info() BoardInfo    { return m.info }
func (m *MockHAL) Close() error       { return nil }

// MockPin records the last state written to one GPIO pin.
type MockPin struct {
	mode  PinMode
	pull  PullMode
	value bool
}

// MockGPIO is a map-backed GPIOProvider. Tests can inject edge events
// with FireEdge.
type MockGPIO struct {
	pins     map[int]*MockPin
	watchers map[int]func(pin int, value bool)
	mu       sync.RWMutex
}

func (g *MockGPIO) SetMode(pin int, mode PinMode) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pins[pin] == nil {
		g.pins[pin] = &MockPin{}
	}
	g.pins[pin].mode = mode
	return nil
}

func (g *MockGPIO) SetPull(pin int, pull PullMode) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pins[pin] == nil {
		g.pins[pin] = &MockPin{}
	}
	g.pins[pin].pull = pull
	return nil
}

func (g *MockGPIO) DigitalRead(pin int) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.pins[pin] == nil {
		return false, fmt.Errorf("pin %d not initialized", pin)
	}
	return g.pins[pin].value, nil
}

func (g *MockGPIO) DigitalWrite(pin int, value bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pins[pin] == nil {
		g.pins[pin] = &MockPin{}
	}
	g.pins[pin].value = value
	return nil
}

func (g *MockGPIO) WatchEdge(pin int, edge EdgeMode, callback func(pin int, value bool)) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.watchers == nil {
		g.watchers = make(map[int]func(pin int, value bool))
	}
	if edge == EdgeNone {
		delete(g.watchers, pin)
		return nil
	}
	g.watchers[pin] = callback
	return nil
}

// FireEdge simulates an edge event on pin, invoking the registered
// watcher synchronously.
func (g *MockGPIO) FireEdge(pin int, value bool) {
	g.mu.RLock()
	callback := g.watchers[pin]
	g.mu.RUnlock()
	if callback != nil {
		callback(pin, value)
	}
}

func (g *MockGPIO) ActivePins() map[int]PinMode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	active := make(map[int]PinMode, len(g.pins))
	for pin, state := range g.pins {
		active[pin] = state.mode
	}
	return active
}

func (g *MockGPIO) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pins = make(map[int]*MockPin)
	return nil
}

// MockI2C is a no-op I2CProvider.
type MockI2C struct {
	address byte
	data    []byte
	mu      sync.RWMutex
}

func (i *MockI2C) Open(address byte) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.address = address
	return nil
}

func (i *MockI2C) Read(length int) ([]byte, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return make([]byte, length), nil
}

func (i *MockI2C) Write(data []byte) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.data = data
	return nil
}

func (i *MockI2C) ReadRegister(register byte, length int) ([]byte, error) {
	return make([]byte, length), nil
}

func (i *MockI2C) WriteRegister(register byte, data []byte) error {
	return nil
}

func (i *MockI2C) Close() error {
	return nil
}

// MockSPI records the configuration it is given and echoes transfers back.
type MockSPI struct {
	mu          sync.RWMutex
	speed       int
	mode        byte
	bitsPerWord byte
	written     [][]byte
}

func (s *MockSPI) Open(bus, device int) error {
	return nil
}

func (s *MockSPI) Transfer(data []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.written = append(s.written, buf)
	return data, nil
}

// Written returns every buffer passed to Transfer, oldest first.
func (s *MockSPI) Written() [][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.written
}

func (s *MockSPI) SetSpeed(speed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speed = speed
	return nil
}

func (s *MockSPI) SetMode(mode byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	return nil
}

func (s *MockSPI) SetBitsPerWord(bits byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bitsPerWord = bits
	return nil
}

func (s *MockSPI) Close() error {
	return nil
}
