// Package ws2812spi drives a WS2812/NeoPixel strip by encoding its one-wire
// protocol as SPI bytes, the bus-clocked counterpart to pkg/driver/ws2812's
// bit-banged GPIO driver. Clocking the data line through SPI trades a
// little MOSI-only wiring flexibility for timing precision the host CPU
// doesn't have to busy-wait for.
package ws2812spi

import (
	"fmt"

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

// speedHz is 3 SPI bits per WS2812 bit at 800kHz: 3 * 800_000.
const speedHz = 2_400_000

// Each WS2812 bit becomes 3 SPI bits: a '1' is mostly-high (110), a '0' is
// mostly-low (100), so the SPI clock edges land inside WS2812's tolerance
// for both the high and low pulse widths.
const (
	spiBitOne  byte = 0b110
	spiBitZero byte = 0b100
)

// Config configures a Driver.
type Config struct {
	// Bus and Device select the SPI device file (e.g. /dev/spidev{Bus}.{Device}).
	Bus, Device int
	// NumLEDs is the physical strip length.
	NumLEDs int
	Order   ColorOrder
}

// Driver writes WS2812 frames over an SPI MOSI line via a hal.SPIProvider.
type Driver struct {
	spi   hal.SPIProvider
	order ColorOrder
}

// New opens the SPI device at cfg.Bus/cfg.Device and configures it for
// WS2812 bit-encoding (8 bits/word, mode 0, 2.4MHz).
func New(provider hal.SPIProvider, cfg Config) (*Driver, error) {
	if err := provider.Open(cfg.Bus, cfg.Device); err != nil {
		return nil, fmt.Errorf("ws2812spi: open SPI%d.%d: %w", cfg.Bus, cfg.Device, err)
	}
	if err := provider.SetMode(0); err != nil {
		return nil, fmt.Errorf("ws2812spi: set mode: %w", err)
	}
	if err := provider.SetBitsPerWord(8); err != nil {
		return nil, fmt.Errorf("ws2812spi: set bits per word: %w", err)
	}
	if err := provider.SetSpeed(speedHz); err != nil {
		return nil, fmt.Errorf("ws2812spi: set speed: %w", err)
	}
	return &Driver{spi: provider, order: cfg.Order}, nil
}

// Write implements scheduler.OutputDriver: it encodes frame as a single
// SPI transfer (3 bytes of wire-encoding per WS2812 byte, 9 bytes per
// pixel) plus a trailing reset gap of zero bytes.
func (d *Driver) Write(frame []color.RGB) error {
	buf := make([]byte, 0, len(frame)*9+32)
	for _, pixel := range frame {
		for _, b := range d.wireBytes(pixel) {
			eb := encodeByte(b)
			buf = append(buf, eb[:]...)
		}
	}
	// >50us of low signal between frames; at 2.4MHz, 32 zero bytes is
	// comfortably north of 100us.
	buf = append(buf, make([]byte, 32)...)

	if _, err := d.spi.Transfer(buf); err != nil {
		return fmt.Errorf("ws2812spi: transfer: %w", err)
	}
	return nil
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

// encodeByte expands one color byte into 3 SPI bytes (24 bits, 3 bits per
// WS2812 bit) by packing the 3-bit symbols for each of the 8 source bits
// into a contiguous 24-bit stream.
func encodeByte(b byte) [3]byte {
	var bits uint32
	for i := 7; i >= 0; i-- {
		bits <<= 3
		if b&(1<<uint(i)) != 0 {
			bits |= uint32(spiBitOne)
		} else {
			bits |= uint32(spiBitZero)
		}
	}
	return [3]byte{byte(bits >> 16), byte(bits >> 8), byte(bits)}
}
