// Package apa102 implements an OutputDriver for APA102/SK9822 (DotStar)
// strips. Unlike WS2812, APA102 carries its own clock line, so the frame
// goes out over plain SPI at whatever speed the wiring tolerates; no
// sub-microsecond pulse shaping needed.
package apa102

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/apa102"

	"github.com/myrtio/light-composer/internal/composer/color"
)

// Config configures a Driver.
type Config struct {
	// Bus and Device select the SPI device file (e.g. /dev/spidev{Bus}.{Device}).
	Bus, Device int
	// NumLEDs is the physical strip length.
	NumLEDs int
	// SpeedHz is the SPI clock; 0 picks 20MHz, conservative for short runs.
	SpeedHz int
	// Intensity scales the strip's global 5-bit brightness register
	// (255 = full). The render pipeline's brightness filter already
	// dims per-channel, so leave this at 255 unless the PSU needs a cap.
	Intensity uint8
}

// Driver writes frames to a DotStar strip through periph.io's apa102
// device driver.
type Driver struct {
	port spi.PortCloser
	dev  *apa102.Dev
	buf  []byte
}

// New opens the SPI port and initializes the strip device.
func New(cfg Config) (*Driver, error) {
	port, err := spireg.Open(fmt.Sprintf("SPI%d.%d", cfg.Bus, cfg.Device))
	if err != nil {
		return nil, fmt.Errorf("apa102: open SPI%d.%d: %w", cfg.Bus, cfg.Device, err)
	}

	speed := cfg.SpeedHz
	if speed == 0 {
		speed = 20_000_000
	}
	conn, err := port.Connect(physic.Frequency(speed)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("apa102: connect: %w", err)
	}

	opts := apa102.DefaultOpts
	opts.NumPixels = cfg.NumLEDs
	if cfg.Intensity != 0 {
		opts.Intensity = cfg.Intensity
	}
	// The render pipeline owns color correction and gamma; don't let the
	// device driver apply its own temperature curve on top.
	opts.Temperature = apa102.NeutralTemp

	dev, err := apa102.New(conn, &opts)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("apa102: init device: %w", err)
	}

	return &Driver{
		port: port,
		dev:  dev,
		buf:  make([]byte, cfg.NumLEDs*3),
	}, nil
}

// Write implements scheduler.OutputDriver.
func (d *Driver) Write(frame []color.RGB) error {
	if len(frame)*3 > len(d.buf) {
		d.buf = make([]byte, len(frame)*3)
	}
	for i, pixel := range frame {
		d.buf[i*3] = pixel.R
		d.buf[i*3+1] = pixel.G
		d.buf[i*3+2] = pixel.B
	}
	if _, err := d.dev.Write(d.buf[:len(frame)*3]); err != nil {
		return fmt.Errorf("apa102: write frame: %w", err)
	}
	return nil
}

// Close releases the SPI port.
func (d *Driver) Close() error {
	return d.port.Close()
}
