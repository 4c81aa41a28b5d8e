//go:build linux
// +build linux

// Command gpio-test verifies the LED strip's wiring before composerd is
// pointed at it: it can hold the data line high or low, blink it at a
// visible rate, or clock a short test pattern through the bit-banged
// WS2812 driver.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/myrtio/light-composer/internal/composer/color"
	"github.com/myrtio/light-composer/internal/hal"
	"github.com/myrtio/light-composer/pkg/driver/ws2812"
)

func main() {
	pin := flag.Int("pin", 18, "GPIO pin number (BCM)")
	chip := flag.String("chip", "", "GPIO chip name (auto-detect if empty)")
	interval := flag.Duration("interval", 500*time.Millisecond, "blink interval")
	mode := flag.String("mode", "blink", "test mode: blink, on, off, strip")
	leds := flag.Int("leds", 8, "strip length for -mode strip")
	flag.Parse()

	chipName := *chip
	if chipName == "" {
		chipName = hal.BoardUnknown.GPIOChipName()
	}

	fmt.Printf("GPIO test\n  chip: %s\n  pin:  GPIO%d\n  mode: %s\n\n", chipName, *pin, *mode)

	gpio, err := hal.NewGpiocdevGPIO(chipName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to open %s: %v\n", chipName, err)
		fmt.Fprintf(os.Stderr, "\ntroubleshooting:\n")
		fmt.Fprintf(os.Stderr, "  1. add your user to the gpio group: sudo usermod -aG gpio $USER\n")
		fmt.Fprintf(os.Stderr, "  2. log out and back in after the group change\n")
		fmt.Fprintf(os.Stderr, "  3. check the pin isn't claimed: cat /sys/kernel/debug/gpio\n")
		os.Exit(1)
	}
	defer func() {
		gpio.DigitalWrite(*pin, false)
		gpio.Close()
		fmt.Println("\npin released, line low.")
	}()

	if err := gpio.SetMode(*pin, hal.Output); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to configure GPIO%d as output: %v\n", *pin, err)
		os.Exit(1)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	switch *mode {
	case "on":
		if err := gpio.DigitalWrite(*pin, true); err != nil {
			fmt.Fprintf(os.Stderr, "error writing pin: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("line HIGH. Ctrl+C to release.")
		<-stop

	case "off":
		if err := gpio.DigitalWrite(*pin, false); err != nil {
			fmt.Fprintf(os.Stderr, "error writing pin: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("line LOW. Ctrl+C to exit.")
		<-stop

	case "strip":
		runStripTest(gpio, *pin, *leds, stop)

	default:
		fmt.Printf("blinking at %v. Ctrl+C to stop.\n\n", *interval)
		state := false
		ticker := time.NewTicker(*interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				state = !state
				if err := gpio.DigitalWrite(*pin, state); err != nil {
					fmt.Fprintf(os.Stderr, "error writing pin: %v\n", err)
					return
				}
			}
		}
	}
}

// runStripTest walks a primary-color pattern down the strip once a second
// so each pixel and the color order can be checked by eye.
func runStripTest(gpio hal.GPIOProvider, pin, numLEDs int, stop chan os.Signal) {
	driver, err := ws2812.New(gpio, ws2812.Config{Pin: pin, NumLEDs: numLEDs})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to build strip driver: %v\n", err)
		os.Exit(1)
	}

	pattern := []color.RGB{
		{R: 64},
		{G: 64},
		{B: 64},
		{R: 64, G: 64, B: 64},
	}

	fmt.Printf("cycling red/green/blue/white on %d LEDs. Ctrl+C to stop.\n", numLEDs)

	frame := make([]color.RGB, numLEDs)
	step := 0
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			for i := range frame {
				frame[i] = color.Black
			}
			driver.Write(frame)
			return
		case <-ticker.C:
			for i := range frame {
				frame[i] = pattern[(step+i)%len(pattern)]
			}
			if err := driver.Write(frame); err != nil {
				fmt.Fprintf(os.Stderr, "error writing frame: %v\n", err)
				return
			}
			step++
		}
	}
}
