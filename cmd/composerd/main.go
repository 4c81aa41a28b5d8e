// Command composerd runs the light composer against a physical LED strip:
// it loads configuration, picks an output driver for the board it is on,
// arms any configured scenes, and drives the render loop at the target
// frame rate until terminated.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/myrtio/light-composer/internal/button"
	"github.com/myrtio/light-composer/internal/composer/bounds"
	"github.com/myrtio/light-composer/internal/composer/color"
	"github.com/myrtio/light-composer/internal/composer/effect"
	"github.com/myrtio/light-composer/internal/composer/filter"
	"github.com/myrtio/light-composer/internal/composer/intent"
	"github.com/myrtio/light-composer/internal/composer/math8"
	"github.com/myrtio/light-composer/internal/composer/renderer"
	"github.com/myrtio/light-composer/internal/composer/scheduler"
	"github.com/myrtio/light-composer/internal/config"
	"github.com/myrtio/light-composer/internal/hal"
	"github.com/myrtio/light-composer/internal/logger"
	"github.com/myrtio/light-composer/internal/metrics"
	"github.com/myrtio/light-composer/internal/schedule"
	"github.com/myrtio/light-composer/pkg/driver/apa102"
	"github.com/myrtio/light-composer/pkg/driver/ws2812"
	"github.com/myrtio/light-composer/pkg/driver/ws2812spi"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ./configs/config.yaml)")
	profileName := flag.String("profile", "", "board profile: minimal, standard, full (default: auto-detect)")
	driverOverride := flag.String("driver", "", "output driver override: gpio_bitbang, spi, apa102, console")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		LogDir:     cfg.Logger.FilePath,
		MaxSizeMB:  cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	name := *profileName
	if name == "" {
		name = string(config.DetectProfile())
	}
	profile, err := config.LoadProfile(name)
	if err != nil {
		logger.Fatal("failed to load profile", zap.Error(err))
	}
	logger.Info("starting composer",
		zap.String("profile", string(profile.Name)),
		zap.String("board", config.DetectBoard()),
	)

	numLEDs := cfg.Strip.NumLEDs
	if numLEDs > profile.MaxLEDs {
		logger.Warn("strip length exceeds profile limit, clamping",
			zap.Int("requested", numLEDs), zap.Int("limit", profile.MaxLEDs))
		numLEDs = profile.MaxLEDs
	}
	fps := cfg.Strip.FrameRateHz
	if fps > profile.MaxFrameFPS {
		fps = profile.MaxFrameFPS
	}
	if fps < 1 {
		fps = scheduler.DefaultFPS
	}

	driverKind := string(profile.Driver.Kind)
	if cfg.Output.Driver != "" {
		driverKind = cfg.Output.Driver
	}
	if *driverOverride != "" {
		driverKind = *driverOverride
	}

	output, cleanup, err := buildDriver(driverKind, cfg.Output, numLEDs)
	if err != nil {
		logger.Fatal("failed to build output driver", zap.Error(err))
	}
	defer cleanup()

	defaultEffect := effect.Static
	if id, ok := effect.ParseEffectID(cfg.Strip.DefaultEffect); ok {
		defaultEffect = id
	}

	var adjust math8.Adjuster
	if cfg.Gamma.Enabled {
		adjust = color.GammaAdjust
	}

	intents := intent.NewChannel(cfg.Channel.IntentCapacity)
	rend := renderer.New(intents.Receiver(), renderer.Config{
		Effect: defaultEffect,
		Bounds: bounds.RenderingBounds{Start: cfg.Strip.BoundsStart, End: cfg.Strip.BoundsEnd},
		Filters: filter.ProcessorConfig{
			Brightness:      filter.BrightnessFilterConfig{Scale: 255, Adjust: adjust},
			ColorCorrection: color.RGB{R: 255, G: 255, B: 255},
		},
		Timings: renderer.TransitionTimings{
			FadeOutMs:     cfg.Timings.FadeOutMs,
			FadeInMs:      cfg.Timings.FadeInMs,
			ColorChangeMs: cfg.Timings.ColorChangeMs,
			BrightnessMs:  cfg.Timings.BrightnessMs,
		},
		Brightness: cfg.Strip.DefaultBrightness,
		Color:      color.RGB{R: 255, G: 255, B: 255},
		MaxLEDs:    numLEDs,
	})
	frames := scheduler.WithFrameDuration(rend, output, int64(1000/fps))

	m := metrics.NewMetrics()

	// Power the strip on to its default state; if even this first intent
	// doesn't fit, the channel capacity is misconfigured.
	on := true
	if err := intents.TrySend(intent.ChangeIntent{
		Kind:  intent.ChangeState,
		State: intent.StateIntent{Power: &on},
	}); err != nil {
		logger.Fatal("intent channel full at startup", zap.Error(err))
	}
	m.RecordIntentEnqueued()

	if profile.Features.CronScheduling && len(cfg.Scenes) > 0 {
		scenes := schedule.New(intents.Sender(), logger.Get())
		for _, sc := range cfg.Scenes {
			scene, err := schedule.SceneSpec{
				Name:             sc.Name,
				Cron:             sc.Cron,
				Effect:           sc.Effect,
				Color:            sc.Color,
				Brightness:       sc.Brightness,
				ColorTemperature: sc.ColorTemperature,
				Power:            sc.Power,
			}.Scene()
			if err != nil {
				logger.Fatal("bad scene config", zap.Error(err))
			}
			if _, err := scenes.Add(scene); err != nil {
				logger.Fatal("failed to arm scene", zap.Error(err))
			}
		}
		scenes.Start()
		defer scenes.Stop()
	}

	if cfg.Button.Enabled {
		gpio, err := hal.NewGpiocdevGPIO(hal.BoardUnknown.GPIOChipName())
		if err != nil {
			logger.Warn("button unavailable", zap.Error(err))
		} else if _, err := button.New(gpio, button.Config{Pin: cfg.Button.Pin}, intents.Sender(), logger.Get()); err != nil {
			logger.Warn("button unavailable", zap.Error(err))
			gpio.Close()
		} else {
			defer gpio.Close()
			logger.Info("button armed", zap.Int("pin", cfg.Button.Pin))
		}
	}

	// Hot-reloaded config lands here; the render loop applies it between
	// frames so the pipeline itself stays single-threaded.
	var pendingCfg atomic.Pointer[config.Config]
	if profile.Features.ConfigHotReload {
		if err := config.Watch(*configPath, func(next *config.Config) {
			pendingCfg.Store(next)
			logger.Info("config change detected")
		}); err != nil {
			logger.Warn("config watch unavailable", zap.Error(err))
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	runID := uuid.New().String()
	logger.Info("render loop starting",
		zap.String("run_id", runID),
		zap.Int("leds", numLEDs),
		zap.Int("fps", fps),
		zap.String("driver", driverKind),
	)

	sysTicker := time.NewTicker(10 * time.Second)
	defer sysTicker.Stop()

	for {
		select {
		case <-stop:
			logger.Info("shutting down", zap.String("run_id", runID))
			blank := make([]color.RGB, numLEDs)
			if err := output.Write(blank); err != nil {
				logger.Warn("failed to blank strip on shutdown", zap.Error(err))
			}
			return
		case <-sysTicker.C:
			if profile.Features.ResourceMonitor {
				m.UpdateSystemMetrics()
			}
			if profile.Features.Metrics {
				logger.Debug("metrics", zap.Any("snapshot", m.GetMetrics()))
			}
		default:
		}

		if next := pendingCfg.Swap(nil); next != nil {
			applyConfig(rend, next)
		}

		start := time.Now()
		res, err := frames.Tick(start.UnixMilli())
		if err != nil {
			logger.Error("frame write failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		m.RecordFrame(time.Since(start))
		if res.DriftCorrected {
			m.RecordOverrun()
			logger.Debug("drift corrected",
				zap.String("frame_id", uuid.New().String()),
				zap.Int64("next_deadline_ms", res.NextDeadlineMs),
			)
		}

		if res.SleepMs > 0 {
			time.Sleep(time.Duration(res.SleepMs) * time.Millisecond)
		}
	}
}

// applyConfig applies the hot-reloadable subset of a new config: timings
// and the gamma adjuster. Strip/channel sizing is fixed at construction.
func applyConfig(rend *renderer.Renderer, cfg *config.Config) {
	rend.SetTimings(renderer.TransitionTimings{
		FadeOutMs:     cfg.Timings.FadeOutMs,
		FadeInMs:      cfg.Timings.FadeInMs,
		ColorChangeMs: cfg.Timings.ColorChangeMs,
		BrightnessMs:  cfg.Timings.BrightnessMs,
	})
	if cfg.Gamma.Enabled {
		rend.SetBrightnessAdjuster(color.GammaAdjust)
	} else {
		rend.SetBrightnessAdjuster(nil)
	}
	logger.Info("config applied",
		zap.Bool("gamma", cfg.Gamma.Enabled),
		zap.Int64("brightness_ms", cfg.Timings.BrightnessMs),
	)
}

func buildDriver(kind string, cfg config.OutputConfig, numLEDs int) (scheduler.OutputDriver, func(), error) {
	noop := func() {}

	switch kind {
	case "console", "":
		return &consoleDriver{}, noop, nil

	case "gpio_bitbang":
		pi, err := hal.NewRaspberryPiHAL()
		if err != nil {
			return nil, noop, fmt.Errorf("gpio_bitbang: %w", err)
		}
		drv, err := ws2812.New(pi.GPIO(), ws2812.Config{
			Pin:     cfg.Pin,
			NumLEDs: numLEDs,
			Order:   parseOrder(cfg.ColorOrder),
		})
		if err != nil {
			pi.Close()
			return nil, noop, err
		}
		hal.SetGlobalHAL(pi)
		return drv, func() { pi.Close() }, nil

	case "spi":
		pi, err := hal.NewRaspberryPiHAL()
		if err != nil {
			return nil, noop, fmt.Errorf("spi: %w", err)
		}
		drv, err := ws2812spi.New(pi.SPI(), ws2812spi.Config{
			Bus:     cfg.SPIBus,
			Device:  cfg.SPIDevice,
			NumLEDs: numLEDs,
			Order:   parseSPIOrder(cfg.ColorOrder),
		})
		if err != nil {
			pi.Close()
			return nil, noop, err
		}
		hal.SetGlobalHAL(pi)
		return drv, func() { pi.Close() }, nil

	case "apa102":
		drv, err := apa102.New(apa102.Config{
			Bus:     cfg.SPIBus,
			Device:  cfg.SPIDevice,
			NumLEDs: numLEDs,
		})
		if err != nil {
			return nil, noop, err
		}
		return drv, func() { drv.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown output driver %q", kind)
	}
}

func parseOrder(order string) ws2812.ColorOrder {
	switch order {
	case "rgb":
		return ws2812.OrderRGB
	case "bgr":
		return ws2812.OrderBGR
	default:
		return ws2812.OrderGRB
	}
}

func parseSPIOrder(order string) ws2812spi.ColorOrder {
	switch order {
	case "rgb":
		return ws2812spi.OrderRGB
	case "bgr":
		return ws2812spi.OrderBGR
	default:
		return ws2812spi.OrderGRB
	}
}

// consoleDriver is the off-target stand-in: it accepts frames and once a
// second logs a short summary, so the render pipeline can be exercised on
// a dev machine with no strip attached.
type consoleDriver struct {
	frames   int64
	lastLog  time.Time
	lastSeen color.RGB
}

func (d *consoleDriver) Write(frame []color.RGB) error {
	d.frames++
	if len(frame) > 0 {
		d.lastSeen = frame[0]
	}
	if time.Since(d.lastLog) >= time.Second {
		d.lastLog = time.Now()
		logger.Debug("frame",
			zap.Int64("count", d.frames),
			zap.Uint8("r", d.lastSeen.R),
			zap.Uint8("g", d.lastSeen.G),
			zap.Uint8("b", d.lastSeen.B),
		)
	}
	return nil
}
