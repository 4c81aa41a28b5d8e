package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the light composer process.
type Config struct {
	Strip   StripConfig   `mapstructure:"strip"`
	Output  OutputConfig  `mapstructure:"output"`
	Channel ChannelConfig `mapstructure:"channel"`
	Timings TimingsConfig `mapstructure:"timings"`
	Gamma   GammaConfig   `mapstructure:"gamma"`
	Button  ButtonConfig  `mapstructure:"button"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Scenes  []SceneConfig `mapstructure:"scenes"`
}

// ButtonConfig arms a physical toggle button as an intent producer.
type ButtonConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Pin is the BCM GPIO the button pulls low.
	Pin int `mapstructure:"pin"`
}

// OutputConfig selects and configures the output driver backend.
type OutputConfig struct {
	// Driver is one of gpio_bitbang, spi, apa102, console.
	Driver string `mapstructure:"driver"`
	// Pin is the BCM GPIO number for the bit-banged driver.
	Pin int `mapstructure:"pin"`
	// SPIBus/SPIDevice select /dev/spidev{bus}.{device} for the SPI drivers.
	SPIBus    int `mapstructure:"spi_bus"`
	SPIDevice int `mapstructure:"spi_device"`
	// ColorOrder is the wire byte order: grb, rgb or bgr.
	ColorOrder string `mapstructure:"color_order"`
}

// SceneConfig describes one cron-armed scene change. Pointer fields are
// left out of the resulting intent when absent from the config file.
type SceneConfig struct {
	Name             string `mapstructure:"name"`
	Cron             string `mapstructure:"cron"`
	Effect           string `mapstructure:"effect"`
	Brightness       *uint8 `mapstructure:"brightness"`
	Color            string `mapstructure:"color"` // "#RRGGBB"
	ColorTemperature uint16 `mapstructure:"color_temperature"`
	Power            *bool  `mapstructure:"power"`
}

// StripConfig describes the physical strip and initial render state.
type StripConfig struct {
	NumLEDs           int    `mapstructure:"num_leds"`
	FrameRateHz       int    `mapstructure:"frame_rate_hz"`
	BoundsStart       uint8  `mapstructure:"bounds_start"`
	BoundsEnd         uint8  `mapstructure:"bounds_end"`
	DefaultEffect     string `mapstructure:"default_effect"`
	DefaultBrightness uint8  `mapstructure:"default_brightness"`
}

// ChannelConfig sizes the intent/command transports.
type ChannelConfig struct {
	IntentCapacity  int `mapstructure:"intent_capacity"`
	CommandCapacity int `mapstructure:"command_capacity"`
}

// TimingsConfig sets the duration of each operation's transition once it
// becomes current on the operation queue.
type TimingsConfig struct {
	FadeOutMs     int64 `mapstructure:"fade_out_ms"`
	FadeInMs      int64 `mapstructure:"fade_in_ms"`
	ColorChangeMs int64 `mapstructure:"color_change_ms"`
	BrightnessMs  int64 `mapstructure:"brightness_ms"`
}

// GammaConfig toggles the WS2812 gamma-correction LUT on the brightness
// filter's adjuster slot.
type GammaConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggerConfig contains logging settings.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	FilePath   string `mapstructure:"file_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		v.AddConfigPath(getConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; using defaults.
	}

	v.SetEnvPrefix("MYRTIO")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Watch re-reads the config file whenever it changes on disk, invoking
// onChange with the freshly parsed Config (every section, with the same
// MYRTIO_ environment overrides as Load). It never reaches into the render
// pipeline's hot path directly; callers choose which values to apply live
// (composerd applies only TimingsConfig and GammaConfig, since
// StripConfig/ChannelConfig size fixed-capacity structures at
// construction).
func Watch(configPath string, onChange func(*Config)) error {
	v := viper.New()
	setDefaults(v)
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		v.AddConfigPath(getConfigDir())
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	v.SetEnvPrefix("MYRTIO")
	v.AutomaticEnv()

	v.OnConfigChange(func(e fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			return
		}
		onChange(&cfg)
	})
	v.WatchConfig()
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("strip.num_leds", 60)
	v.SetDefault("strip.frame_rate_hz", 90)
	v.SetDefault("strip.bounds_start", 0)
	v.SetDefault("strip.bounds_end", 60)
	v.SetDefault("strip.default_effect", "static")
	v.SetDefault("strip.default_brightness", 180)

	v.SetDefault("output.driver", "gpio_bitbang")
	v.SetDefault("output.pin", 18)
	v.SetDefault("output.spi_bus", 0)
	v.SetDefault("output.spi_device", 0)
	v.SetDefault("output.color_order", "grb")

	v.SetDefault("channel.intent_capacity", 16)
	v.SetDefault("channel.command_capacity", 4)

	v.SetDefault("timings.fade_out_ms", 300)
	v.SetDefault("timings.fade_in_ms", 300)
	v.SetDefault("timings.color_change_ms", 400)
	v.SetDefault("timings.brightness_ms", 250)

	v.SetDefault("gamma.enabled", true)

	v.SetDefault("button.enabled", false)
	v.SetDefault("button.pin", 27)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.file_path", "")
	v.SetDefault("logger.max_size_mb", 10)
	v.SetDefault("logger.max_backups", 3)
}

func getConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".myrtio")
}
