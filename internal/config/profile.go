package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Profile represents a board/runtime profile, picking sane resource limits
// and an output driver for the hardware the process is running on.
type Profile string

const (
	// ProfileMinimal - Pi Zero, BeagleBone (512MB RAM): bit-banged GPIO
	// only, a short strip, no cron scheduling goroutine.
	ProfileMinimal Profile = "minimal"

	// ProfileStandard - Pi 3/4, Orange Pi (1GB RAM): bit-banged GPIO by
	// default, moderate strip lengths, cron scene scheduling enabled.
	ProfileStandard Profile = "standard"

	// ProfileFull - Pi 4/5, Jetson Nano (2GB+ RAM): SPI-driven output
	// (frees the CPU from busy-waiting bit timing), long strips, cron
	// scheduling and config hot-reload all enabled.
	ProfileFull Profile = "full"
)

// OutputDriverKind selects which scheduler.OutputDriver implementation a
// profile wires up.
type OutputDriverKind string

const (
	DriverGPIOBitBang OutputDriverKind = "gpio_bitbang"
	DriverSPI         OutputDriverKind = "spi"
)

// ProfileConfig holds profile-specific configuration.
type ProfileConfig struct {
	Name        Profile `mapstructure:"name"`
	Description string  `mapstructure:"description"`

	// Resource limits.
	MaxMemory   int64 `mapstructure:"max_memory"`   // Max memory in MB.
	MaxLEDs     int   `mapstructure:"max_leds"`     // Max strip length this profile supports.
	MaxFrameFPS int   `mapstructure:"max_frame_fps"`

	Driver   DriverConfig   `mapstructure:"driver"`
	Features FeaturesConfig `mapstructure:"features"`
}

// DriverConfig picks and configures the output driver backend.
type DriverConfig struct {
	Kind OutputDriverKind `mapstructure:"kind"`
}

// FeaturesConfig defines feature flags.
type FeaturesConfig struct {
	Metrics         bool `mapstructure:"metrics"`          // Enable Prometheus metrics.
	CronScheduling  bool `mapstructure:"cron_scheduling"`  // Enable internal/schedule's cron-armed scene intents.
	ConfigHotReload bool `mapstructure:"config_hot_reload"` // Enable internal/config.Watch.
	ResourceMonitor bool `mapstructure:"resource_monitor"`
}

// GetDefaultProfiles returns the default profile configurations.
func GetDefaultProfiles() map[Profile]*ProfileConfig {
	return map[Profile]*ProfileConfig{
		ProfileMinimal: {
			Name:        ProfileMinimal,
			Description: "Minimal profile for Pi Zero, BeagleBone (512MB RAM)",
			MaxMemory:   50,
			MaxLEDs:     60,
			MaxFrameFPS: 60,
			Driver:      DriverConfig{Kind: DriverGPIOBitBang},
			Features: FeaturesConfig{
				Metrics:         false,
				CronScheduling:  false,
				ConfigHotReload: false,
				ResourceMonitor: true,
			},
		},
		ProfileStandard: {
			Name:        ProfileStandard,
			Description: "Standard profile for Pi 3/4, Orange Pi (1GB RAM)",
			MaxMemory:   200,
			MaxLEDs:     300,
			MaxFrameFPS: 90,
			Driver:      DriverConfig{Kind: DriverGPIOBitBang},
			Features: FeaturesConfig{
				Metrics:         true,
				CronScheduling:  true,
				ConfigHotReload: false,
				ResourceMonitor: true,
			},
		},
		ProfileFull: {
			Name:        ProfileFull,
			Description: "Full profile for Pi 4/5, Jetson Nano (2GB+ RAM)",
			MaxMemory:   400,
			MaxLEDs:     1000,
			MaxFrameFPS: 120,
			Driver:      DriverConfig{Kind: DriverSPI},
			Features: FeaturesConfig{
				Metrics:         true,
				CronScheduling:  true,
				ConfigHotReload: true,
				ResourceMonitor: true,
			},
		},
	}
}

// LoadProfile loads a profile configuration, falling back to the built-in
// defaults for any field a custom profile-<name>.yaml doesn't override.
func LoadProfile(profileName string) (*ProfileConfig, error) {
	profile := Profile(profileName)

	defaults := GetDefaultProfiles()
	defaultConfig, exists := defaults[profile]
	if !exists {
		return nil, fmt.Errorf("unknown profile: %s", profileName)
	}

	v := viper.New()
	v.SetConfigName(fmt.Sprintf("profile-%s", profileName))
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(getConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read profile config: %w", err)
		}
		return defaultConfig, nil
	}

	var cfg ProfileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile config: %w", err)
	}

	mergeProfileConfig(&cfg, defaultConfig)
	return &cfg, nil
}

// DetectProfile picks the best profile for the current system: a simple
// memory/architecture heuristic, good enough to pick sane defaults without
// requiring the operator to read a table first.
func DetectProfile() Profile {
	isARM := runtime.GOARCH == "arm" || runtime.GOARCH == "arm64"
	if !isARM {
		return ProfileFull
	}

	totalMemMB := systemMemoryMB()
	if totalMemMB < 512 {
		return ProfileMinimal
	} else if totalMemMB < 1024 {
		return ProfileStandard
	}
	return ProfileFull
}

// systemMemoryMB reads /proc/meminfo on Linux; returns 0 (treated as
// "unknown", pushed to the conservative end) everywhere else.
func systemMemoryMB() int64 {
	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return 0
	}
	var kb int64
	if _, err := fmt.Sscanf(string(data), "MemTotal: %d kB", &kb); err != nil {
		return 0
	}
	return kb / 1024
}

// DetectBoard attempts to identify the board type from device-tree/sysfs
// markers left by the kernel.
func DetectBoard() string {
	if _, err := os.Stat("/proc/device-tree/model"); err == nil {
		data, err := os.ReadFile("/proc/device-tree/model")
		if err == nil {
			model := string(data)
			switch {
			case strings.Contains(model, "Raspberry Pi Zero"):
				return "Pi Zero"
			case strings.Contains(model, "Raspberry Pi 3"):
				return "Pi 3"
			case strings.Contains(model, "Raspberry Pi 4"):
				return "Pi 4"
			case strings.Contains(model, "Raspberry Pi 5"):
				return "Pi 5"
			case strings.Contains(model, "Raspberry Pi"):
				return "Raspberry Pi"
			}
		}
	}

	if _, err := os.Stat("/etc/dogtag"); err == nil {
		return "BeagleBone"
	}
	if _, err := os.Stat("/etc/orangepi-release"); err == nil {
		return "Orange Pi"
	}
	if _, err := os.Stat("/etc/nv_tegra_release"); err == nil {
		return "Jetson"
	}

	if runtime.GOOS == "linux" {
		switch runtime.GOARCH {
		case "arm64":
			return "ARM64 Linux"
		case "arm":
			return "ARM Linux"
		}
		return "Linux"
	}
	return "Unknown"
}

// GetProfileForBoard returns the recommended profile for a board type.
func GetProfileForBoard(board string) Profile {
	switch board {
	case "Pi Zero", "BeagleBone":
		return ProfileMinimal
	case "Pi 3", "Orange Pi":
		return ProfileStandard
	case "Pi 4", "Pi 5", "Jetson":
		return ProfileFull
	default:
		return ProfileStandard
	}
}

func mergeProfileConfig(cfg *ProfileConfig, defaults *ProfileConfig) {
	if cfg.Name == "" {
		cfg.Name = defaults.Name
	}
	if cfg.Description == "" {
		cfg.Description = defaults.Description
	}
	if cfg.MaxMemory == 0 {
		cfg.MaxMemory = defaults.MaxMemory
	}
	if cfg.MaxLEDs == 0 {
		cfg.MaxLEDs = defaults.MaxLEDs
	}
	if cfg.MaxFrameFPS == 0 {
		cfg.MaxFrameFPS = defaults.MaxFrameFPS
	}
	if cfg.Driver.Kind == "" {
		cfg.Driver.Kind = defaults.Driver.Kind
	}
}

// SaveProfileConfig saves a profile configuration to file.
func SaveProfileConfig(profileName string, cfg *ProfileConfig) error {
	configPath := filepath.Join(getConfigDir(), fmt.Sprintf("profile-%s.yaml", profileName))

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("name", cfg.Name)
	v.Set("description", cfg.Description)
	v.Set("max_memory", cfg.MaxMemory)
	v.Set("max_leds", cfg.MaxLEDs)
	v.Set("max_frame_fps", cfg.MaxFrameFPS)
	v.Set("driver", cfg.Driver)
	v.Set("features", cfg.Features)

	return v.WriteConfigAs(configPath)
}

// ValidateProfile validates a profile configuration.
func ValidateProfile(cfg *ProfileConfig) error {
	if cfg.MaxMemory < 10 {
		return fmt.Errorf("max_memory must be at least 10MB")
	}
	if cfg.MaxLEDs < 1 {
		return fmt.Errorf("max_leds must be at least 1")
	}
	if cfg.MaxFrameFPS < 1 {
		return fmt.Errorf("max_frame_fps must be at least 1")
	}
	return nil
}
