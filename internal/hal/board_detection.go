package hal

import (
	"fmt"
	"os"
	"strings"
)

type BoardModel int

const (
	BoardUnknown BoardModel = iota
	BoardRPiZero
	BoardRPiZeroW
	BoardRPiZero2W
	BoardRPi1
	BoardRPi2
	BoardRPi3
	BoardRPi3Plus
	BoardRPi4
	BoardRPi5
	BoardRPiCM3
	BoardRPiCM4
)

// BoardInfo carries the board traits the composer cares about: whether the
// CPU is quick enough for bit-banged strip timing, how much RAM the
// process can lean on, and which gpiochip carries the header pins.
type BoardInfo struct {
	Model    BoardModel
	Name     string
	NumGPIO  int
	NumI2C   int
	NumSPI   int
	CPUCores int
	RAMSize  int // MB
	GPIOChip string
}

// boardTraits is the per-model lookup DetectBoard fills BoardInfo from.
var boardTraits = map[BoardModel]struct {
	name     string
	numGPIO  int
	numI2C   int
	numSPI   int
	cpuCores int
	ramMB    int // 0 = read from /proc/meminfo
}{
	BoardRPiZero:   {"Raspberry Pi Zero", 26, 1, 2, 1, 512},
	BoardRPiZeroW:  {"Raspberry Pi Zero W", 26, 1, 2, 1, 512},
	BoardRPiZero2W: {"Raspberry Pi Zero 2 W", 26, 1, 2, 4, 512},
	BoardRPi1:      {"Raspberry Pi 1", 26, 1, 2, 1, 512},
	BoardRPi2:      {"Raspberry Pi 2", 26, 1, 2, 4, 1024},
	BoardRPi3:      {"Raspberry Pi 3", 26, 1, 2, 4, 1024},
	BoardRPi3Plus:  {"Raspberry Pi 3 Model B+", 26, 1, 2, 4, 1024},
	BoardRPi4:      {"Raspberry Pi 4", 26, 6, 5, 4, 0},
	BoardRPi5:      {"Raspberry Pi 5", 26, 8, 5, 4, 0},
	BoardRPiCM3:    {"Raspberry Pi Compute Module 3", 28, 1, 2, 4, 1024},
	BoardRPiCM4:    {"Raspberry Pi Compute Module 4", 28, 6, 5, 4, 0},
}

// GPIOChipName returns the GPIO character device carrying the header pins.
// Auto-detects by scanning chip labels for the RP1 (Pi 5) or BCM (Pi 4 and
// earlier) pin controller; falls back to gpiochip0.
func (b BoardModel) GPIOChipName() string {
	// Pi 5's RP1 chip lands on gpiochip0 or gpiochip4 depending on the OS
	// version, so the label is the only reliable marker.
	for _, chip := range []string{"gpiochip0", "gpiochip4"} {
		labelPath := fmt.Sprintf("/sys/bus/gpio/devices/%s/label", chip)
		data, err := os.ReadFile(labelPath)
		if err != nil {
			continue
		}
		label := strings.TrimSpace(string(data))
		if strings.Contains(label, "pinctrl-rp1") || strings.Contains(label, "pinctrl-bcm2") {
			return chip
		}
	}
	return "gpiochip0"
}

// DetectBoard identifies the board from /proc/cpuinfo and the device tree.
func DetectBoard() (*BoardInfo, error) {
	data, err := os.ReadFile("/proc/cpuinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to read cpuinfo: %w", err)
	}

	model := extractModel(string(data))

	traits, ok := boardTraits[model]
	if !ok {
		return &BoardInfo{
			Model:    BoardUnknown,
			Name:     "Unknown Board",
			NumGPIO:  26,
			NumI2C:   1,
			NumSPI:   1,
			CPUCores: 1,
			RAMSize:  512,
			GPIOChip: "gpiochip0",
		}, nil
	}

	ram := traits.ramMB
	if ram == 0 {
		ram = detectRAMSize()
	}

	return &BoardInfo{
		Model:    model,
		Name:     traits.name,
		NumGPIO:  traits.numGPIO,
		NumI2C:   traits.numI2C,
		NumSPI:   traits.numSPI,
		CPUCores: traits.cpuCores,
		RAMSize:  ram,
		GPIOChip: model.GPIOChipName(),
	}, nil
}

func extractModel(cpuinfo string) BoardModel {
	for _, line := range strings.Split(cpuinfo, "\n") {
		if strings.HasPrefix(line, "Model") {
			if m := matchBoardModel(line); m != BoardUnknown {
				return m
			}
		}
	}

	// Pi 5 doesn't put a Model line in cpuinfo; the device tree has it.
	if dtModel, err := os.ReadFile("/proc/device-tree/model"); err == nil {
		if m := matchBoardModel(string(dtModel)); m != BoardUnknown {
			return m
		}
	}

	return BoardUnknown
}

func matchBoardModel(text string) BoardModel {
	model := strings.ToLower(text)

	switch {
	case strings.Contains(model, "pi 5"):
		return BoardRPi5
	case strings.Contains(model, "pi 4"):
		return BoardRPi4
	case strings.Contains(model, "pi 3 model b+"):
		return BoardRPi3Plus
	case strings.Contains(model, "pi 3"):
		return BoardRPi3
	case strings.Contains(model, "pi 2"):
		return BoardRPi2
	case strings.Contains(model, "pi 1"), strings.Contains(model, "model b"):
		return BoardRPi1
	case strings.Contains(model, "zero 2 w"):
		return BoardRPiZero2W
	case strings.Contains(model, "zero w"):
		return BoardRPiZeroW
	case strings.Contains(model, "zero"):
		return BoardRPiZero
	case strings.Contains(model, "compute module 4"):
		return BoardRPiCM4
	case strings.Contains(model, "compute module 3"):
		return BoardRPiCM3
	}
	return BoardUnknown
}

func detectRAMSize() int {
	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return 0
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "MemTotal:") {
			parts := strings.Fields(line)
			if len(parts) >= 2 {
				var kb int
				fmt.Sscanf(parts[1], "%d", &kb)
				return kb / 1024
			}
		}
	}
	return 0
}

func (b BoardModel) String() string {
	if traits, ok := boardTraits[b]; ok {
		return traits.name
	}
	return "Unknown"
}
