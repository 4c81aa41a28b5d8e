package filter

import "github.com/myrtio/light-composer/internal/composer/color"

// ProcessorConfig configures a Processor.
type ProcessorConfig struct {
	Brightness      BrightnessFilterConfig
	ColorCorrection color.RGB
}

// Processor is the central hub for all per-frame post-processing, applied
// in a fixed order: color correction first (white balance), then the
// brightness envelope (so dimming always acts on already-corrected colors).
type Processor struct {
	Brightness      *BrightnessFilter
	ColorCorrection ColorCorrection
}

// NewProcessor builds a processor from cfg, starting at brightness 0 (the
// renderer raises it only once a queued operation, e.g. a power-on, arms a
// brightness transition).
func NewProcessor(cfg ProcessorConfig) *Processor {
	return &Processor{
		Brightness:      NewBrightnessFilter(0, cfg.Brightness),
		ColorCorrection: NewColorCorrection(cfg.ColorCorrection),
	}
}

// Tick advances every filter with internal transition state to nowMs.
func (p *Processor) Tick(nowMs int64) {
	p.Brightness.Tick(nowMs)
}

// Apply runs the full filter chain over frame, in place. Color correction
// only runs for effects that opt into it via preciseColors (aesthetic
// effects like Rainbow and Flow would just get dimmer, not more correct);
// brightness always runs.
func (p *Processor) Apply(frame []color.RGB, preciseColors bool) {
	if preciseColors {
		p.ColorCorrection.Apply(frame)
	}
	p.Brightness.Apply(frame)
}
