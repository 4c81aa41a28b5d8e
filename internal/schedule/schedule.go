// Package schedule arms timed scene changes: cron expressions that push
// LightChangeIntents onto the intent channel when they fire ("sunset
// effect at 18:00", "power off at 23:00"). It is a producer like any
// other; the render pipeline never knows the intent came from a timer,
// and a full channel drops the scene silently, same as a user burst.
package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/myrtio/light-composer/internal/composer/channel"
	"github.com/myrtio/light-composer/internal/composer/color"
	"github.com/myrtio/light-composer/internal/composer/effect"
	"github.com/myrtio/light-composer/internal/composer/intent"
)

// Scene pairs a cron expression with the intent it enqueues on each fire.
type Scene struct {
	Name   string
	Cron   string
	Intent intent.ChangeIntent
}

// SceneSpec is the declarative form of a Scene, shaped the way a host's
// config file states it: effect by name, color as "#RRGGBB" hex.
type SceneSpec struct {
	Name             string
	Cron             string
	Effect           string
	Color            string
	Brightness       *uint8
	ColorTemperature uint16
	Power            *bool
}

// Scene resolves the spec into an armable Scene, rejecting unknown effect
// names and malformed colors up front so a bad config line fails at load
// time, not at 3am when the cron fires.
func (spec SceneSpec) Scene() (Scene, error) {
	var state intent.StateIntent

	if spec.Effect != "" {
		id, ok := effect.ParseEffectID(spec.Effect)
		if !ok {
			return Scene{}, fmt.Errorf("schedule: scene %q: unknown effect %q", spec.Name, spec.Effect)
		}
		state.EffectID = &id
	}
	if spec.Brightness != nil {
		state.Brightness = spec.Brightness
	}
	if spec.Color != "" {
		packed, err := strconv.ParseUint(strings.TrimPrefix(spec.Color, "#"), 16, 32)
		if err != nil {
			return Scene{}, fmt.Errorf("schedule: scene %q: bad color %q: %w", spec.Name, spec.Color, err)
		}
		c := color.FromU32(uint32(packed))
		state.Color = &c
	} else if spec.ColorTemperature != 0 {
		ct := spec.ColorTemperature
		state.ColorTemperature = &ct
	}
	if spec.Power != nil {
		state.Power = spec.Power
	}

	return Scene{
		Name: spec.Name,
		Cron: spec.Cron,
		Intent: intent.ChangeIntent{
			Kind:  intent.ChangeState,
			State: state,
		},
	}, nil
}

// Scheduler runs scenes against an intent channel sender.
type Scheduler struct {
	cron   *cron.Cron
	sender channel.Sender[intent.ChangeIntent]
	log    *zap.Logger
}

// New builds a scheduler producing onto sender. Logging goes through log;
// pass zap.NewNop() to silence it.
func New(sender channel.Sender[intent.ChangeIntent], log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		sender: sender,
		log:    log,
	}
}

// Add registers a scene, returning its cron entry ID for later removal.
// The scene also gets a stable UUID used to correlate its log lines.
func (s *Scheduler) Add(scene Scene) (cron.EntryID, error) {
	sceneID := uuid.New().String()
	log := s.log.With(
		zap.String("scene_id", sceneID),
		zap.String("scene_name", scene.Name),
	)

	entryID, err := s.cron.AddFunc(scene.Cron, func() {
		if err := s.sender.TrySend(scene.Intent); err != nil {
			// Expected back-pressure, not a fault.
			log.Debug("scene intent dropped, channel full")
			return
		}
		log.Info("scene intent enqueued")
	})
	if err != nil {
		return 0, fmt.Errorf("schedule: add scene %q (%q): %w", scene.Name, scene.Cron, err)
	}

	log.Info("scene armed", zap.String("cron", scene.Cron))
	return entryID, nil
}

// Remove disarms a previously added scene.
func (s *Scheduler) Remove(id cron.EntryID) {
	s.cron.Remove(id)
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron runner; already-fired jobs finish their send.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
