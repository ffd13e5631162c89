package game

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/kitty-madness/internal/config"
	"github.com/vovakirdan/kitty-madness/internal/core"
	"github.com/vovakirdan/kitty-madness/internal/level"
)

// ErrSkippedLevels marks a level directory where some files failed to load.
// LoadLevels returns it together with the levels that did load.
var ErrSkippedLevels = errors.New("game: skipped level files")

// Rules bundle everything the simulation reads from configuration.
type Rules struct {
	Variant  string
	Physics  config.Physics
	World    config.World
	Player   config.Player
	Gameplay config.Gameplay
}

// RulesFor resolves the rules of a variant with a difficulty preset applied.
func RulesFor(cfg config.KittyConfig, variant string, preset config.DifficultyPreset) (Rules, error) {
	if variant == "" {
		variant = cfg.DefaultVariant
	}
	gp, err := cfg.Variant(variant)
	if err != nil {
		return Rules{}, err
	}
	config.ApplyPreset(&gp, preset)
	return Rules{
		Variant:  variant,
		Physics:  cfg.Physics,
		World:    cfg.World,
		Player:   cfg.Player,
		Gameplay: gp,
	}, nil
}

// Bounds returns the play field rectangle.
func (r Rules) Bounds() core.Rect {
	return core.NewRect(0, 0, r.World.Width, r.World.Height)
}

// LevelRules returns the validation rules for levels played under r.
func (r Rules) LevelRules() level.Rules {
	return level.Rules{
		World:       r.Bounds(),
		Player:      core.Point{X: r.Player.Width, Y: r.Player.Height},
		RequireGoal: r.Gameplay.RequireDelivery,
	}
}

// LoadLevels returns the levels for the rules' variant: the YAML directory
// when one is configured, otherwise the built-in pack. Levels are validated.
// When only some files of the directory load, the levels are returned with
// an error wrapping ErrSkippedLevels.
func (r Rules) LoadLevels() ([]level.Level, error) {
	var (
		levels  []level.Level
		err     error
		skipped error
	)
	if r.Gameplay.LevelsDir != "" {
		levels, err = level.NewLoader(r.Gameplay.LevelsDir).LoadAll()
		if err != nil && len(levels) == 0 {
			return nil, fmt.Errorf("game: load levels from %s: %w", r.Gameplay.LevelsDir, err)
		}
		if err != nil {
			skipped = fmt.Errorf("%w in %s: %w", ErrSkippedLevels, r.Gameplay.LevelsDir, err)
		}
	} else {
		levels, err = level.Pack(r.Gameplay.LevelPack)
		if err != nil {
			return nil, fmt.Errorf("game: %w", err)
		}
	}
	if err := level.ValidateAll(levels, r.LevelRules()); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	return levels, skipped
}
