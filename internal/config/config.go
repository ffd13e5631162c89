// Package config provides YAML-based game configuration loading and
// difficulty presets for Kitty Madness.
package config

import (
	"fmt"
	"sort"
)

// Variant names shipped with the default configuration.
const (
	VariantClassic  = "classic"
	VariantAdvanced = "advanced"
)

// KittyConfig contains all tunables for the game.
type KittyConfig struct {
	Physics        Physics             `yaml:"physics"`
	World          World               `yaml:"world"`
	Player         Player              `yaml:"player"`
	DefaultVariant string              `yaml:"default_variant"`
	Variants       map[string]Gameplay `yaml:"variants"`
}

// Physics defines the kinematic constants applied every tick.
type Physics struct {
	Gravity         float64 `yaml:"gravity"`
	JumpForce       float64 `yaml:"jump_force"`
	MoveSpeed       float64 `yaml:"move_speed"`
	Friction        float64 `yaml:"friction"`
	JumpTolerance   float64 `yaml:"jump_tolerance"`   // Max gap between feet and platform top to allow a jump
	GroundedEpsilon float64 `yaml:"grounded_epsilon"` // |vy| below this counts as grounded-or-apex
}

// World defines the logical play field size.
type World struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Player defines the kitty's bounding box.
type Player struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Gameplay defines the rules of one variant.
type Gameplay struct {
	Title           string `yaml:"title"`
	TimeLimit       int    `yaml:"time_limit"`       // Seconds on the clock at start
	FishReward      int    `yaml:"fish_reward"`      // Points per fish picked up
	GoalBonus       int    `yaml:"goal_bonus"`       // Points per carried fish when touching the goal
	DeliveryBonus   int    `yaml:"delivery_bonus"`   // Points per delivered fish when the level completes
	LevelTimeBonus  int    `yaml:"level_time_bonus"` // Seconds added when advancing a level
	RequireDelivery bool   `yaml:"require_delivery"` // Level completes only after a delivery to the goal
	LevelPack       string `yaml:"level_pack"`       // Built-in level pack name
	LevelsDir       string `yaml:"levels_dir"`       // Optional directory of YAML levels overriding the pack
}

// Variant returns the gameplay rules for the named variant.
// An empty name selects the default variant.
func (c KittyConfig) Variant(name string) (Gameplay, error) {
	if name == "" {
		name = c.DefaultVariant
	}
	g, ok := c.Variants[name]
	if !ok {
		return Gameplay{}, fmt.Errorf("config: unknown variant %q", name)
	}
	return g, nil
}

// VariantNames returns the configured variant names, sorted.
func (c KittyConfig) VariantNames() []string {
	names := make([]string, 0, len(c.Variants))
	for name := range c.Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the configuration can drive a simulation.
func (c KittyConfig) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("config: world size must be positive, got %vx%v", c.World.Width, c.World.Height)
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		return fmt.Errorf("config: player size must be positive, got %vx%v", c.Player.Width, c.Player.Height)
	}
	if c.Player.Width > c.World.Width {
		return fmt.Errorf("config: player wider than world")
	}
	if c.Physics.Friction < 0 || c.Physics.Friction > 1 {
		return fmt.Errorf("config: friction must be in [0, 1], got %v", c.Physics.Friction)
	}
	if len(c.Variants) == 0 {
		return fmt.Errorf("config: no variants defined")
	}
	if _, ok := c.Variants[c.DefaultVariant]; !ok {
		return fmt.Errorf("config: default variant %q is not defined", c.DefaultVariant)
	}
	for name, v := range c.Variants {
		if v.TimeLimit <= 0 {
			return fmt.Errorf("config: variant %q needs a positive time limit", name)
		}
		if v.LevelPack == "" && v.LevelsDir == "" {
			return fmt.Errorf("config: variant %q needs a level pack or levels dir", name)
		}
	}
	return nil
}
