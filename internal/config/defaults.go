package config

import (
	_ "embed"
)

//go:embed defaults/kitty.yaml
var defaultKittyYAML []byte

// DefaultKittyConfig returns the hard-coded default configuration.
// It mirrors defaults/kitty.yaml and is used when the embedded file cannot be parsed.
func DefaultKittyConfig() KittyConfig {
	return KittyConfig{
		Physics: Physics{
			Gravity:         0.5,
			JumpForce:       -12,
			MoveSpeed:       5,
			Friction:        0.8,
			JumpTolerance:   5,
			GroundedEpsilon: 0.1,
		},
		World: World{
			Width:  800,
			Height: 600,
		},
		Player: Player{
			Width:  40,
			Height: 40,
		},
		DefaultVariant: VariantClassic,
		Variants: map[string]Gameplay{
			VariantClassic: {
				Title:      "Kitty Madness",
				TimeLimit:  60,
				FishReward: 10,
				LevelPack:  VariantClassic,
			},
			VariantAdvanced: {
				Title:           "Kitty Madness: Scratcher Run",
				TimeLimit:       90,
				FishReward:      10,
				GoalBonus:       20,
				DeliveryBonus:   50,
				LevelTimeBonus:  30,
				RequireDelivery: true,
				LevelPack:       VariantAdvanced,
			},
		},
	}
}

// DefaultYAML returns the embedded default YAML document.
func DefaultYAML() []byte {
	return defaultKittyYAML
}
