package level

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/kitty-madness/internal/core"
)

// Built-in pack names.
const (
	PackClassic  = "classic"
	PackAdvanced = "advanced"
)

var defaultSpawn = core.Point{X: 100, Y: 300}

// ground spans the whole play field at the bottom.
var ground = core.NewRect(0, 580, 800, 20)

// Pack returns a fresh copy of a built-in level pack.
func Pack(name string) ([]Level, error) {
	build, ok := packs[name]
	if !ok {
		return nil, fmt.Errorf("level: unknown pack %q", name)
	}
	return build(), nil
}

// PackNames returns the names of the built-in packs, sorted.
func PackNames() []string {
	names := make([]string, 0, len(packs))
	for name := range packs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var packs = map[string]func() []Level{
	PackClassic:  classicPack,
	PackAdvanced: advancedPack,
}

func classicPack() []Level {
	return []Level{
		{
			ID:   "classic-01",
			Name: "Rooftops",
			Platforms: []core.Rect{
				ground,
				core.NewRect(200, 450, 150, 20),
				core.NewRect(450, 350, 120, 20),
				core.NewRect(100, 250, 100, 20),
				core.NewRect(600, 200, 120, 20),
				core.NewRect(350, 150, 100, 20),
			},
			Fishes: []core.Rect{
				Fish(250, 420),
				Fish(500, 320),
				Fish(130, 220),
				Fish(650, 170),
				Fish(380, 120),
			},
			Spawn: defaultSpawn,
		},
	}
}

func advancedPack() []Level {
	return []Level{
		{
			ID:   "advanced-01",
			Name: "Back Alley",
			Platforms: []core.Rect{
				ground,
				core.NewRect(200, 450, 150, 20),
				core.NewRect(450, 350, 120, 20),
				core.NewRect(100, 250, 100, 20),
			},
			Fishes: []core.Rect{
				Fish(250, 420),
				Fish(500, 320),
			},
			Goal:  Goal(700, 520),
			Spawn: defaultSpawn,
		},
		{
			ID:   "advanced-02",
			Name: "Fire Escape",
			Platforms: []core.Rect{
				ground,
				core.NewRect(150, 480, 120, 20),
				core.NewRect(330, 400, 120, 20),
				core.NewRect(520, 320, 120, 20),
				core.NewRect(420, 220, 100, 20),
				core.NewRect(600, 160, 150, 20),
			},
			Fishes: []core.Rect{
				Fish(190, 450),
				Fish(560, 290),
				Fish(450, 190),
			},
			Goal:  Goal(680, 100),
			Spawn: core.Point{X: 40, Y: 500},
		},
		{
			ID:   "advanced-03",
			Name: "Chimney Tops",
			Platforms: []core.Rect{
				ground,
				core.NewRect(80, 470, 100, 20),
				core.NewRect(250, 380, 100, 20),
				core.NewRect(420, 290, 100, 20),
				core.NewRect(590, 200, 100, 20),
				core.NewRect(380, 130, 90, 20),
				core.NewRect(120, 170, 120, 20),
			},
			Fishes: []core.Rect{
				Fish(110, 440),
				Fish(280, 350),
				Fish(620, 170),
				Fish(400, 100),
			},
			Goal:  Goal(150, 110),
			Spawn: defaultSpawn,
		},
	}
}
