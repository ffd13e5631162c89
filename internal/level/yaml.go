package level

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/kitty-madness/internal/core"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID        string      `yaml:"id"`
	Name      string      `yaml:"name"`
	Spawn     YAMLPoint   `yaml:"spawn"`
	Platforms []YAMLRect  `yaml:"platforms"`
	Fishes    []YAMLPoint `yaml:"fishes"`
	Goal      *YAMLRect   `yaml:"goal,omitempty"`
}

// YAMLPoint is a position in world units.
type YAMLPoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// YAMLRect is a rectangle in world units.
// Width and height fall back to the default goal size when omitted.
type YAMLRect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w,omitempty"`
	H float64 `yaml:"h,omitempty"`
}

// ParseYAML parses a YAML level document.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	lvl := Level{
		ID:        yl.ID,
		Name:      yl.Name,
		Spawn:     core.Point{X: yl.Spawn.X, Y: yl.Spawn.Y},
		Platforms: make([]core.Rect, 0, len(yl.Platforms)),
		Fishes:    make([]core.Rect, 0, len(yl.Fishes)),
	}
	if lvl.Name == "" {
		lvl.Name = lvl.ID
	}

	for _, p := range yl.Platforms {
		lvl.Platforms = append(lvl.Platforms, core.NewRect(p.X, p.Y, p.W, p.H))
	}
	for _, f := range yl.Fishes {
		lvl.Fishes = append(lvl.Fishes, Fish(f.X, f.Y))
	}
	if yl.Goal != nil {
		g := Goal(yl.Goal.X, yl.Goal.Y)
		if yl.Goal.W > 0 {
			g.W = yl.Goal.W
		}
		if yl.Goal.H > 0 {
			g.H = yl.Goal.H
		}
		lvl.Goal = g
	}

	return lvl, nil
}

// MarshalYAML encodes a level in the file format read by ParseYAML.
func MarshalYAML(l Level) ([]byte, error) {
	yl := YAMLLevel{
		ID:    l.ID,
		Name:  l.Name,
		Spawn: YAMLPoint{X: l.Spawn.X, Y: l.Spawn.Y},
	}
	for _, p := range l.Platforms {
		yl.Platforms = append(yl.Platforms, YAMLRect{X: p.X, Y: p.Y, W: p.W, H: p.H})
	}
	for _, f := range l.Fishes {
		yl.Fishes = append(yl.Fishes, YAMLPoint{X: f.X, Y: f.Y})
	}
	if l.Goal != nil {
		yl.Goal = &YAMLRect{X: l.Goal.X, Y: l.Goal.Y, W: l.Goal.W, H: l.Goal.H}
	}
	return yaml.Marshal(yl)
}
