// Package level describes the static content of Kitty Madness levels:
// platforms, fish pickups, the optional scratcher goal and the spawn point.
// Levels are immutable once loaded; per-run state lives in the game package.
package level

import "github.com/vovakirdan/kitty-madness/internal/core"

// Default pickup and goal sizes in world units.
const (
	FishWidth  = 25
	FishHeight = 20
	GoalWidth  = 50
	GoalHeight = 60
)

// Level represents a complete level definition.
type Level struct {
	ID        string
	Name      string
	Platforms []core.Rect
	Fishes    []core.Rect
	Goal      *core.Rect // nil when the level has no delivery target
	Spawn     core.Point
	FilePath  string // empty for built-in levels
}

// HasGoal reports whether the level defines a delivery target.
func (l Level) HasGoal() bool {
	return l.Goal != nil
}

// FishCount returns the number of pickups in the level.
func (l Level) FishCount() int {
	return len(l.Fishes)
}

// Fish returns a fish rectangle with the default size at (x, y).
func Fish(x, y float64) core.Rect {
	return core.NewRect(x, y, FishWidth, FishHeight)
}

// Goal returns a goal rectangle with the default size at (x, y).
func Goal(x, y float64) *core.Rect {
	r := core.NewRect(x, y, GoalWidth, GoalHeight)
	return &r
}
