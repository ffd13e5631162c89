package level

import (
	"fmt"

	"github.com/vovakirdan/kitty-madness/internal/core"
)

// ValidationError contains details about validation failure.
type ValidationError struct {
	LevelID string
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("level %s: [%s] %s", e.LevelID, e.Code, e.Message)
}

// Rules describe the play field a level must fit into.
type Rules struct {
	World       core.Rect  // Play field bounds
	Player      core.Point // Player width (X) and height (Y)
	RequireGoal bool       // Delivery variants need a goal on every level
}

// Validate checks that a level can be played under the given rules.
// Checks:
//   - at least one platform and one fish
//   - platforms have positive size
//   - spawn keeps the whole player inside the field
//   - every fish and the goal lie inside the field
//   - a goal exists when the rules require one
func Validate(l Level, r Rules) error {
	fail := func(code, format string, args ...any) error {
		return ValidationError{LevelID: l.ID, Code: code, Message: fmt.Sprintf(format, args...)}
	}

	if l.ID == "" {
		return fail("NO_ID", "level has no id")
	}
	if len(l.Platforms) == 0 {
		return fail("NO_PLATFORMS", "level has no platforms")
	}
	if len(l.Fishes) == 0 {
		return fail("NO_FISH", "level has no fish")
	}
	for i, p := range l.Platforms {
		if p.W <= 0 || p.H <= 0 {
			return fail("BAD_PLATFORM", "platform %d has non-positive size %vx%v", i, p.W, p.H)
		}
	}

	player := core.NewRect(l.Spawn.X, l.Spawn.Y, r.Player.X, r.Player.Y)
	if !inside(player, r.World) {
		return fail("BAD_SPAWN", "spawn (%v,%v) puts the player outside the field", l.Spawn.X, l.Spawn.Y)
	}
	for i, f := range l.Fishes {
		if !inside(f, r.World) {
			return fail("BAD_FISH", "fish %d at (%v,%v) is outside the field", i, f.X, f.Y)
		}
	}

	if l.Goal == nil {
		if r.RequireGoal {
			return fail("NO_GOAL", "delivery rules need a goal")
		}
		return nil
	}
	if !inside(*l.Goal, r.World) {
		return fail("BAD_GOAL", "goal at (%v,%v) is outside the field", l.Goal.X, l.Goal.Y)
	}
	return nil
}

// ValidateAll validates every level and rejects duplicate IDs.
func ValidateAll(levels []Level, r Rules) error {
	if len(levels) == 0 {
		return ValidationError{Code: "EMPTY", Message: "no levels"}
	}
	seen := make(map[string]bool, len(levels))
	for _, l := range levels {
		if seen[l.ID] {
			return ValidationError{LevelID: l.ID, Code: "DUPLICATE_ID", Message: "level id used twice"}
		}
		seen[l.ID] = true
		if err := Validate(l, r); err != nil {
			return err
		}
	}
	return nil
}

func inside(r, bounds core.Rect) bool {
	return r.X >= bounds.X && r.Y >= bounds.Y &&
		r.Right() <= bounds.Right() && r.Bottom() <= bounds.Bottom()
}
