package game

import (
	"fmt"

	"github.com/vovakirdan/kitty-madness/internal/core"
)

// Canvas is a drawing surface in world units.
type Canvas interface {
	Clear(c core.Color)
	FillRect(r core.Rect, c core.Color)
	DrawText(x, y float64, text string, c core.Color) // (x, y) is the top-left of the text
	DrawLabel(r core.Rect, text string, c core.Color) // Text centered in r
}

// Glyphs decorate the rectangles drawn for each entity.
var (
	GlyphKitty = "=^.^="
	GlyphFish  = "><>"
	GlyphGoal  = "#"
)

// Palette used by Render.
const (
	ColorBackground  = core.ColorSky
	ColorPlatform    = core.ColorBrown
	ColorFish        = core.ColorOrange
	ColorGoal        = core.ColorMagenta
	ColorGoalReached = core.ColorBrightGreen
	ColorKitty       = core.ColorPink
	ColorHUD         = core.ColorBrightWhite
	ColorOverlay     = core.ColorBrightYellow
	ColorGlyph       = core.ColorBrightWhite
)

// hudLineHeight is the vertical spacing of HUD text in world units.
const hudLineHeight = 24

// Render draws the current state back to front: background, platforms,
// goal, fish, player, HUD and status overlay. It mutates nothing.
func (g *Game) Render(c Canvas) {
	if c == nil {
		return
	}
	s := &g.session
	c.Clear(ColorBackground)

	if lvl, ok := g.currentLevel(); ok && s.Status != StatusNotStarted {
		for _, p := range lvl.Platforms {
			c.FillRect(p, ColorPlatform)
		}
		if lvl.Goal != nil && g.rules.Gameplay.RequireDelivery {
			color := ColorGoal
			if s.GoalActive {
				color = ColorGoalReached
			}
			c.FillRect(*lvl.Goal, color)
			c.DrawLabel(*lvl.Goal, GlyphGoal, ColorGlyph)
		}
		for _, f := range s.Fishes {
			if f.Collected {
				continue
			}
			c.FillRect(f.Box, ColorFish)
			c.DrawLabel(f.Box, GlyphFish, ColorGlyph)
		}
		c.FillRect(s.Player.Box, ColorKitty)
		c.DrawLabel(s.Player.Box, GlyphKitty, ColorGlyph)
	}

	for i, line := range g.HUD() {
		c.DrawText(10, 10+float64(i*hudLineHeight), line, ColorHUD)
	}

	if msg := g.Overlay(); msg != "" {
		c.DrawLabel(g.rules.Bounds(), msg, ColorOverlay)
	}
}

// HUD returns the status lines shown in the corner of the play field.
func (g *Game) HUD() []string {
	s := &g.session
	lines := []string{
		fmt.Sprintf("Score: %d", s.Score),
		fmt.Sprintf("Time: %ds", s.TimeLeft),
	}
	if len(g.levels) > 1 {
		lines = append(lines, fmt.Sprintf("Level: %d/%d", s.LevelIndex+1, len(g.levels)))
	}
	if g.rules.Gameplay.RequireDelivery {
		lines = append(lines, fmt.Sprintf("Carrying: %d", s.FishCarried))
	}
	return lines
}

// Overlay returns the centered message for non-playing states.
func (g *Game) Overlay() string {
	s := &g.session
	switch s.Status {
	case StatusNotStarted:
		return "Press Enter to start"
	case StatusWon:
		return fmt.Sprintf("You won! Final score: %d", s.Score)
	case StatusLost:
		return fmt.Sprintf("Time's up! Final score: %d", s.Score)
	default:
		return ""
	}
}
