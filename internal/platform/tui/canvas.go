package tui

import (
	"math"

	"github.com/vovakirdan/kitty-madness/internal/core"
)

// ScreenCanvas draws world coordinates onto a terminal cell grid.
// The world is stretched to fill the screen.
type ScreenCanvas struct {
	screen *core.Screen
	worldW float64
	worldH float64
}

// NewScreenCanvas creates a canvas mapping a worldW x worldH world onto s.
func NewScreenCanvas(s *core.Screen, worldW, worldH float64) *ScreenCanvas {
	return &ScreenCanvas{screen: s, worldW: worldW, worldH: worldH}
}

// Screen returns the underlying cell grid.
func (c *ScreenCanvas) Screen() *core.Screen {
	return c.screen
}

func (c *ScreenCanvas) Clear(col core.Color) {
	c.screen.FillColor(' ', col)
}

// FillRect covers every cell the rectangle touches, so thin platforms
// stay visible.
func (c *ScreenCanvas) FillRect(r core.Rect, col core.Color) {
	x0, y0 := c.cell(r.X, r.Y)
	x1 := int(math.Ceil(r.Right() * c.sx()))
	y1 := int(math.Ceil(r.Bottom() * c.sy()))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	c.screen.DrawRect(x0, y0, x1-x0, y1-y0, '█', col)
}

func (c *ScreenCanvas) DrawText(x, y float64, text string, col core.Color) {
	cx, cy := c.cell(x, y)
	c.screen.DrawTextColor(cx, cy, text, col)
}

func (c *ScreenCanvas) DrawLabel(r core.Rect, text string, col core.Color) {
	cx, cy := c.cell(r.Center())
	n := len([]rune(text))
	c.screen.DrawTextColor(cx-n/2, cy, text, col)
}

func (c *ScreenCanvas) cell(x, y float64) (int, int) {
	return int(math.Floor(x * c.sx())), int(math.Floor(y * c.sy()))
}

func (c *ScreenCanvas) sx() float64 {
	if c.worldW <= 0 {
		return 1
	}
	return float64(c.screen.Width()) / c.worldW
}

func (c *ScreenCanvas) sy() float64 {
	if c.worldH <= 0 {
		return 1
	}
	return float64(c.screen.Height()) / c.worldH
}
