package gui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/vovakirdan/kitty-madness/internal/core"
)

// defaultFace is the bitmap font used for HUD and labels.
var defaultFace text.Face = text.NewGoXFace(basicfont.Face7x13)

// ImageCanvas draws world units straight onto an Ebiten image.
// The window layout equals the world size, so no scaling happens here.
type ImageCanvas struct {
	dst  *ebiten.Image
	face text.Face
}

// NewImageCanvas creates a canvas with the default face.
func NewImageCanvas() *ImageCanvas {
	return &ImageCanvas{face: defaultFace}
}

// Target sets the image drawn on by the next calls.
func (c *ImageCanvas) Target(dst *ebiten.Image) {
	c.dst = dst
}

// Clear fills the whole image.
func (c *ImageCanvas) Clear(col core.Color) {
	if c.dst == nil {
		return
	}
	c.dst.Fill(RGBA(col))
}

// FillRect draws a solid rectangle.
func (c *ImageCanvas) FillRect(r core.Rect, col core.Color) {
	if c.dst == nil {
		return
	}
	vector.DrawFilledRect(c.dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), RGBA(col), false)
}

// DrawText draws text with its top-left corner at (x, y).
func (c *ImageCanvas) DrawText(x, y float64, s string, col core.Color) {
	if c.dst == nil || s == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(RGBA(col))
	text.Draw(c.dst, s, c.face, op)
}

// DrawLabel centers text in r.
func (c *ImageCanvas) DrawLabel(r core.Rect, s string, col core.Color) {
	w, h := c.measure(s)
	cx, cy := r.Center()
	c.DrawText(cx-w/2, cy-h/2, s, col)
}

func (c *ImageCanvas) measure(s string) (float64, float64) {
	m := c.face.Metrics()
	return text.Measure(s, c.face, m.HAscent+m.HDescent)
}
