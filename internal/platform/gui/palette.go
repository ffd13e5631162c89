// Package gui runs Kitty Madness in a desktop window with Ebiten.
package gui

import (
	"image/color"

	"github.com/vovakirdan/kitty-madness/internal/core"
	"github.com/vovakirdan/kitty-madness/internal/notify"
)

// palette maps core.Color to window colors.
var palette = map[core.Color]color.RGBA{
	core.ColorDefault:       {R: 255, G: 255, B: 255, A: 255},
	core.ColorRed:           {R: 205, G: 49, B: 49, A: 255},
	core.ColorGreen:         {R: 13, G: 188, B: 121, A: 255},
	core.ColorYellow:        {R: 229, G: 229, B: 16, A: 255},
	core.ColorBlue:          {R: 36, G: 114, B: 200, A: 255},
	core.ColorMagenta:       {R: 188, G: 63, B: 188, A: 255},
	core.ColorCyan:          {R: 17, G: 168, B: 205, A: 255},
	core.ColorWhite:         {R: 229, G: 229, B: 229, A: 255},
	core.ColorBrightRed:     {R: 241, G: 76, B: 76, A: 255},
	core.ColorBrightGreen:   {R: 35, G: 209, B: 139, A: 255},
	core.ColorBrightYellow:  {R: 245, G: 245, B: 67, A: 255},
	core.ColorBrightBlue:    {R: 59, G: 142, B: 234, A: 255},
	core.ColorBrightMagenta: {R: 214, G: 112, B: 214, A: 255},
	core.ColorBrightCyan:    {R: 41, G: 184, B: 219, A: 255},
	core.ColorBrightWhite:   {R: 255, G: 255, B: 255, A: 255},
	core.ColorOrange:        {R: 255, G: 165, B: 0, A: 255},
	core.ColorGray:          {R: 128, G: 128, B: 128, A: 255},
	core.ColorPink:          {R: 255, G: 105, B: 180, A: 255},
	core.ColorBrown:         {R: 139, G: 69, B: 19, A: 255},
	core.ColorSky:           {R: 135, G: 206, B: 235, A: 255},
}

// RGBA returns the window color for c. Unknown colors are white.
func RGBA(c core.Color) color.RGBA {
	if rgba, ok := palette[c]; ok {
		return rgba
	}
	return palette[core.ColorDefault]
}

// toastColors are the backgrounds of toast banners.
var toastColors = map[notify.Severity]color.RGBA{
	notify.SeverityInfo:    {R: 0, G: 95, B: 135, A: 220},
	notify.SeveritySuccess: {R: 60, G: 150, B: 70, A: 220},
	notify.SeverityWarning: {R: 200, G: 150, B: 20, A: 220},
	notify.SeverityError:   {R: 180, G: 30, B: 30, A: 220},
}
