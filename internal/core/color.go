package core

// Color is a palette entry shared by every renderer.
// Terminal front ends map it to ANSI 256-color codes, the window front end
// maps it to RGBA.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorPink  // Kitty
	ColorBrown // Platforms
	ColorSky   // Background
)
