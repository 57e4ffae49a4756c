package canvas

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors.
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
	ColorBrightYellow
	ColorBrightCyan
	ColorOrange
	ColorGray
)

// Roles used by the viewer.
const (
	ColorStatic  = ColorGray
	ColorContact = ColorBrightRed
	ColorRay     = ColorBrightYellow
	ColorRayHit  = ColorOrange
	ColorProbe   = ColorBrightCyan
	ColorFrame   = ColorBlue
)
