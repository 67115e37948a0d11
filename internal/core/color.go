package core

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
	ColorBrightYellow
	ColorOrange
	ColorGray
)

// Scene element colors used by the renderer.
const (
	ColorBall     = ColorWhite
	ColorStar     = ColorBrightYellow
	ColorGoal     = ColorGreen
	ColorObstacle = ColorBlue
	ColorPreview  = ColorGray
	ColorAim      = ColorOrange
	ColorHUD      = ColorCyan
)
