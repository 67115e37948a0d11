// Package physics simulates a single ball in a 2D canvas: gravity, wall and
// obstacle bounces, star and goal detection, and trajectory preview.
//
// All functions are pure. They take the ball by value and return a new one,
// so callers (the session, the aim preview) can run the simulation on
// detached copies without affecting live state.
package physics

import (
	"fmt"

	"github.com/vovakirdan/tui-bounce/internal/core"
)

// Canvas and ball constants. Units are canvas pixels and ticks.
const (
	CanvasWidth  = 800.0
	CanvasHeight = 560.0

	BallRadius  = 14.0
	StarRadius  = 16.0
	Gravity     = 0.3  // added to vy every tick
	Restitution = 0.75 // velocity kept after a bounce

	LaunchPower     = 0.12  // velocity per unit of drag
	MaxDragDistance = 150.0 // longer drags are clamped
	MinDragDistance = 5.0   // shorter drags are ignored

	PreviewTicks  = 85 // ticks simulated for the aim preview
	PreviewSample = 4  // every Nth predicted tick is emitted
)

// separation is added on top of the penetration depth so that a resolved ball
// is strictly outside the surface it hit.
const separation = 1e-6

// Ball is the position and velocity of the ball's center.
type Ball struct {
	Pos core.Vec2 `json:"pos"`
	Vel core.Vec2 `json:"vel"`
}

// NewBall returns a ball at rest at pos.
func NewBall(pos core.Vec2) Ball {
	return Ball{Pos: pos}
}

// Speed returns the magnitude of the ball's velocity.
func (b Ball) Speed() float64 {
	return b.Vel.Len()
}

// ObstacleKind selects which fields of an Obstacle are meaningful.
type ObstacleKind int

const (
	ObstacleRect ObstacleKind = iota + 1
	ObstacleCircle
)

// String returns the name used in level files.
func (k ObstacleKind) String() string {
	switch k {
	case ObstacleRect:
		return "rect"
	case ObstacleCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ObstacleKind) MarshalText() ([]byte, error) {
	switch k {
	case ObstacleRect, ObstacleCircle:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("physics: unknown obstacle kind %d", int(k))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so level files can say
// type: rect or type: circle.
func (k *ObstacleKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "rect":
		*k = ObstacleRect
	case "circle":
		*k = ObstacleCircle
	default:
		return fmt.Errorf("physics: unknown obstacle type %q", string(text))
	}
	return nil
}

// Obstacle is a static collision shape.
//
// For ObstacleRect, (X, Y) is the top-left corner and Width/Height the size.
// For ObstacleCircle, (X, Y) is the center and Radius the size.
type Obstacle struct {
	Kind   ObstacleKind `json:"type" yaml:"type" toml:"type"`
	X      float64      `json:"x" yaml:"x" toml:"x"`
	Y      float64      `json:"y" yaml:"y" toml:"y"`
	Width  float64      `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height float64      `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
	Radius float64      `json:"radius,omitempty" yaml:"radius,omitempty" toml:"radius,omitempty"`
}

// Rect returns a rectangular obstacle.
func Rect(x, y, w, h float64) Obstacle {
	return Obstacle{Kind: ObstacleRect, X: x, Y: y, Width: w, Height: h}
}

// Circle returns a circular obstacle centered at (x, y).
func Circle(x, y, r float64) Obstacle {
	return Obstacle{Kind: ObstacleCircle, X: x, Y: y, Radius: r}
}

// Box is an axis-aligned rectangle in canvas units.
type Box struct {
	X      float64 `json:"x" yaml:"x" toml:"x"`
	Y      float64 `json:"y" yaml:"y" toml:"y"`
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`
}

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 {
	return b.X + b.Width
}

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float64 {
	return b.Y + b.Height
}

// Bounds is the size of the playfield. The bottom edge is open.
type Bounds struct {
	Width, Height float64
}

// Canvas is the standard playfield.
var Canvas = Bounds{Width: CanvasWidth, Height: CanvasHeight}

// Contains reports whether p lies inside the bounds.
func (b Bounds) Contains(p core.Vec2) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}
