// Package core provides fundamental types and utilities for the bounce game.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Rect is an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the cell (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Viewport maps canvas coordinates onto a block of screen cells.
// The canvas is stretched to fill Area; terminal cells are roughly twice as
// tall as they are wide, so the two axes scale independently.
type Viewport struct {
	CanvasW, CanvasH float64
	Area             Rect
}

// NewViewport creates a viewport for a canvas of the given size drawn into area.
func NewViewport(canvasW, canvasH float64, area Rect) Viewport {
	return Viewport{CanvasW: canvasW, CanvasH: canvasH, Area: area}
}

// CellSize returns the canvas units covered by one cell on each axis.
func (v Viewport) CellSize() (float64, float64) {
	if v.Area.W <= 0 || v.Area.H <= 0 {
		return 0, 0
	}
	return v.CanvasW / float64(v.Area.W), v.CanvasH / float64(v.Area.H)
}

// ToCell converts a canvas point into the screen cell that contains it.
// Points outside the canvas map outside Area.
func (v Viewport) ToCell(p Vec2) (int, int) {
	cw, ch := v.CellSize()
	if cw == 0 || ch == 0 {
		return v.Area.X, v.Area.Y
	}
	x := int(math.Floor(p.X / cw))
	y := int(math.Floor(p.Y / ch))
	return v.Area.X + x, v.Area.Y + y
}

// ToCanvas converts a screen cell into the canvas point at the cell's center.
func (v Viewport) ToCanvas(x, y int) Vec2 {
	cw, ch := v.CellSize()
	return Vec2{
		X: (float64(x-v.Area.X) + 0.5) * cw,
		Y: (float64(y-v.Area.Y) + 0.5) * ch,
	}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
