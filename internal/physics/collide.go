package physics

import (
	"math"

	"github.com/vovakirdan/tui-bounce/internal/core"
)

// Resolve tests the ball against one obstacle. On contact it returns the ball
// pushed out along the contact normal with its velocity reflected about the
// normal and scaled by Restitution, and true. Otherwise the ball is returned
// unchanged with false.
//
// A ball whose center lies exactly on the obstacle's surface (or, for circles,
// exactly on its center) has no defined normal and is treated as no contact.
func Resolve(b Ball, o Obstacle) (Ball, bool) {
	switch o.Kind {
	case ObstacleRect:
		return resolveRect(b, o)
	case ObstacleCircle:
		return resolveCircle(b, o)
	default:
		return b, false
	}
}

// Touches reports whether Resolve would report contact, without computing
// the response.
func Touches(b Ball, o Obstacle) bool {
	switch o.Kind {
	case ObstacleRect:
		d := b.Pos.Sub(closestOnRect(b.Pos, o))
		dsq := d.LenSq()
		return dsq > 0 && dsq < BallRadius*BallRadius
	case ObstacleCircle:
		dist := b.Pos.Dist(core.V(o.X, o.Y))
		return dist > 0 && dist < BallRadius+o.Radius
	default:
		return false
	}
}

func closestOnRect(p core.Vec2, o Obstacle) core.Vec2 {
	return core.Vec2{
		X: core.ClampF(p.X, o.X, o.X+o.Width),
		Y: core.ClampF(p.Y, o.Y, o.Y+o.Height),
	}
}

func resolveRect(b Ball, o Obstacle) (Ball, bool) {
	d := b.Pos.Sub(closestOnRect(b.Pos, o))
	dsq := d.LenSq()
	if dsq <= 0 || dsq >= BallRadius*BallRadius {
		return b, false
	}
	dist := math.Sqrt(dsq)
	return bounce(b, unit(d, dist), BallRadius-dist), true
}

func resolveCircle(b Ball, o Obstacle) (Ball, bool) {
	d := b.Pos.Sub(core.V(o.X, o.Y))
	dist := d.Len()
	reach := BallRadius + o.Radius
	if dist <= 0 || dist >= reach {
		return b, false
	}
	return bounce(b, unit(d, dist), reach-dist), true
}

// unit divides d by its already known length.
func unit(d core.Vec2, length float64) core.Vec2 {
	return core.Vec2{X: d.X / length, Y: d.Y / length}
}

// bounce moves the ball out along unit normal n by depth and reflects its
// velocity: v' = (v - 2(v.n)n) * Restitution.
func bounce(b Ball, n core.Vec2, depth float64) Ball {
	return Ball{
		Pos: b.Pos.Add(n.Scale(depth + separation)),
		Vel: b.Vel.Sub(n.Scale(2 * b.Vel.Dot(n))).Scale(Restitution),
	}
}
