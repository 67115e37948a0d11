package physics

import "github.com/vovakirdan/tui-bounce/internal/core"

// StarHit reports whether the ball overlaps a star at s.
func StarHit(b Ball, s core.Vec2) bool {
	return b.Pos.Dist(s) < BallRadius+StarRadius
}

// GoalEntered reports whether the ball's bounding box overlaps the goal.
func GoalEntered(b Ball, g Box) bool {
	return b.Pos.X+BallRadius > g.X &&
		b.Pos.X-BallRadius < g.Right() &&
		b.Pos.Y+BallRadius > g.Y &&
		b.Pos.Y-BallRadius < g.Bottom()
}
