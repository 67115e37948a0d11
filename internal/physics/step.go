package physics

import "math"

// StepResult is the outcome of advancing the ball by one tick.
type StepResult struct {
	Ball            Ball
	WallBounced     bool
	ObstacleBounced bool
	OutOfBounds     bool // ball fully below the bottom edge
}

// Bounced reports whether any wall or obstacle bounce happened this tick.
func (r StepResult) Bounced() bool {
	return r.WallBounced || r.ObstacleBounced
}

// Step advances the ball by one tick on the standard canvas.
func Step(b Ball, obstacles []Obstacle) StepResult {
	return StepIn(Canvas, b, obstacles)
}

// StepIn advances the ball by one tick inside bounds:
//  1. gravity is added to the vertical velocity
//  2. velocity is added to the position
//  3. left, right and top walls clamp the ball and reflect the matching
//     velocity component (the bottom is open)
//  4. obstacles are resolved one after another in order, each seeing the
//     result of the previous one
//  5. the ball is out of bounds once its top edge passes the bottom
func StepIn(bounds Bounds, b Ball, obstacles []Obstacle) StepResult {
	var res StepResult

	b.Vel.Y += Gravity
	b.Pos = b.Pos.Add(b.Vel)

	if b.Pos.X-BallRadius < 0 {
		b.Pos.X = BallRadius
		b.Vel.X = math.Abs(b.Vel.X) * Restitution
		res.WallBounced = true
	}
	if b.Pos.X+BallRadius > bounds.Width {
		b.Pos.X = bounds.Width - BallRadius
		b.Vel.X = -math.Abs(b.Vel.X) * Restitution
		res.WallBounced = true
	}
	if b.Pos.Y-BallRadius < 0 {
		b.Pos.Y = BallRadius
		b.Vel.Y = math.Abs(b.Vel.Y) * Restitution
		res.WallBounced = true
	}

	for _, o := range obstacles {
		var hit bool
		if b, hit = Resolve(b, o); hit {
			res.ObstacleBounced = true
		}
	}

	res.Ball = b
	res.OutOfBounds = b.Pos.Y-BallRadius > bounds.Height
	return res
}
