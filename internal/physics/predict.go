package physics

import (
	"iter"

	"github.com/vovakirdan/tui-bounce/internal/core"
)

// Predict yields the positions an aimed ball would pass through, sampled
// every PreviewSample ticks over at most ticks ticks. The sequence ends early
// once the ball leaves the canvas.
//
// Stars and the goal are ignored; the preview only shows the path. The
// simulation runs on a copy of start, so ranging over the result has no
// effect on the caller's state and every range produces the same points.
func Predict(start Ball, obstacles []Obstacle, ticks int) iter.Seq[core.Vec2] {
	return func(yield func(core.Vec2) bool) {
		b := start
		for i := 1; i <= ticks; i++ {
			res := Step(b, obstacles)
			if res.OutOfBounds {
				return
			}
			b = res.Ball
			if i%PreviewSample == 0 && !yield(b.Pos) {
				return
			}
		}
	}
}

// PredictPath collects Predict into a slice.
func PredictPath(start Ball, obstacles []Obstacle, ticks int) []core.Vec2 {
	var path []core.Vec2
	for p := range Predict(start, obstacles, ticks) {
		path = append(path, p)
	}
	return path
}
