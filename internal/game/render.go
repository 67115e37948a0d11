package game

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/physics"
	"github.com/vovakirdan/tui-bounce/internal/session"
)

// Visual characters for rendering
const (
	BallChar    = '●'
	StarChar    = '★'
	RectChar    = '█'
	CircleChar  = '▓'
	GoalChar    = '░'
	PreviewChar = '·'
	AimChar     = '+'
	StarFilled  = "★"
	StarEmpty   = "☆"
)

// canvasArea is the block of cells the canvas is drawn into: below the HUD
// row and inside the frame, leaving the last row for key hints.
func canvasArea(w, h int) core.Rect {
	return core.NewRect(1, 2, max(0, w-2), max(0, h-4))
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	area := canvasArea(dst.Width(), dst.Height())
	if area != g.viewport.Area {
		g.Resize(dst.Width(), dst.Height())
	}
	vp := g.viewport
	lvl := g.Level()
	s := g.Session()

	dst.DrawBox(core.NewRect(area.X-1, area.Y-1, area.W+2, area.H+2), core.ColorGray)
	// The bottom of the canvas is open.
	for x := area.X; x < area.Right(); x++ {
		dst.SetColored(x, area.Bottom(), ' ', core.ColorDefault)
	}

	for _, o := range lvl.Obstacles {
		drawObstacle(dst, vp, o)
	}
	drawGoal(dst, vp, lvl.Goal)

	for i, star := range lvl.Stars {
		if s.Collected[i] {
			continue
		}
		x, y := vp.ToCell(star)
		dst.SetColored(x, y, StarChar, core.ColorStar)
	}

	if s.Phase == session.PhaseAiming {
		for _, p := range g.Preview() {
			if x, y := vp.ToCell(p); area.Contains(x, y) {
				dst.SetColored(x, y, PreviewChar, core.ColorPreview)
			}
		}
		x, y := vp.ToCell(g.aim)
		dst.SetColored(x, y, AimChar, core.ColorAim)
	}

	if x, y := vp.ToCell(s.Ball.Pos); area.Contains(x, y) {
		dst.SetColored(x, y, BallChar, core.ColorBall)
	}

	g.drawHUD(dst, s)
	g.drawHints(dst, s)

	switch s.Phase {
	case session.PhasePaused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case session.PhaseWon:
		g.drawWin(dst, s)
	case session.PhaseLost:
		drawCenteredMessage(dst, lossTitle(s.Reason), "R: retry  |  B: levels")
	}
}

// cellSpan converts a canvas box into the cells it covers, at least one.
func cellSpan(vp core.Viewport, x, y, w, h float64) core.Rect {
	x0, y0 := vp.ToCell(core.V(x, y))
	x1, y1 := vp.ToCell(core.V(x+w, y+h))
	return core.NewRect(x0, y0, max(1, x1-x0), max(1, y1-y0))
}

func drawObstacle(dst *core.Screen, vp core.Viewport, o physics.Obstacle) {
	switch o.Kind {
	case physics.ObstacleRect:
		dst.FillRect(cellSpan(vp, o.X, o.Y, o.Width, o.Height), RectChar, core.ColorObstacle)
	case physics.ObstacleCircle:
		span := cellSpan(vp, o.X-o.Radius, o.Y-o.Radius, 2*o.Radius, 2*o.Radius)
		center := core.V(o.X, o.Y)
		drawn := false
		for y := span.Y; y < span.Bottom(); y++ {
			for x := span.X; x < span.Right(); x++ {
				if vp.ToCanvas(x, y).Dist(center) <= o.Radius {
					dst.SetColored(x, y, CircleChar, core.ColorObstacle)
					drawn = true
				}
			}
		}
		if !drawn {
			x, y := vp.ToCell(center)
			dst.SetColored(x, y, CircleChar, core.ColorObstacle)
		}
	}
}

func drawGoal(dst *core.Screen, vp core.Viewport, goal physics.Box) {
	r := cellSpan(vp, goal.X, goal.Y, goal.Width, goal.Height)
	dst.FillRect(r, GoalChar, core.ColorGoal)
	dst.DrawBox(r, core.ColorGoal)
}

func (g *Game) drawHUD(dst *core.Screen, s session.Session) {
	lvl := g.Level()
	stars := strings.Repeat(StarFilled, s.StarsCollected()) +
		strings.Repeat(StarEmpty, len(lvl.Stars)-s.StarsCollected())
	hud := fmt.Sprintf(" %d. %s  |  Bounces %d/%d  |  Time %.1fs  |  %s ",
		lvl.ID, lvl.Name, s.Bounces, lvl.MaxBounces, s.Elapsed, stars)
	dst.DrawTextColored(0, 0, hud, core.ColorHUD)
}

func (g *Game) drawHints(dst *core.Screen, s session.Session) {
	var hint string
	switch s.Phase {
	case session.PhaseAiming:
		hint = " Arrows/drag: aim  Space: launch  R: restart  B: levels  Q: quit"
	case session.PhasePlaying, session.PhasePaused:
		hint = " P: pause  R: restart  B: levels  Q: quit"
	default:
		hint = " R: retry  B: levels  Q: quit"
	}
	dst.DrawTextColored(0, dst.Height()-1, hint, core.ColorGray)
}

func (g *Game) drawWin(dst *core.Screen, s session.Session) {
	b := s.Score
	lines := []string{
		fmt.Sprintf("Stars       %s  +%d", strings.Repeat(StarFilled, s.StarsCollected()), b.StarsBonus),
		fmt.Sprintf("Bounces     %d/%d  +%d", s.Bounces, g.Level().MaxBounces, b.BounceEfficiency),
		fmt.Sprintf("Time        %.1fs  +%d", s.Elapsed, b.TimeBonus),
		fmt.Sprintf("Total       %d", b.Total),
		"",
	}
	if g.opts.HasNext {
		lines = append(lines, "Enter: next level  |  R: retry  |  B: levels")
	} else {
		lines = append(lines, "R: retry  |  B: levels")
	}
	drawCenteredMessage(dst, "LEVEL COMPLETE", lines...)
}

func lossTitle(r session.LossReason) string {
	switch r {
	case session.LossOutOfBounds:
		return "OUT OF BOUNDS"
	case session.LossMaxBounces:
		return "TOO MANY BOUNCES"
	default:
		return "LEVEL FAILED"
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title string, lines ...string) {
	w := dst.Width()
	h := dst.Height()

	// Calculate box dimensions
	inner := len([]rune(title))
	for _, l := range lines {
		inner = max(inner, len([]rune(l)))
	}
	boxW := inner + 4
	boxH := len(lines) + 4
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2
	box := core.NewRect(boxX, boxY, boxW, boxH)

	dst.FillRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorWhite)

	titleX := boxX + (boxW-len([]rune(title)))/2
	dst.DrawTextColored(titleX, boxY+1, title, core.ColorBrightYellow)

	for i, l := range lines {
		dst.DrawText(boxX+2, boxY+3+i, l)
	}
}
