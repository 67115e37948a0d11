// Package game adapts a bounce level to the terminal: it turns keyboard and
// mouse input into aiming and session commands, and draws the canvas, HUD
// and overlays into a core.Screen.
package game

import (
	"time"

	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/level"
	"github.com/vovakirdan/tui-bounce/internal/physics"
	"github.com/vovakirdan/tui-bounce/internal/session"
)

// Default tuning for the adapter.
const (
	DefaultAimStep = 10.0
)

// initialAim is where the aim point starts, relative to the ball.
var initialAim = core.V(80, -50)

// Options configures a Game.
type Options struct {
	AimStep      float64 // canvas units per aim key press
	PreviewTicks int     // ticks simulated for the aim preview, 0 disables it
	HasNext      bool    // a following level exists, offered after a win
}

// Game is one level being played in the terminal.
type Game struct {
	loop *session.Loop
	opts Options

	aim      core.Vec2 // drag release point in canvas space
	dragging bool
	dragFrom core.Vec2
	dragAim  core.Vec2

	viewport core.Viewport

	wantsNext bool
}

// New creates a game for lvl. Observers receive every session event.
func New(lvl *level.Level, cfg core.RuntimeConfig, opts Options, observers ...session.Observer) *Game {
	if opts.AimStep <= 0 {
		opts.AimStep = DefaultAimStep
	}
	g := &Game{
		loop: session.NewLoop(lvl, observers...),
		opts: opts,
	}
	g.Resize(cfg.ScreenW, cfg.ScreenH)
	g.resetAim()
	return g
}

// Resize adopts new screen dimensions without touching the session.
func (g *Game) Resize(w, h int) {
	g.viewport = core.NewViewport(physics.Canvas.Width, physics.Canvas.Height, canvasArea(w, h))
}

func (g *Game) restart() {
	g.loop.Restart()
	g.resetAim()
}

func (g *Game) resetAim() {
	g.aim = g.clampAim(g.Level().BallStart.Add(initialAim))
	g.dragging = false
	g.wantsNext = false
}

// Level returns the level being played.
func (g *Game) Level() *level.Level {
	return g.loop.Level()
}

// Session returns the current session state.
func (g *Game) Session() session.Session {
	return g.loop.Session()
}

// Aim returns the current aim point.
func (g *Game) Aim() core.Vec2 {
	return g.aim
}

// AimAt moves the aim point. The offset from the ball is clamped to the
// maximum drag distance and the point is kept on the canvas.
func (g *Game) AimAt(p core.Vec2) {
	if g.Session().Phase != session.PhaseAiming {
		return
	}
	g.aim = g.clampAim(p)
}

func (g *Game) clampAim(p core.Vec2) core.Vec2 {
	start := g.Level().BallStart
	off := p.Sub(start)
	if off.Len() > physics.MaxDragDistance {
		off = off.Normalize().Scale(physics.MaxDragDistance)
	}
	p = start.Add(off)
	return core.V(
		core.ClampF(p.X, 0, physics.Canvas.Width),
		core.ClampF(p.Y, 0, physics.Canvas.Height),
	)
}

// Launch fires along the current aim. It reports whether the ball left.
func (g *Game) Launch() bool {
	return g.loop.Launch(g.Level().BallStart, g.aim)
}

// Preview returns the predicted path for the current aim, or nil when the
// preview is disabled or the session is not aiming.
func (g *Game) Preview() []core.Vec2 {
	if g.opts.PreviewTicks <= 0 {
		return nil
	}
	return g.Session().Preview(g.Level(), g.aim, g.opts.PreviewTicks)
}

// Step applies the input collected since the last frame and then runs the
// frame callback for now. It returns the session events of this frame.
func (g *Game) Step(in core.InputFrame, now time.Time) []session.Event {
	if in.Has(core.ActionRestart) {
		g.restart()
	}
	if in.Has(core.ActionPause) {
		g.loop.TogglePause()
	}
	if in.Has(core.ActionConfirm) && g.Session().Phase == session.PhaseWon && g.opts.HasNext {
		g.wantsNext = true
	}

	if g.Session().Phase == session.PhaseAiming {
		g.handleAim(in)
	}

	return g.loop.Frame(now)
}

func (g *Game) handleAim(in core.InputFrame) {
	step := g.opts.AimStep
	switch {
	case in.Has(core.ActionUp):
		g.AimAt(g.aim.Add(core.V(0, -step)))
	case in.Has(core.ActionDown):
		g.AimAt(g.aim.Add(core.V(0, step)))
	}
	switch {
	case in.Has(core.ActionLeft):
		g.AimAt(g.aim.Add(core.V(-step, 0)))
	case in.Has(core.ActionRight):
		g.AimAt(g.aim.Add(core.V(step, 0)))
	}

	for _, ev := range in.Pointer {
		if g.handlePointer(ev) {
			return
		}
	}

	if in.Has(core.ActionLaunch) {
		g.Launch()
	}
}

// handlePointer turns a mouse drag into aiming. The drag moves the aim
// point by the dragged distance, so the ball flies in the direction the
// mouse moved. Releasing launches; it reports whether the ball left.
func (g *Game) handlePointer(ev core.PointerEvent) bool {
	p := g.viewport.ToCanvas(ev.X, ev.Y)
	switch ev.Kind {
	case core.PointerPress:
		g.dragging = true
		g.dragFrom = p
		g.dragAim = g.Level().BallStart
		g.AimAt(g.dragAim)
	case core.PointerMove:
		if g.dragging {
			g.AimAt(g.dragAim.Add(p.Sub(g.dragFrom)))
		}
	case core.PointerRelease:
		if !g.dragging {
			return false
		}
		g.dragging = false
		g.AimAt(g.dragAim.Add(p.Sub(g.dragFrom)))
		return g.Launch()
	}
	return false
}

// WantsNext reports whether the player asked for the next level after a win.
func (g *Game) WantsNext() bool {
	return g.wantsNext
}

// State returns the summary used by the platform layer.
func (g *Game) State() core.GameState {
	s := g.Session()
	return core.GameState{
		Score:    s.Score.Total,
		GameOver: s.Phase.Terminal(),
		Paused:   s.Phase == session.PhasePaused,
	}
}
