// Package session runs one attempt at a level: aiming, the launch, the
// fixed-timestep flight, and the win or loss at the end.
//
// Session is a plain value. Every transition returns a new Session, so the
// state machine can be driven from a frame loop, replayed in tests, or run
// headless without any shared mutable state.
package session

import (
	"slices"

	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/level"
	"github.com/vovakirdan/tui-bounce/internal/physics"
	"github.com/vovakirdan/tui-bounce/internal/scoring"
)

// Phase is the state of a session.
type Phase int

const (
	PhaseAiming Phase = iota
	PhasePlaying
	PhasePaused
	PhaseWon
	PhaseLost
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseAiming:
		return "aiming"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Terminal reports whether the phase ends the attempt.
func (p Phase) Terminal() bool {
	return p == PhaseWon || p == PhaseLost
}

// LossReason explains a PhaseLost session.
type LossReason int

const (
	LossNone LossReason = iota
	LossOutOfBounds
	LossMaxBounces
)

// String returns the reason code shown to the player.
func (r LossReason) String() string {
	switch r {
	case LossOutOfBounds:
		return "out_of_bounds"
	case LossMaxBounces:
		return "max_bounces"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r LossReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Session is the state of one attempt at a level.
type Session struct {
	LevelID   int
	Ball      physics.Ball
	Bounces   int
	Collected []bool  // index-aligned with the level's stars
	Elapsed   float64 // seconds spent playing
	Ticks     int     // physics steps taken
	Phase     Phase
	Reason    LossReason
	Score     scoring.Breakdown // set on win
}

// New returns a session aiming from the level's ball start.
func New(lvl *level.Level) Session {
	return Session{
		LevelID:   lvl.ID,
		Ball:      physics.NewBall(lvl.BallStart),
		Collected: make([]bool, len(lvl.Stars)),
		Phase:     PhaseAiming,
	}
}

// StarsCollected counts the collected stars.
func (s Session) StarsCollected() int {
	n := 0
	for _, c := range s.Collected {
		if c {
			n++
		}
	}
	return n
}

// LaunchVelocity converts a drag from one canvas point to another into the
// ball's initial velocity. The ball flies in the drag direction, with speed
// proportional to the drag length up to MaxDragDistance. Drags shorter than
// MinDragDistance are not launches.
func LaunchVelocity(from, to core.Vec2) (core.Vec2, bool) {
	drag := to.Sub(from)
	dist := drag.Len()
	if dist < physics.MinDragDistance {
		return core.Vec2{}, false
	}
	return drag.Normalize().Scale(min(dist, physics.MaxDragDistance) * physics.LaunchPower), true
}

// Launch starts the flight. It only applies while aiming and only for drags
// long enough to count; otherwise the session is returned unchanged.
func (s Session) Launch(from, to core.Vec2) (Session, bool) {
	if s.Phase != PhaseAiming {
		return s, false
	}
	v, ok := LaunchVelocity(from, to)
	if !ok {
		return s, false
	}
	s.Ball.Vel = v
	s.Phase = PhasePlaying
	return s, true
}

// Pause freezes a playing session.
func (s Session) Pause() (Session, bool) {
	if s.Phase != PhasePlaying {
		return s, false
	}
	s.Phase = PhasePaused
	return s, true
}

// Resume continues a paused session.
func (s Session) Resume() (Session, bool) {
	if s.Phase != PhasePaused {
		return s, false
	}
	s.Phase = PhasePlaying
	return s, true
}

// Restart returns a fresh aiming session for lvl, whatever the current phase.
func (s Session) Restart(lvl *level.Level) Session {
	return New(lvl)
}

// Advance runs one fixed tick of a playing session: the physics step, the
// bounce counter, star pickups, and then the goal, out-of-bounds and
// bounce-limit checks in that order. The first terminal condition met ends
// the session; a session that is not playing is returned unchanged.
func Advance(s Session, lvl *level.Level) (Session, []Event) {
	if s.Phase != PhasePlaying {
		return s, nil
	}

	var events []Event
	res := physics.Step(s.Ball, lvl.Obstacles)
	s.Ball = res.Ball
	s.Ticks++

	if res.WallBounced {
		events = append(events, s.event(EventWallBounce))
	}
	if res.ObstacleBounced {
		events = append(events, s.event(EventObstacleBounce))
	}
	if res.Bounced() {
		s.Bounces++
	}

	cloned := false
	for i, star := range lvl.Stars {
		if s.Collected[i] || !physics.StarHit(s.Ball, star) {
			continue
		}
		if !cloned {
			s.Collected = slices.Clone(s.Collected)
			cloned = true
		}
		s.Collected[i] = true
		ev := s.event(EventStarCollected)
		ev.Star = &i
		events = append(events, ev)
	}

	switch {
	case physics.GoalEntered(s.Ball, lvl.Goal):
		s.Phase = PhaseWon
		s.Score = scoring.Calculate(s.StarsCollected(), s.Bounces, s.Elapsed, lvl.MaxBounces)
		events = append(events, s.event(EventWon))
	case res.OutOfBounds:
		s.Phase = PhaseLost
		s.Reason = LossOutOfBounds
		events = append(events, s.event(EventLost))
	case s.Bounces > lvl.MaxBounces:
		s.Phase = PhaseLost
		s.Reason = LossMaxBounces
		events = append(events, s.event(EventLost))
	}

	return s, events
}

// Preview returns the aim preview for a drag from the ball's start, or nil
// if the drag would not launch.
func (s Session) Preview(lvl *level.Level, to core.Vec2, ticks int) []core.Vec2 {
	v, ok := LaunchVelocity(lvl.BallStart, to)
	if !ok || s.Phase != PhaseAiming {
		return nil
	}
	return physics.PredictPath(physics.Ball{Pos: lvl.BallStart, Vel: v}, lvl.Obstacles, ticks)
}
