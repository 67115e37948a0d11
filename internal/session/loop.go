package session

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/level"
)

// Fixed timestep settings.
const (
	StepDuration     = time.Second / 60
	MaxStepsPerFrame = 3
)

// Observer is notified of every session event, in order, on the goroutine
// driving the loop.
type Observer interface {
	Observe(ev Event, s Session)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev Event, s Session)

// Observe calls f.
func (f ObserverFunc) Observe(ev Event, s Session) {
	f(ev, s)
}

// Persister records won levels. It keeps the best result per level and
// unlocks the following level.
type Persister interface {
	LevelWon(levelID, score, stars int) error
}

// PersistWins returns an observer that hands every win to p. Failures are
// logged and otherwise ignored; a broken store never interrupts play.
func PersistWins(p Persister, logger *log.Logger) Observer {
	return ObserverFunc(func(ev Event, _ Session) {
		if ev.Kind != EventWon {
			return
		}
		if err := p.LevelWon(ev.LevelID, ev.Score.Total, ev.Stars); err != nil && logger != nil {
			logger.Warn("cannot record win", "level", ev.LevelID, "err", err)
		}
	})
}

// LogEvents returns an observer that logs session events. Bounces and star
// pickups are logged at debug level.
func LogEvents(logger *log.Logger) Observer {
	return ObserverFunc(func(ev Event, s Session) {
		switch ev.Kind {
		case EventWallBounce, EventObstacleBounce:
			logger.Debug(ev.Kind.String(), "level", ev.LevelID, "tick", ev.Tick, "bounces", s.Bounces)
		case EventStarCollected:
			logger.Debug("star collected", "level", ev.LevelID, "tick", ev.Tick, "star", *ev.Star)
		case EventWon:
			logger.Info("level won", "level", ev.LevelID, "tick", ev.Tick, "score", ev.Score.Total, "stars", ev.Stars)
		case EventLost:
			logger.Info("level lost", "level", ev.LevelID, "tick", ev.Tick, "reason", ev.Reason)
		default:
			logger.Debug(ev.Kind.String(), "level", ev.LevelID, "tick", ev.Tick)
		}
	})
}

// Loop owns the live session of a level and drives it from frame callbacks
// with a fixed timestep. It is not safe for concurrent use; all calls must
// come from the goroutine running the frame scheduler.
type Loop struct {
	lvl       *level.Level
	sess      Session
	observers []Observer

	acc  time.Duration
	last time.Time
}

// NewLoop creates a loop aiming at lvl.
func NewLoop(lvl *level.Level, observers ...Observer) *Loop {
	return &Loop{
		lvl:       lvl,
		sess:      New(lvl),
		observers: observers,
	}
}

// Level returns the level being played.
func (l *Loop) Level() *level.Level {
	return l.lvl
}

// Session returns the current session state.
func (l *Loop) Session() Session {
	return l.sess
}

// Observe adds an observer.
func (l *Loop) Observe(o Observer) {
	l.observers = append(l.observers, o)
}

// Launch fires the ball along the drag from -> to. It reports whether the
// session started playing.
func (l *Loop) Launch(from, to core.Vec2) bool {
	s, ok := l.sess.Launch(from, to)
	if !ok {
		return false
	}
	l.sess = s
	l.acc = 0
	l.emit(l.sess.event(EventLaunched))
	return true
}

// TogglePause pauses a playing session or resumes a paused one.
func (l *Loop) TogglePause() {
	if s, ok := l.sess.Pause(); ok {
		l.sess = s
		l.emit(s.event(EventPaused))
		return
	}
	if s, ok := l.sess.Resume(); ok {
		l.sess = s
		l.emit(s.event(EventResumed))
	}
}

// Restart discards the current attempt and starts aiming again.
func (l *Loop) Restart() {
	l.sess = l.sess.Restart(l.lvl)
	l.acc = 0
	l.emit(l.sess.event(EventRestarted))
}

// Frame is the per-refresh callback. The time since the previous frame is
// added to the elapsed time and converted into whole physics steps. At most
// MaxStepsPerFrame steps run per frame; time beyond that is dropped, so
// after a stall the game runs slower than the wall clock instead of racing
// to catch up.
func (l *Loop) Frame(now time.Time) []Event {
	var dt time.Duration
	if !l.last.IsZero() {
		dt = max(0, now.Sub(l.last))
	}
	l.last = now

	if l.sess.Phase != PhasePlaying {
		l.acc = 0
		return nil
	}

	l.sess.Elapsed += dt.Seconds()
	l.acc += dt
	steps := int(l.acc / StepDuration)
	l.acc -= time.Duration(steps) * StepDuration
	steps = min(steps, MaxStepsPerFrame)

	var all []Event
	for range steps {
		var events []Event
		l.sess, events = Advance(l.sess, l.lvl)
		for _, ev := range events {
			l.emit(ev)
		}
		all = append(all, events...)
		if l.sess.Phase.Terminal() {
			l.acc = 0
			break
		}
	}
	return all
}

func (l *Loop) emit(ev Event) {
	for _, o := range l.observers {
		o.Observe(ev, l.sess)
	}
}
