package session

import (
	"time"

	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/level"
)

// DefaultSimulationFrames bounds a headless run. At 60 frames per second it
// is two minutes of play.
const DefaultSimulationFrames = 60 * 120

// VirtualClock produces frame timestamps exactly one step apart.
type VirtualClock struct {
	now time.Time
}

// NewVirtualClock returns a clock starting at the Unix epoch.
func NewVirtualClock() *VirtualClock {
	return &VirtualClock{now: time.Unix(0, 0)}
}

// Tick advances the clock by one step and returns the new time.
func (c *VirtualClock) Tick() time.Time {
	c.now = c.now.Add(StepDuration)
	return c.now
}

// Simulate plays lvl headless: it launches along the drag from the ball
// start to target and runs frames on a virtual clock until the session ends
// or maxFrames pass. It returns the final session and every event in order.
// Observers see the same events a live game would produce.
func Simulate(lvl *level.Level, target core.Vec2, maxFrames int, observers ...Observer) (Session, []Event) {
	loop := NewLoop(lvl, observers...)
	var events []Event
	loop.Observe(ObserverFunc(func(ev Event, _ Session) {
		events = append(events, ev)
	}))

	clock := NewVirtualClock()
	loop.Frame(clock.Tick())
	if !loop.Launch(lvl.BallStart, target) {
		return loop.Session(), events
	}
	for range maxFrames {
		loop.Frame(clock.Tick())
		if loop.Session().Phase.Terminal() {
			break
		}
	}
	return loop.Session(), events
}
