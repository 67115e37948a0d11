package session

import (
	"encoding/json"
	"errors"
	"math"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/level"
	"github.com/vovakirdan/tui-bounce/internal/physics"
)

func builtinLevel(t *testing.T, id int) *level.Level {
	t.Helper()
	cat, err := level.Builtin()
	if err != nil {
		t.Fatalf("Builtin() failed: %v", err)
	}
	lvl, err := cat.Get(id)
	if err != nil {
		t.Fatalf("Get(%d) failed: %v", id, err)
	}
	return lvl
}

// openLevel is an empty arena with the goal far away in the top-right corner.
func openLevel(maxBounces int) *level.Level {
	return &level.Level{
		ID:         99,
		Name:       "open",
		BallStart:  core.V(400, 300),
		Stars:      []core.Vec2{core.V(700, 500), core.V(720, 500), core.V(740, 500)},
		Goal:       physics.Box{X: 700, Y: 20, Width: 60, Height: 40},
		MaxBounces: maxBounces,
	}
}

type recorder struct {
	calls []struct{ level, score, stars int }
	err   error
}

func (r *recorder) LevelWon(levelID, score, stars int) error {
	r.calls = append(r.calls, struct{ level, score, stars int }{levelID, score, stars})
	return r.err
}

func TestLaunchVelocity(t *testing.T) {
	tests := []struct {
		name   string
		from   core.Vec2
		to     core.Vec2
		want   core.Vec2
		wantOK bool
	}{
		{"intended launch", core.V(100, 300), core.V(167, 258), core.V(8.04, -5.04), true},
		{"straight down", core.V(100, 300), core.V(100, 450), core.V(0, 18), true},
		{"clamped drag", core.V(0, 0), core.V(300, 0), core.V(18, 0), true},
		{"minimum drag", core.V(0, 0), core.V(0, -5), core.V(0, -0.6), true},
		{"too short", core.V(100, 100), core.V(103, 103), core.Vec2{}, false},
		{"zero drag", core.V(100, 100), core.V(100, 100), core.Vec2{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := LaunchVelocity(tc.from, tc.to)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, expected %v", ok, tc.wantOK)
			}
			if math.Abs(got.X-tc.want.X) > 1e-9 || math.Abs(got.Y-tc.want.Y) > 1e-9 {
				t.Errorf("LaunchVelocity = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestIntendedLaunchWinsLevelOne(t *testing.T) {
	lvl := builtinLevel(t, 1)
	rec := &recorder{}

	s, events := Simulate(lvl, core.V(167, 258), DefaultSimulationFrames, PersistWins(rec, nil))

	if s.Phase != PhaseWon {
		t.Fatalf("Phase = %s, expected won (reason %s)", s.Phase, s.Reason)
	}
	if s.StarsCollected() != 3 {
		t.Errorf("StarsCollected() = %d, expected 3", s.StarsCollected())
	}
	if s.Ticks > 31 {
		t.Errorf("goal reached after %d ticks, expected at most 31", s.Ticks)
	}
	if s.Score.Total < 4090 || s.Score.Total > 4100 {
		t.Errorf("Score.Total = %d, expected about 4094", s.Score.Total)
	}
	if s.Score.StarsBonus != 1500 || s.Score.BounceEfficiency != 2000 {
		t.Errorf("Score = %+v", s.Score)
	}

	if len(rec.calls) != 1 {
		t.Fatalf("persister called %d times, expected 1", len(rec.calls))
	}
	if c := rec.calls[0]; c.level != 1 || c.score != s.Score.Total || c.stars != 3 {
		t.Errorf("persister got %+v", c)
	}

	var kinds []EventKind
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	want := []EventKind{EventLaunched, EventStarCollected, EventStarCollected, EventStarCollected, EventWon}
	if !slices.Equal(kinds, want) {
		t.Errorf("events = %v, expected %v", kinds, want)
	}
}

func TestStarEventsCarryIndex(t *testing.T) {
	lvl := builtinLevel(t, 1)
	_, events := Simulate(lvl, core.V(167, 258), DefaultSimulationFrames)

	var stars []int
	for _, ev := range events {
		if ev.Kind != EventStarCollected {
			if ev.Star != nil {
				t.Errorf("%s event has star %d", ev.Kind, *ev.Star)
			}
			continue
		}
		if ev.Star == nil {
			t.Fatal("star_collected event without a star index")
		}
		stars = append(stars, *ev.Star)
	}
	if !slices.Equal(stars, []int{0, 1, 2}) {
		t.Fatalf("collected stars = %v, expected [0 1 2]", stars)
	}

	tests := []struct {
		ev   Event
		want string
	}{
		{events[1], `"star":0`},
		{events[0], `"kind":"launched"`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.ev)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if !strings.Contains(string(data), tt.want) {
			t.Errorf("Marshal(%s) = %s, expected it to contain %s", tt.ev.Kind, data, tt.want)
		}
	}
	if data, _ := json.Marshal(events[0]); strings.Contains(string(data), `"star"`) {
		t.Errorf("Marshal(launched) = %s, expected no star field", data)
	}
}

func TestStraightDownLaunchIsLost(t *testing.T) {
	lvl := builtinLevel(t, 1)
	rec := &recorder{}

	s, events := Simulate(lvl, core.V(100, 450), DefaultSimulationFrames, PersistWins(rec, nil))

	if s.Phase != PhaseLost || s.Reason != LossOutOfBounds {
		t.Fatalf("Phase/Reason = %s/%s, expected lost/out_of_bounds", s.Phase, s.Reason)
	}
	if s.Ticks > 15 {
		t.Errorf("lost after %d ticks, expected at most 15", s.Ticks)
	}
	if len(rec.calls) != 0 {
		t.Errorf("persister called on a loss: %+v", rec.calls)
	}
	last := events[len(events)-1]
	if last.Kind != EventLost || last.Reason != LossOutOfBounds {
		t.Errorf("last event = %+v, expected lost out_of_bounds", last)
	}
}

func TestBuiltinLevelsAreWinnable(t *testing.T) {
	solutions := map[int]core.Vec2{
		1: core.V(167, 258),
		2: core.V(-2, 330),
		3: core.V(12, 44),
		4: core.V(-19, 381),
		5: core.V(352, -43),
	}

	for id, target := range solutions {
		lvl := builtinLevel(t, id)
		s, _ := Simulate(lvl, target, DefaultSimulationFrames)
		if s.Phase != PhaseWon {
			t.Errorf("level %d: Phase = %s (%s) after %d ticks, expected won", id, s.Phase, s.Reason, s.Ticks)
			continue
		}
		if s.StarsCollected() != 3 {
			t.Errorf("level %d: StarsCollected() = %d, expected 3", id, s.StarsCollected())
		}
		if s.Bounces == 0 && id > 1 {
			t.Errorf("level %d: solved without a bounce", id)
		}
	}
}

func TestTerminalPhaseIsFinal(t *testing.T) {
	lvl := builtinLevel(t, 1)
	won, _ := Simulate(lvl, core.V(167, 258), DefaultSimulationFrames)
	lost, _ := Simulate(lvl, core.V(100, 450), DefaultSimulationFrames)

	for _, s := range []Session{won, lost} {
		before := s.Snapshot()
		for range 100 {
			var events []Event
			s, events = Advance(s, lvl)
			if len(events) != 0 {
				t.Fatalf("%s session produced events: %v", s.Phase, events)
			}
		}
		after := s.Snapshot()
		if before.Hash() != after.Hash() {
			t.Errorf("%s session changed after further ticks", s.Phase)
		}
		if _, ok := s.Pause(); ok {
			t.Errorf("%s session could be paused", s.Phase)
		}
		if _, ok := s.Launch(lvl.BallStart, core.V(167, 258)); ok {
			t.Errorf("%s session could be launched", s.Phase)
		}
	}
}

func TestLoopStopsAfterTerminal(t *testing.T) {
	lvl := builtinLevel(t, 1)
	wins := 0
	loop := NewLoop(lvl, ObserverFunc(func(ev Event, _ Session) {
		if ev.Kind == EventWon {
			wins++
		}
	}))

	clock := NewVirtualClock()
	loop.Frame(clock.Tick())
	loop.Launch(lvl.BallStart, core.V(167, 258))
	for range 200 {
		loop.Frame(clock.Tick())
	}
	if wins != 1 {
		t.Errorf("won %d times, expected exactly once", wins)
	}
}

func TestBounceCounterMonotonic(t *testing.T) {
	lvl := builtinLevel(t, 5)
	s := New(lvl)
	s, ok := s.Launch(lvl.BallStart, core.V(352, -43))
	if !ok {
		t.Fatal("launch failed")
	}

	sawBounce := false
	for s.Phase == PhasePlaying {
		prev := s.Bounces
		var events []Event
		s, events = Advance(s, lvl)

		bounced := slices.ContainsFunc(events, func(ev Event) bool {
			return ev.Kind == EventWallBounce || ev.Kind == EventObstacleBounce
		})
		want := prev
		if bounced {
			want++
			sawBounce = true
		}
		if s.Bounces != want {
			t.Fatalf("tick %d: Bounces = %d, expected %d", s.Ticks, s.Bounces, want)
		}
	}
	if !sawBounce {
		t.Error("run never bounced")
	}
}

func TestOneBouncePerTick(t *testing.T) {
	// The ball hits the left wall and the rect in the same tick.
	lvl := openLevel(10)
	lvl.Obstacles = []physics.Obstacle{physics.Rect(0, 280, 40, 10)}
	lvl.BallStart = core.V(20, 270)

	s := New(lvl)
	s.Phase = PhasePlaying
	s.Ball.Vel = core.V(-10, 3)

	s, events := Advance(s, lvl)
	if len(events) != 2 {
		t.Fatalf("events = %v, expected wall and obstacle bounce", events)
	}
	if s.Bounces != 1 {
		t.Errorf("Bounces = %d, expected 1", s.Bounces)
	}
}

func TestMaxBouncesLoss(t *testing.T) {
	lvl := openLevel(0)
	lvl.BallStart = core.V(30, 300)

	s, events := Simulate(lvl, core.V(0, 300), 100)
	if s.Phase != PhaseLost || s.Reason != LossMaxBounces {
		t.Fatalf("Phase/Reason = %s/%s, expected lost/max_bounces", s.Phase, s.Reason)
	}
	if s.Bounces != 1 {
		t.Errorf("Bounces = %d, expected 1", s.Bounces)
	}
	if events[len(events)-1].Reason != LossMaxBounces {
		t.Errorf("last event = %+v", events[len(events)-1])
	}
}

func TestOutOfBoundsCheckedBeforeBounceLimit(t *testing.T) {
	lvl := openLevel(0)
	s := New(lvl)
	s.Phase = PhasePlaying
	s.Ball = physics.Ball{Pos: core.V(20, 560), Vel: core.V(-10, 20)}

	s, _ = Advance(s, lvl)
	if s.Bounces != 1 {
		t.Fatalf("Bounces = %d, expected 1", s.Bounces)
	}
	if s.Phase != PhaseLost || s.Reason != LossOutOfBounds {
		t.Errorf("Phase/Reason = %s/%s, expected lost/out_of_bounds", s.Phase, s.Reason)
	}
}

func TestShortDragStaysAiming(t *testing.T) {
	lvl := builtinLevel(t, 1)
	loop := NewLoop(lvl)

	if loop.Launch(lvl.BallStart, lvl.BallStart.Add(core.V(3, 3))) {
		t.Error("short drag launched")
	}
	if loop.Session().Phase != PhaseAiming {
		t.Errorf("Phase = %s, expected aiming", loop.Session().Phase)
	}
	if _, ok := loop.Session().Pause(); ok {
		t.Error("aiming session could be paused")
	}
}

func TestPauseResume(t *testing.T) {
	lvl := builtinLevel(t, 1)
	loop := NewLoop(lvl)
	clock := NewVirtualClock()

	loop.Frame(clock.Tick())
	loop.Launch(lvl.BallStart, core.V(167, 258))
	loop.Frame(clock.Tick())
	loop.Frame(clock.Tick())

	loop.TogglePause()
	paused := loop.Session()
	if paused.Phase != PhasePaused {
		t.Fatalf("Phase = %s, expected paused", paused.Phase)
	}
	for range 30 {
		loop.Frame(clock.Tick())
	}
	want := paused.Snapshot()
	if got := loop.Session().Snapshot(); got.Hash() != want.Hash() {
		t.Error("session changed while paused")
	}

	loop.TogglePause()
	if loop.Session().Phase != PhasePlaying {
		t.Fatalf("Phase = %s, expected playing", loop.Session().Phase)
	}
	loop.Frame(clock.Tick())
	if loop.Session().Ticks != paused.Ticks+1 {
		t.Errorf("Ticks = %d, expected %d", loop.Session().Ticks, paused.Ticks+1)
	}
	if loop.Session().Elapsed > paused.Elapsed+StepDuration.Seconds()+1e-9 {
		t.Errorf("Elapsed = %f, paused time was counted", loop.Session().Elapsed)
	}
}

func TestRestart(t *testing.T) {
	lvl := builtinLevel(t, 1)
	restarts := 0
	loop := NewLoop(lvl, ObserverFunc(func(ev Event, _ Session) {
		if ev.Kind == EventRestarted {
			restarts++
		}
	}))
	clock := NewVirtualClock()

	loop.Frame(clock.Tick())
	loop.Launch(lvl.BallStart, core.V(167, 258))
	for range 10 {
		loop.Frame(clock.Tick())
	}
	mid := loop.Session()
	if mid.Ticks == 0 || mid.StarsCollected() == 0 {
		t.Fatalf("expected a session in flight, got %+v", mid)
	}

	loop.Restart()
	s := loop.Session()
	if s.Phase != PhaseAiming {
		t.Errorf("Phase = %s, expected aiming", s.Phase)
	}
	if s.Ball != physics.NewBall(lvl.BallStart) {
		t.Errorf("Ball = %+v, expected at rest at ball start", s.Ball)
	}
	if s.Bounces != 0 || s.Elapsed != 0 || s.Ticks != 0 || s.StarsCollected() != 0 {
		t.Errorf("counters not reset: %+v", s)
	}
	if len(s.Collected) != len(lvl.Stars) {
		t.Errorf("len(Collected) = %d, expected %d", len(s.Collected), len(lvl.Stars))
	}
	if restarts != 1 {
		t.Errorf("restart events = %d, expected 1", restarts)
	}

	for _, phase := range []Phase{PhasePaused, PhaseWon, PhaseLost} {
		in := mid
		in.Phase = phase
		if out := in.Restart(lvl); out.Phase != PhaseAiming || out.Ticks != 0 {
			t.Errorf("Restart from %s = %s, expected fresh aiming session", phase, out.Phase)
		}
	}
}

func TestAdvanceDoesNotMutateInput(t *testing.T) {
	lvl := builtinLevel(t, 1)
	start, _ := New(lvl).Launch(lvl.BallStart, core.V(167, 258))

	s := start
	for s.StarsCollected() == 0 && s.Phase == PhasePlaying {
		s, _ = Advance(s, lvl)
	}
	if s.StarsCollected() == 0 {
		t.Fatal("no star collected")
	}
	if start.StarsCollected() != 0 || start.Ticks != 0 {
		t.Errorf("Advance changed its input: %+v", start)
	}
}

func TestFrameCapsCatchUp(t *testing.T) {
	lvl := openLevel(100)
	loop := NewLoop(lvl)
	start := time.Unix(0, 0)

	loop.Frame(start)
	loop.Launch(lvl.BallStart, core.V(400, 200))

	// A one second stall runs only MaxStepsPerFrame steps.
	now := start.Add(time.Second)
	loop.Frame(now)
	if got := loop.Session().Ticks; got != MaxStepsPerFrame {
		t.Fatalf("Ticks after stall = %d, expected %d", got, MaxStepsPerFrame)
	}
	if math.Abs(loop.Session().Elapsed-1) > 1e-9 {
		t.Errorf("Elapsed = %f, expected 1", loop.Session().Elapsed)
	}

	// The rest of the stall is not made up later.
	loop.Frame(now.Add(StepDuration))
	if got := loop.Session().Ticks; got != MaxStepsPerFrame+1 {
		t.Errorf("Ticks after next frame = %d, expected %d", got, MaxStepsPerFrame+1)
	}

	// Half a step carries over to the next frame.
	now = now.Add(StepDuration)
	loop.Frame(now.Add(StepDuration / 2))
	loop.Frame(now.Add(StepDuration))
	if got := loop.Session().Ticks; got != MaxStepsPerFrame+2 {
		t.Errorf("Ticks after two half frames = %d, expected %d", got, MaxStepsPerFrame+2)
	}
}

func TestDeterminism(t *testing.T) {
	lvl := builtinLevel(t, 3)

	s1, ev1 := Simulate(lvl, core.V(12, 44), DefaultSimulationFrames)
	s2, ev2 := Simulate(lvl, core.V(12, 44), DefaultSimulationFrames)

	snap1, snap2 := s1.Snapshot(), s2.Snapshot()
	if snap1.Hash() != snap2.Hash() {
		t.Errorf("Determinism failed: hashes differ. Run1=%d, Run2=%d", snap1.Hash(), snap2.Hash())
	}
	if !slices.Equal(ev1, ev2) {
		t.Error("Determinism failed: event streams differ")
	}
}

func TestPreviewIsPure(t *testing.T) {
	lvl := builtinLevel(t, 2)
	s := New(lvl)
	before := s.Snapshot()

	p1 := s.Preview(lvl, core.V(-2, 330), physics.PreviewTicks)
	p2 := s.Preview(lvl, core.V(-2, 330), physics.PreviewTicks)

	if len(p1) == 0 || !slices.Equal(p1, p2) {
		t.Errorf("Preview not repeatable: %d vs %d points", len(p1), len(p2))
	}
	after := s.Snapshot()
	if before.Hash() != after.Hash() {
		t.Error("Preview changed the session")
	}
	if p := s.Preview(lvl, lvl.BallStart, physics.PreviewTicks); p != nil {
		t.Errorf("Preview of a zero drag = %v, expected nil", p)
	}
}

func TestPersistWinsLogsErrors(t *testing.T) {
	rec := &recorder{err: errors.New("disk full")}
	obs := PersistWins(rec, nil)

	obs.Observe(Event{Kind: EventWon, LevelID: 2, Stars: 1}, Session{})
	obs.Observe(Event{Kind: EventLost, LevelID: 2}, Session{})

	if len(rec.calls) != 1 || rec.calls[0].level != 2 {
		t.Errorf("calls = %+v, expected one win for level 2", rec.calls)
	}
}

func TestTickerScheduler(t *testing.T) {
	sched := NewTickerScheduler(500)
	var frames atomic.Int64

	sched.Start(func(time.Time) { frames.Add(1) })
	sched.Start(func(time.Time) { t.Error("second Start should be ignored") })

	deadline := time.Now().Add(2 * time.Second)
	for frames.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	sched.Stop()
	if frames.Load() < 3 {
		t.Fatalf("frames = %d, expected at least 3", frames.Load())
	}

	stopped := frames.Load()
	time.Sleep(20 * time.Millisecond)
	if frames.Load() != stopped {
		t.Error("frames delivered after Stop")
	}
	sched.Stop()
}
