package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/level"
	"github.com/vovakirdan/tui-bounce/internal/session"
	"github.com/vovakirdan/tui-bounce/internal/storage"
)

var (
	flagSimTo       string
	flagSimFrames   int
	flagSimRecord   bool
	flagSimRealtime bool
	flagSimJSON     bool
	flagSimVerbose  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <level>",
	Short: "Run a launch without the TUI",
	Long: `Launch the ball from the level's start toward the --to point and play
the level out, then print the result.

By default the run uses a virtual clock and finishes instantly. With
--realtime it is driven by a wall-clock ticker at --fps, exactly like a live
game. With --record a win is saved like a played one.

Examples:
  bounce simulate 1 --to 167,258
  bounce simulate 1 --to 167,258 --realtime --verbose
  bounce simulate 2 --to -2,330 --json
  bounce simulate 1 --to 167,258 --record`,
	Args: cobra.ExactArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagSimTo, "to", "", "Drag release point x,y in canvas units (required)")
	simulateCmd.Flags().IntVar(&flagSimFrames, "max-frames", session.DefaultSimulationFrames, "Give up after this many frames")
	simulateCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Save a win to the progress database")
	simulateCmd.Flags().BoolVar(&flagSimRealtime, "realtime", false, "Drive frames from a wall-clock ticker")
	simulateCmd.Flags().BoolVar(&flagSimJSON, "json", false, "Print the result as JSON")
	simulateCmd.Flags().BoolVar(&flagSimVerbose, "verbose", false, "Print every event")
	_ = simulateCmd.MarkFlagRequired("to")
}

// simulationResult is the printed outcome of a run.
type simulationResult struct {
	Level   int             `json:"level"`
	Phase   session.Phase   `json:"phase"`
	Reason  string          `json:"reason,omitempty"`
	Ticks   int             `json:"ticks"`
	Bounces int             `json:"bounces"`
	Stars   int             `json:"stars"`
	Elapsed float64         `json:"elapsed"`
	Score   int             `json:"score"`
	Events  []session.Event `json:"events,omitempty"`
}

func runSimulate(cmd *cobra.Command, args []string) {
	cfg, err := loadSettings()
	if err != nil {
		fatal("%v", err)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fatal("level must be a number, got %q", args[0])
	}
	to, err := parsePoint(flagSimTo)
	if err != nil {
		fatal("--to: %v", err)
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		fatal("cannot load levels: %v", err)
	}
	lvl, err := catalog.Get(id)
	if err != nil {
		fatal("level %d: %v", id, err)
	}
	if _, ok := session.LaunchVelocity(lvl.BallStart, to); !ok {
		fatal("drag from %v to %v is too short to launch", lvl.BallStart, to)
	}

	logger, err := newLogger(os.Stderr, cfg, "bounce")
	if err != nil {
		fatal("%v", err)
	}
	observers := []session.Observer{session.LogEvents(logger)}

	var store *storage.Store
	if flagSimRecord {
		store, err = openStore(cfg)
		if err != nil {
			fatal("opening progress database: %v", err)
		}
		rec := storage.NewRecorder(store, catalog)
		if err := rec.CheckPlayable(id); err != nil {
			store.Close()
			fatal("level %d: %v", id, err)
		}
		observers = append(observers, session.PersistWins(rec, logger))
	}

	var final session.Session
	var events []session.Event
	if flagSimRealtime {
		final, events = simulateRealtime(lvl, to, cfg.Display.FPS, flagSimFrames, observers...)
	} else {
		final, events = session.Simulate(lvl, to, flagSimFrames, observers...)
	}
	if store != nil {
		store.Close()
	}

	res := simulationResult{
		Level:   lvl.ID,
		Phase:   final.Phase,
		Reason:  final.Reason.String(),
		Ticks:   final.Ticks,
		Bounces: final.Bounces,
		Stars:   final.StarsCollected(),
		Elapsed: final.Elapsed,
		Score:   final.Score.Total,
	}
	if flagSimVerbose || flagSimJSON {
		res.Events = events
	}
	printSimulation(res, final)
}

// simulateRealtime plays the launch on a TickerScheduler. Frames run on the
// scheduler's goroutine; this one only waits for the session to end.
func simulateRealtime(lvl *level.Level, to core.Vec2, fps, maxFrames int, observers ...session.Observer) (session.Session, []session.Event) {
	loop := session.NewLoop(lvl, observers...)
	var events []session.Event
	loop.Observe(session.ObserverFunc(func(ev session.Event, _ session.Session) {
		events = append(events, ev)
	}))

	loop.Frame(time.Now())
	if !loop.Launch(lvl.BallStart, to) {
		return loop.Session(), events
	}

	done := make(chan struct{})
	var once sync.Once
	frames := 0
	sched := session.NewTickerScheduler(fps)
	sched.Start(func(now time.Time) {
		loop.Frame(now)
		frames++
		if loop.Session().Phase.Terminal() || frames >= maxFrames {
			once.Do(func() { close(done) })
		}
	})
	<-done
	sched.Stop()

	return loop.Session(), events
}

func printSimulation(res simulationResult, final session.Session) {
	if flagSimJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fatal("encoding result: %v", err)
		}
		return
	}

	for _, ev := range res.Events {
		fmt.Printf("  tick %4d  %s\n", ev.Tick, ev.Kind)
	}
	if len(res.Events) > 0 {
		fmt.Println()
	}

	switch res.Phase {
	case session.PhaseWon:
		fmt.Printf("Level %d won in %.2fs (%d ticks)\n", res.Level, res.Elapsed, res.Ticks)
		fmt.Printf("  Stars    %d  +%d\n", res.Stars, final.Score.StarsBonus)
		fmt.Printf("  Bounces  %d  +%d\n", res.Bounces, final.Score.BounceEfficiency)
		fmt.Printf("  Time         +%d\n", final.Score.TimeBonus)
		fmt.Printf("  Total    %d\n", res.Score)
	case session.PhaseLost:
		fmt.Printf("Level %d lost: %s after %d ticks, %d bounces, %d stars\n",
			res.Level, res.Reason, res.Ticks, res.Bounces, res.Stars)
	default:
		fmt.Printf("Level %d still %s after %d ticks\n", res.Level, res.Phase, res.Ticks)
	}
}

// parsePoint parses "x,y".
func parsePoint(s string) (core.Vec2, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return core.Vec2{}, fmt.Errorf("want x,y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return core.Vec2{}, fmt.Errorf("bad x %q", xs)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return core.Vec2{}, fmt.Errorf("bad y %q", ys)
	}
	return core.V(x, y), nil
}
