package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-bounce/internal/config"
	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/game"
	"github.com/vovakirdan/tui-bounce/internal/platform/tui"
)

var (
	flagNoMouse   bool
	flagNoSave    bool
	flagShotsDir  string
	flagNoPreview bool
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play the game",
	Long: `Open the level picker, or start the given level directly.

Controls:
  Arrows/WASD   - Move the aim point
  Mouse drag    - Aim; release to launch
  Space         - Launch
  P             - Pause
  R             - Restart the level
  Enter         - Next level (after a win)
  B/Esc         - Back to the level picker
  Ctrl+S        - Save a screenshot
  Q/Ctrl+C      - Quit

Difficulty options:
  easy   - Long aim preview
  normal - Standard aim preview
  hard   - Short aim preview

Examples:
  bounce play
  bounce play 2
  bounce play --difficulty hard
  bounce play --levels ./my-levels`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNoMouse, "no-mouse", false, "Disable mouse aiming")
	playCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Play without reading or saving progress")
	playCmd.Flags().StringVar(&flagShotsDir, "screenshots", "", "Screenshot directory (default: ~/.bounce/screenshots)")
	playCmd.Flags().BoolVar(&flagNoPreview, "no-preview", false, "Hide the aim preview")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := loadSettings()
	if err != nil {
		fatal("%v", err)
	}

	startLevel := 0
	if len(args) == 1 {
		startLevel, err = strconv.Atoi(args[0])
		if err != nil {
			fatal("level must be a number, got %q", args[0])
		}
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		fatal("cannot load levels: %v", err)
	}
	if startLevel != 0 {
		if _, err := catalog.Get(startLevel); err != nil {
			fatal("level %d: %v\nRun 'bounce levels' to see available levels.", startLevel, err)
		}
	}

	logFile, err := openLogFile(cfg)
	if err != nil {
		fatal("%v", err)
	}
	defer logFile.Close()
	logger, err := newLogger(logFile, cfg, "bounce")
	if err != nil {
		fatal("%v", err)
	}

	// Get terminal size early so the first frame fits
	rc := core.DefaultConfig()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}
	rc.TickRate = cfg.Display.FPS

	previewTicks := config.PreviewTicksForPreset(cfg.Difficulty)
	if flagNoPreview {
		previewTicks = 0
	}
	opts := tui.Options{
		Catalog: catalog,
		Logger:  logger,
		Game: game.Options{
			AimStep:      cfg.Display.AimStep,
			PreviewTicks: previewTicks,
		},
		Mouse:         cfg.Display.Mouse && !flagNoMouse,
		StartLevel:    startLevel,
		ScreenshotDir: flagShotsDir,
	}

	if !flagNoSave {
		store, storeErr := openStore(cfg)
		if storeErr != nil {
			// Continue without storage - the game still works
			logger.Warn("could not open progress database", "err", storeErr)
		} else {
			opts.Store = store
		}
	}

	runErr := tui.Run(opts, rc)

	// Close store before potential exit
	if opts.Store != nil {
		opts.Store.Close()
	}

	if runErr != nil {
		logFile.Close()
		fatal("running game: %v", runErr)
	}
}
