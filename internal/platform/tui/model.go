package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/game"
	"github.com/vovakirdan/tui-bounce/internal/level"
	"github.com/vovakirdan/tui-bounce/internal/session"
	"github.com/vovakirdan/tui-bounce/internal/storage"
)

// Options wires the frontend to the rest of the application.
type Options struct {
	Catalog *level.Catalog
	Store   *storage.Store // nil plays without saving progress
	Logger  *log.Logger    // nil disables logging

	Game          game.Options // aim step and preview length
	Mouse         bool         // mouse drag aiming
	StartLevel    int          // open this level directly, 0 shows the picker
	ScreenshotDir string       // defaults to ~/.bounce/screenshots
	NoScreenshots bool         // ignore ctrl+s
}

type view int

const (
	viewMenu view = iota
	viewGame
	viewScores
)

// Model is the Bubble Tea model for a whole bounce session: level picker,
// level play and scoreboard. While a level is open the model is the frame
// scheduler: every tick runs one frame and arms the next tick. Leaving the
// level stops re-arming, which unsubscribes the frame callback.
type Model struct {
	opts     Options
	recorder *storage.Recorder
	config   core.RuntimeConfig
	keys     *KeyMapper

	view   view
	menu   MenuModel
	scores ScoreboardModel

	game       *game.Game
	screen     *core.Screen
	inputFrame core.InputFrame
	tickGen    int

	initCmd  tea.Cmd
	quitting bool
}

// NewModel creates the model. cfg carries the initial terminal size and the
// display refresh rate.
func NewModel(opts Options, cfg core.RuntimeConfig) Model {
	m := Model{
		opts:       opts,
		config:     cfg,
		keys:       NewKeyMapper(),
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		inputFrame: core.NewInputFrame(),
	}
	if opts.Store != nil {
		m.recorder = storage.NewRecorder(opts.Store, opts.Catalog)
	}
	m.menu = NewMenuModel(m.statuses(), cfg.ScreenW, cfg.ScreenH)

	if opts.StartLevel != 0 {
		if started, tick, ok := m.startLevel(opts.StartLevel); ok {
			m = started
			m.initCmd = tick
		}
	}
	return m
}

// statuses lists the levels for the picker. Without a store every level is
// playable, since nothing could ever be unlocked.
func (m Model) statuses() []storage.LevelStatus {
	if m.recorder != nil {
		st, err := m.recorder.Statuses()
		if err == nil {
			return st
		}
		m.logger().Warn("cannot load progress", "err", err)
	}
	levels := m.opts.Catalog.All()
	st := make([]storage.LevelStatus, len(levels))
	for i := range levels {
		st[i] = storage.LevelStatus{
			Level:    &levels[i],
			Progress: storage.Progress{LevelID: levels[i].ID},
			Unlocked: true,
		}
	}
	return st
}

func (m Model) logger() *log.Logger {
	if m.opts.Logger == nil {
		return log.New(io.Discard)
	}
	return m.opts.Logger
}

// Init starts the tick chain when the model opened a level directly.
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(msg)

	case tea.MouseMsg:
		if m.view == viewGame && m.opts.Mouse {
			if ev, ok := m.keys.MapMouse(msg); ok {
				m.inputFrame.AddPointer(ev)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			m.saveScreenshot()
			return m, nil
		}
		switch m.view {
		case viewGame:
			return m.handleGameKey(msg)
		case viewScores:
			return m.updateScores(msg)
		default:
			return m.updateMenu(msg)
		}
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	if m.game != nil {
		m.game.Resize(msg.Width, msg.Height)
	}

	menu, _ := m.menu.Update(msg)
	m.menu = menu.(MenuModel)
	if m.view == viewScores {
		scores, _ := m.scores.Update(msg)
		m.scores = scores.(ScoreboardModel)
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	menu, cmd := m.menu.Update(msg)
	m.menu = menu.(MenuModel)

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.menu.WantsScoreboard() {
		m.view = viewScores
		m.scores = NewScoreboardModel(m.opts.Catalog, m.opts.Store, m.config.ScreenW, m.config.ScreenH)
		return m, nil
	}
	if id, ok := m.menu.Selected(); ok {
		if next, tick, started := m.startLevel(id); started {
			return next, tick
		}
		m.menu = NewMenuModel(m.statuses(), m.config.ScreenW, m.config.ScreenH)
	}
	return m, cmd
}

func (m Model) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	scores, cmd := m.scores.Update(msg)
	m.scores = scores.(ScoreboardModel)

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		return m.showMenu(), nil
	}
	return m, cmd
}

func (m Model) showMenu() Model {
	m.view = viewMenu
	m.game = nil
	m.tickGen++
	m.inputFrame.Clear()
	m.menu = NewMenuModel(m.statuses(), m.config.ScreenW, m.config.ScreenH)
	return m
}

// startLevel opens a level and starts its tick chain. Locked or unknown
// levels are refused.
func (m Model) startLevel(id int) (Model, tea.Cmd, bool) {
	lvl, err := m.opts.Catalog.Get(id)
	if err == nil && m.recorder != nil {
		err = m.recorder.CheckPlayable(id)
	}
	if err != nil {
		m.logger().Warn("cannot start level", "level", id, "err", err)
		return m, nil, false
	}

	observers := []session.Observer{session.LogEvents(m.logger())}
	if m.recorder != nil {
		observers = append(observers, session.PersistWins(m.recorder, m.logger()))
	}

	opts := m.opts.Game
	_, opts.HasNext = m.opts.Catalog.Next(id)
	m.game = game.New(lvl, m.config, opts, observers...)
	m.view = viewGame
	m.inputFrame.Clear()
	m.tickGen++
	m.logger().Info("level started", "level", id, "name", lvl.Name)
	return m, tickCmd(m.config.TickRate, m.tickGen), true
}

// handleGameKey processes keyboard input while a level is open.
func (m Model) handleGameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if action == core.ActionBack {
		return m.showMenu(), nil
	}
	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleTick runs one frame of the open level.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if m.view != viewGame || m.game == nil || msg.Gen != m.tickGen {
		return m, nil
	}

	m.game.Step(m.inputFrame, msg.Time)
	m.inputFrame.Clear()

	if m.game.WantsNext() {
		if next, ok := m.opts.Catalog.Next(m.game.Level().ID); ok {
			if started, tick, ok := m.startLevel(next.ID); ok {
				return started, tick
			}
		}
	}

	return m, tickCmd(m.config.TickRate, m.tickGen)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	if m.game == nil || m.opts.NoScreenshots {
		return
	}
	m.game.Render(m.screen)

	dir := m.opts.ScreenshotDir
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".bounce", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger().Warn("cannot save screenshot", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("level%02d_%s.txt", m.game.Level().ID, timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger().Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger().Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewGame:
		m.game.Render(m.screen)
		return RenderScreen(m.screen)
	case viewScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// InGame reports whether a level is open.
func (m Model) InGame() bool {
	return m.view == viewGame
}

// Game returns the open level's game, or nil.
func (m Model) Game() *game.Game {
	return m.game
}

// Run starts the Bubble Tea program on the local terminal.
func Run(opts Options, cfg core.RuntimeConfig) error {
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	_, err := tea.NewProgram(NewModel(opts, cfg), programOpts...).Run()
	return err
}
