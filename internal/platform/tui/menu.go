package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-bounce/internal/storage"
)

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuLockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuStarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	menuNoticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	menuHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the level picker. Locked levels are
// listed but cannot be started.
type MenuModel struct {
	items          []storage.LevelStatus
	cursor         int
	width          int
	height         int
	keyMapper      *KeyMapper
	notice         string
	quitting       bool
	selected       int  // level ID chosen by the player, 0 if none
	openScoreboard bool // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a level picker with the cursor on the first
// unlocked level that has not been completed yet.
func NewMenuModel(items []storage.LevelStatus, width, height int) MenuModel {
	cursor := 0
	for i, it := range items {
		if it.Unlocked && !it.Progress.Completed {
			cursor = i
			break
		}
	}
	return MenuModel{
		items:     items,
		cursor:    cursor,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		it := m.items[m.cursor]
		if !it.Unlocked {
			m.notice = "Locked: clear the previous level first"
			return m, nil
		}
		m.selected = it.Level.ID

	case MenuActionScoreboard:
		m.openScoreboard = true
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  B O U N C E  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a level", m.width))
	b.WriteString("\n\n")

	for i, it := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%2d. %-20s", cursor, it.Level.ID, it.Level.Name)
		switch {
		case !it.Unlocked:
			line = menuLockedStyle.Render(line + "  [locked]")
		case it.Progress.Completed:
			stars := strings.Repeat("★", it.Progress.BestStars) + strings.Repeat("☆", 3-it.Progress.BestStars)
			line += "  " + menuStarStyle.Render(stars) + fmt.Sprintf("  %5d", it.Progress.BestScore)
		default:
			line += "  ☆☆☆      -"
		}
		if i == m.cursor && it.Unlocked {
			line = menuCursorStyle.Render(line)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(centerText(menuNoticeStyle.Render(m.notice), m.width))
	}
	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(menuHelpStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen level ID and whether a level was chosen.
func (m MenuModel) Selected() (int, bool) {
	return m.selected, m.selected != 0
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
