package ui

import (
	"fmt"
	"strings"

	"todo/internal/priority"
	"todo/internal/theme"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingsState int

const (
	settingsMenu settingsState = iota
	settingsTheme
	settingsConfirm
)

// settingsItems are the menu rows, in display order.
var settingsItems = []string{"priority", "theme"}

// settingsActionKind tells the App what a settings key press decided.
type settingsActionKind int

const (
	settingsNone settingsActionKind = iota
	settingsClose
	settingsSetTheme
	settingsSetMode
)

// settingsAction is the outcome of a key press on the settings screen.
type settingsAction struct {
	kind    settingsActionKind
	theme   string
	mode    priority.Mode
	convert bool
}

// SettingsOverlay edits the two persisted options: the priority mode and
// the color theme.
type SettingsOverlay struct {
	styles *Styles
	width  int
	height int

	state       settingsState
	menuIndex   int
	themeIndex  int
	pendingMode priority.Mode

	// Current values, refreshed by Open.
	mode           priority.Mode
	themeKey       string
	withPriorities int

	keys SettingsKeyMap
}

// NewSettingsOverlay creates a settings screen.
func NewSettingsOverlay(styles *Styles) *SettingsOverlay {
	return &SettingsOverlay{styles: styles, keys: DefaultSettingsKeyMap()}
}

// SetSize sets the overlay dimensions.
func (s *SettingsOverlay) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Open resets the screen to its menu with the current values. withPriorities
// is how many tasks carry a priority that switching modes could convert.
func (s *SettingsOverlay) Open(mode priority.Mode, themeKey string, withPriorities int) {
	s.state = settingsMenu
	s.menuIndex = 0
	s.pendingMode = ""
	s.mode = mode
	s.themeKey = themeKey
	s.withPriorities = withPriorities
}

// Update handles a key press and reports what the App should do.
func (s *SettingsOverlay) Update(msg tea.KeyMsg) settingsAction {
	switch s.state {
	case settingsConfirm:
		switch {
		case key.Matches(msg, s.keys.Yes):
			return s.finishMode(true)
		case key.Matches(msg, s.keys.No):
			return s.finishMode(false)
		case key.Matches(msg, s.keys.Back):
			s.state = settingsMenu
			s.pendingMode = ""
		}
		return settingsAction{}

	case settingsTheme:
		names := theme.Names()
		switch {
		case key.Matches(msg, s.keys.Up):
			s.themeIndex = max(0, s.themeIndex-1)
		case key.Matches(msg, s.keys.Down):
			s.themeIndex = min(len(names)-1, s.themeIndex+1)
		case key.Matches(msg, s.keys.Select):
			s.themeKey = names[s.themeIndex]
			s.state = settingsMenu
			return settingsAction{kind: settingsSetTheme, theme: s.themeKey}
		case key.Matches(msg, s.keys.Back):
			s.state = settingsMenu
		}
		return settingsAction{}
	}

	switch {
	case key.Matches(msg, s.keys.Close):
		return settingsAction{kind: settingsClose}
	case key.Matches(msg, s.keys.Up):
		s.menuIndex = max(0, s.menuIndex-1)
	case key.Matches(msg, s.keys.Down):
		s.menuIndex = min(len(settingsItems)-1, s.menuIndex+1)
	case key.Matches(msg, s.keys.Select):
		switch settingsItems[s.menuIndex] {
		case "priority":
			next := s.mode.Toggle()
			if s.withPriorities > 0 {
				s.pendingMode = next
				s.state = settingsConfirm
				return settingsAction{}
			}
			s.mode = next
			return settingsAction{kind: settingsSetMode, mode: next}
		case "theme":
			s.themeIndex = 0
			for i, name := range theme.Names() {
				if name == s.themeKey {
					s.themeIndex = i
				}
			}
			s.state = settingsTheme
		}
	}
	return settingsAction{}
}

func (s *SettingsOverlay) finishMode(convert bool) settingsAction {
	mode := s.pendingMode
	s.mode = mode
	s.pendingMode = ""
	s.state = settingsMenu
	return settingsAction{kind: settingsSetMode, mode: mode, convert: convert}
}

// View renders the settings screen.
func (s *SettingsOverlay) View() string {
	overlayWidth := 60
	if s.width > 0 {
		overlayWidth = min(60, max(20, s.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.styles.ColorBorder).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(s.styles.ColorPrimary)

	var b strings.Builder
	switch s.state {
	case settingsTheme:
		b.WriteString(titleStyle.Render("Settings › Theme"))
		b.WriteString("\n\n")
		for i, name := range theme.Names() {
			t := theme.Lookup(name)
			b.WriteString(s.row(i == s.themeIndex, fmt.Sprintf("%-14s", t.Name)+" "+swatches(t.Colors)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(s.styles.HelpStyle.Render("↑/↓ Navigate • Enter Select • ESC Back"))

	case settingsConfirm:
		b.WriteString(titleStyle.Render("Settings › Priority Mode"))
		b.WriteString("\n\n")
		label := "numbers to letters (0→A, 1→B, etc.)"
		if s.pendingMode == priority.Number {
			label = "letters to numbers (A→0, B→1, etc.)"
		}
		b.WriteString(s.styles.CursorStyle.Render(fmt.Sprintf("Convert %d priorities %s?", s.withPriorities, label)))
		b.WriteString("\n\n")
		b.WriteString(s.styles.HelpStyle.Render("Y - Convert existing priorities"))
		b.WriteString("\n")
		b.WriteString(s.styles.HelpStyle.Render("N - Keep existing values (just change mode)"))
		b.WriteString("\n")
		b.WriteString(s.styles.HelpStyle.Render("ESC - Cancel"))

	default:
		b.WriteString(titleStyle.Render("Settings"))
		b.WriteString("\n\n")
		modeLabel := "Letter (A-Z)"
		if s.mode == priority.Number {
			modeLabel = "Number (0-9)"
		}
		b.WriteString(s.row(s.menuIndex == 0, "Priority Mode: "+modeLabel))
		b.WriteString("\n")
		b.WriteString(s.row(s.menuIndex == 1, "Theme: "+theme.Lookup(s.themeKey).Name))
		b.WriteString("\n\n")
		b.WriteString(s.styles.HelpStyle.Render("↑/↓ Navigate • Enter Select • ESC/q Close"))
	}

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, content)
}

func (s *SettingsOverlay) row(selected bool, text string) string {
	if selected {
		return s.styles.CursorStyle.Render("> " + text)
	}
	return s.styles.TaskPendingStyle.Render("  " + text)
}

// swatches previews a palette: priorities, UI accents, tags and base colors.
func swatches(c theme.Colors) string {
	groups := [][]string{
		{c.PriorityHigh, c.PriorityMedium, c.PriorityLow},
		{c.Success, c.Highlight},
		{c.Project, c.Context, c.Date},
		{c.Text, c.Border},
	}
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		var sb strings.Builder
		for _, color := range g {
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●"))
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, " ")
}
