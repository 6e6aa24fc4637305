package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

const helpMaxWidth = 72

// helpSection is one titled block of the overlay. Groups render as
// bubbles help columns; notes render as plain lines underneath.
type helpSection struct {
	title  string
	groups [][][]key.Binding
	notes  []string
	muted  bool
}

// HelpOverlay is the full-screen key reference opened with '?'.
type HelpOverlay struct {
	width, height int
	styles        *Styles
	model         help.Model
	sections      []helpSection
}

// NewHelpOverlay builds the overlay from the default key maps.
func NewHelpOverlay(styles *Styles) *HelpOverlay {
	global := DefaultGlobalKeyMap()
	taskGroups := DefaultTaskKeyMap().FullHelp()

	return &HelpOverlay{
		styles: styles,
		model:  help.New(),
		sections: []helpSection{
			{
				title: "Global",
				groups: [][][]key.Binding{{
					{global.NextPane, global.PrevPane, global.Undo},
					{global.Settings, global.Command, global.Help, global.Quit},
				}},
			},
			{
				title:  "Tasks",
				groups: [][][]key.Binding{taskGroups[:2], taskGroups[2:]},
				notes:  []string{"Shift+letter (or digit in number mode) sets the priority"},
				muted:  true,
			},
			{
				title:  "Stats & Tags",
				groups: [][][]key.Binding{DefaultPanelKeyMap().FullHelp()},
			},
			{
				title: "Commands",
				notes: []string{
					":w save  :q quit  :wq save and quit  :set settings",
					":sort <mode>  :filter +project|@context|(A)  :theme <name>",
				},
			},
		},
	}
}

// SetSize records the terminal size the overlay is centered in.
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the overlay centered on screen. Colors are read from the
// shared Styles on every call so theme switches apply immediately.
func (h *HelpOverlay) View() string {
	s := h.styles
	h.model.Styles.FullKey = lipgloss.NewStyle().Foreground(s.ColorWarning)
	h.model.Styles.FullDesc = lipgloss.NewStyle().Foreground(s.ColorText)
	h.model.Styles.FullSeparator = lipgloss.NewStyle().Foreground(s.ColorMuted)

	title := lipgloss.NewStyle().Bold(true).Foreground(s.ColorPrimary)
	heading := lipgloss.NewStyle().Bold(true).Foreground(s.ColorContext)
	muted := lipgloss.NewStyle().Foreground(s.ColorTextMuted).Italic(true)

	blocks := []string{title.Render("todo - Keyboard Shortcuts")}
	for _, sec := range h.sections {
		lines := []string{heading.Render(sec.title)}
		for i, g := range sec.groups {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, h.model.FullHelpView(g))
		}
		for _, note := range sec.notes {
			if sec.muted {
				lines = append(lines, muted.Render(note))
			} else {
				lines = append(lines, s.HelpStyle.Render(note))
			}
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	blocks = append(blocks, muted.Render("Press ? or Esc to close"))

	width := helpMaxWidth
	if h.width > 0 {
		width = min(helpMaxWidth, max(20, h.width-4))
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(1, 2).
		Width(width).
		Render(strings.Join(blocks, "\n\n"))

	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
}
