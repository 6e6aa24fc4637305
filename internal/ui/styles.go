package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/priority"
	"todo/internal/theme"
)

// Styles holds all application styles, built from one color theme.
type Styles struct {
	Theme theme.Theme

	ColorPrimary   lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorBorder    lipgloss.Color
	ColorContext   lipgloss.Color
	ColorBg        lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color

	TitleStyle       lipgloss.Style
	DateStyle        lipgloss.Style
	PaneStyle        lipgloss.Style
	PaneFocusedStyle lipgloss.Style
	PaneTitleStyle   lipgloss.Style

	TaskDoneStyle       lipgloss.Style
	TaskPendingStyle    lipgloss.Style
	TaskSelectedStyle   lipgloss.Style
	TaskOverdueStyle    lipgloss.Style
	TaskCheckboxDone    string
	TaskCheckboxPending string

	DueDateOverdueStyle lipgloss.Style
	DueDateTodayStyle   lipgloss.Style
	DueDateFutureStyle  lipgloss.Style

	ProjectStyle lipgloss.Style
	ContextStyle lipgloss.Style
	CursorStyle  lipgloss.Style

	HelpStyle   lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style

	InputPromptStyle lipgloss.Style
	InputTextStyle   lipgloss.Style

	StatLabelStyle lipgloss.Style
	StatValueStyle lipgloss.Style

	priorityHigh   lipgloss.Style
	priorityMedium lipgloss.Style
	priorityLow    lipgloss.Style
	helpKey        lipgloss.Style
}

// NewStyles creates a Styles instance for the theme registered under key.
// Unknown keys fall back to the default theme.
func NewStyles(key string) *Styles {
	return NewStylesFromTheme(theme.Lookup(key))
}

// NewStylesFromTheme derives every component style from the theme palette.
func NewStylesFromTheme(th theme.Theme) *Styles {
	c := th.Colors
	fg := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	pane := func(border string) lipgloss.Style {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(border)).
			Padding(0, 1)
	}

	return &Styles{
		Theme: th,

		ColorPrimary:   lipgloss.Color(c.Highlight),
		ColorMuted:     lipgloss.Color(c.Muted),
		ColorDanger:    lipgloss.Color(c.Overdue),
		ColorWarning:   lipgloss.Color(c.PriorityMedium),
		ColorBorder:    lipgloss.Color(c.Border),
		ColorContext:   lipgloss.Color(c.Context),
		ColorBg:        lipgloss.Color(c.Background),
		ColorText:      lipgloss.Color(c.Text),
		ColorTextMuted: lipgloss.Color(c.TextDim),

		TitleStyle: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(c.Background)).
			Background(lipgloss.Color(c.Highlight)).
			Padding(0, 1),
		DateStyle:        fg(c.TextDim),
		PaneStyle:        pane(c.Border),
		PaneFocusedStyle: pane(c.Highlight),
		PaneTitleStyle:   fg(c.Highlight).Bold(true),

		TaskDoneStyle:    fg(c.TextDim).Strikethrough(true),
		TaskPendingStyle: fg(c.Text),
		TaskSelectedStyle: fg(c.Text).Bold(true).
			Background(lipgloss.Color(c.Selection)),
		TaskOverdueStyle:    fg(c.Overdue),
		TaskCheckboxDone:    fg(c.Success).Render("[✓]"),
		TaskCheckboxPending: fg(c.Muted).Render("[ ]"),

		DueDateOverdueStyle: fg(c.Overdue).Bold(true),
		DueDateTodayStyle:   fg(c.PriorityMedium),
		DueDateFutureStyle:  fg(c.Date),

		ProjectStyle: fg(c.Project),
		ContextStyle: fg(c.Context),
		CursorStyle:  fg(c.Highlight).Bold(true),

		HelpStyle:   fg(c.TextDim),
		StatusStyle: fg(c.Success).Italic(true),
		ErrorStyle:  fg(c.Overdue).Bold(true),

		InputPromptStyle: fg(c.Highlight).Bold(true),
		InputTextStyle:   fg(c.Text),

		StatLabelStyle: fg(c.TextDim),
		StatValueStyle: fg(c.Text).Bold(true),

		priorityHigh:   fg(c.PriorityHigh).Bold(true),
		priorityMedium: fg(c.PriorityMedium),
		priorityLow:    fg(c.PriorityLow),
		helpKey:        fg(c.Highlight).Bold(true),
	}
}

// PriorityStyle picks the badge style for a priority: A-C or 0-2 high,
// D-F or 3-5 medium, everything else low.
func (s *Styles) PriorityStyle(p string) lipgloss.Style {
	if p == "" {
		return s.priorityLow
	}
	switch rank := priority.Rank(p); {
	case rank <= 2:
		return s.priorityHigh
	case rank <= 5:
		return s.priorityMedium
	}
	return s.priorityLow
}

// RenderHelp renders key/description pairs as "[key] desc".
func (s *Styles) RenderHelp(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.helpKey.Render("["+pairs[i]+"]")+" "+s.HelpStyle.Render(pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}
