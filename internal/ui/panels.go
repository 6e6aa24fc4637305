package ui

import (
	"fmt"
	"strings"

	"todo/internal/reports"
	"todo/internal/taskstore"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxRecent bounds the command history shown in the stats pane.
const maxRecent = 8

// =============================================================================
// Stats Pane
// =============================================================================

// statRows are the selectable lines of the stats pane, in display order.
var statRows = []taskstore.FilterType{
	taskstore.FilterDue,
	taskstore.FilterDoneToday,
	taskstore.FilterActive,
}

// StatsPane shows the day's counters and the recent command history.
// Selecting a counter filters the task list to the tasks it counts.
type StatsPane struct {
	store   *taskstore.Store
	styles  *Styles
	cursor  int
	focused bool
	width   int
	height  int
	recent  []string

	keys PanelKeyMap
}

// NewStatsPane creates a stats pane over store.
func NewStatsPane(store *taskstore.Store, styles *Styles) *StatsPane {
	return &StatsPane{
		store:  store,
		styles: styles,
		keys:   DefaultPanelKeyMap(),
	}
}

// SetSize sets the pane dimensions.
func (p *StatsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *StatsPane) SetFocused(focused bool) {
	p.focused = focused
}

// Record adds an entry to the command history, newest first.
func (p *StatsPane) Record(entry string) {
	p.recent = append([]string{entry}, p.recent...)
	if len(p.recent) > maxRecent {
		p.recent = p.recent[:maxRecent]
	}
}

// Recent returns the command history, newest first.
func (p *StatsPane) Recent() []string {
	return p.recent
}

// Summary computes the counters for today.
func (p *StatsPane) Summary() reports.Summary {
	return reports.Summarize(p.store.Tasks(), p.store.Today(), p.store.PriorityMode())
}

// Filter returns the filter for the selected counter.
func (p *StatsPane) Filter() *taskstore.Filter {
	return &taskstore.Filter{Type: statRows[p.cursor]}
}

// Update handles navigation for the stats pane.
func (p *StatsPane) Update(msg tea.Msg) tea.Cmd {
	if !p.focused {
		return nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Down):
			p.cursor = min(p.cursor+1, len(statRows)-1)
		case key.Matches(msg, p.keys.Up):
			p.cursor = max(p.cursor-1, 0)
		case key.Matches(msg, p.keys.Top):
			p.cursor = 0
		case key.Matches(msg, p.keys.Bottom):
			p.cursor = len(statRows) - 1
		}
	case tea.MouseMsg:
		// Rows start after title (1) + separator (1).
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
			if row := msg.Y - 2; row >= 0 && row < len(statRows) {
				p.cursor = row
			}
		}
	}
	return nil
}

// View renders the stats pane.
func (p *StatsPane) View() string {
	sum := p.Summary()
	active := p.store.ActiveFilter()

	var b strings.Builder
	b.WriteString(p.styles.PaneTitleStyle.Render("Stats"))
	b.WriteString("\n")
	b.WriteString(separator(p.styles, p.width))
	b.WriteString("\n")

	values := []string{
		fmt.Sprintf("%d", sum.DueOrOverdue()),
		fmt.Sprintf("%d", sum.DoneToday),
		fmt.Sprintf("%d/%d", sum.Active, sum.Total),
	}
	labels := []string{"DUE/OVERDUE", "DONE TODAY", "ACTIVE"}
	for i, label := range labels {
		marker := "  "
		if i == p.cursor && p.focused {
			marker = p.styles.CursorStyle.Render("> ")
		} else if active != nil && active.Type == statRows[i] {
			marker = p.styles.CursorStyle.Render("* ")
		}
		b.WriteString(marker + p.styles.StatLabelStyle.Render(label+": ") + p.styles.StatValueStyle.Render(values[i]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.styles.StatLabelStyle.Render("Mode: " + string(p.store.PriorityMode())))
	b.WriteString("\n\n")

	b.WriteString(p.styles.PaneTitleStyle.Render("History"))
	b.WriteString("\n")
	if len(p.recent) == 0 {
		b.WriteString(p.styles.HelpStyle.Italic(true).Render("  No commands yet"))
		b.WriteString("\n")
	}
	for _, entry := range p.recent {
		b.WriteString("  " + p.styles.HelpStyle.Render(truncateText(entry, max(5, p.width-8))))
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

// =============================================================================
// Tags Pane
// =============================================================================

// tagItem is one selectable project or context.
type tagItem struct {
	filter taskstore.FilterType
	name   string
}

// TagsPane lists the distinct projects and contexts. Selecting one filters
// the task list to it.
type TagsPane struct {
	store   *taskstore.Store
	styles  *Styles
	cursor  int
	focused bool
	width   int
	height  int

	keys PanelKeyMap
}

// NewTagsPane creates a tags pane over store.
func NewTagsPane(store *taskstore.Store, styles *Styles) *TagsPane {
	return &TagsPane{
		store:  store,
		styles: styles,
		keys:   DefaultPanelKeyMap(),
	}
}

// SetSize sets the pane dimensions.
func (p *TagsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *TagsPane) SetFocused(focused bool) {
	p.focused = focused
}

func (p *TagsPane) items() []tagItem {
	var items []tagItem
	for _, name := range p.store.Projects() {
		items = append(items, tagItem{filter: taskstore.FilterProject, name: name})
	}
	for _, name := range p.store.Contexts() {
		items = append(items, tagItem{filter: taskstore.FilterContext, name: name})
	}
	return items
}

// Filter returns the filter for the selected tag, or nil when there are no
// tags.
func (p *TagsPane) Filter() *taskstore.Filter {
	items := p.items()
	if len(items) == 0 {
		return nil
	}
	item := items[clamp(p.cursor, 0, len(items)-1)]
	return &taskstore.Filter{Type: item.filter, Value: item.name}
}

// Update handles navigation for the tags pane.
func (p *TagsPane) Update(msg tea.Msg) tea.Cmd {
	if !p.focused {
		return nil
	}
	n := len(p.items())
	if n == 0 {
		p.cursor = 0
		return nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Down):
			p.cursor = min(p.cursor+1, n-1)
		case key.Matches(msg, p.keys.Up):
			p.cursor = max(p.cursor-1, 0)
		case key.Matches(msg, p.keys.Top):
			p.cursor = 0
		case key.Matches(msg, p.keys.Bottom):
			p.cursor = n - 1
		}
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			p.cursor = max(p.cursor-1, 0)
		case tea.MouseButtonWheelDown:
			p.cursor = min(p.cursor+1, n-1)
		}
	}
	return nil
}

// View renders the tags pane.
func (p *TagsPane) View() string {
	items := p.items()
	if len(items) > 0 {
		p.cursor = clamp(p.cursor, 0, len(items)-1)
	}
	active := p.store.ActiveFilter()

	var b strings.Builder
	b.WriteString(p.styles.PaneTitleStyle.Render("Tags"))
	b.WriteString("\n")
	b.WriteString(separator(p.styles, p.width))
	b.WriteString("\n")

	sections := []struct {
		title  string
		filter taskstore.FilterType
		prefix string
		style  lipgloss.Style
		empty  string
	}{
		{"Projects", taskstore.FilterProject, "+", p.styles.ProjectStyle, "No projects"},
		{"Contexts", taskstore.FilterContext, "@", p.styles.ContextStyle, "No contexts"},
	}

	for si, sec := range sections {
		if si > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.styles.StatLabelStyle.Render(sec.title))
		b.WriteString("\n")

		found := false
		for i, item := range items {
			if item.filter != sec.filter {
				continue
			}
			found = true
			marker := "  "
			if i == p.cursor && p.focused {
				marker = p.styles.CursorStyle.Render("> ")
			} else if active != nil && active.Type == item.filter && active.Value == item.name {
				marker = p.styles.CursorStyle.Render("* ")
			}
			label := truncateText(sec.prefix+item.name, max(5, p.width-8))
			b.WriteString(marker + sec.style.Render(label))
			b.WriteString("\n")
		}
		if !found {
			b.WriteString(p.styles.HelpStyle.Italic(true).Render("  " + sec.empty))
			b.WriteString("\n")
		}
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

func separator(styles *Styles, width int) string {
	w := width - 4
	if w < 10 {
		w = 10
	}
	return lipgloss.NewStyle().Foreground(styles.ColorMuted).Render(strings.Repeat("─", w))
}
