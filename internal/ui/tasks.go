package ui

import (
	"fmt"
	"strings"
	"time"

	"todo/internal/taskstore"
	"todo/internal/todotxt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TaskPane renders the filtered and sorted view of the task store and owns
// the cursor over it.
type TaskPane struct {
	store   *taskstore.Store
	styles  *Styles
	cursor  int
	focused bool
	width   int
	height  int

	// selectedID keeps the cursor on the same task when the view reorders.
	selectedID int

	highlightOverdue bool

	keys TaskKeyMap
}

// NewTaskPane creates a task pane over store.
func NewTaskPane(store *taskstore.Store, styles *Styles) *TaskPane {
	return &TaskPane{
		store:            store,
		styles:           styles,
		focused:          true,
		highlightOverdue: true,
		keys:             DefaultTaskKeyMap(),
	}
}

// SetSize sets the pane dimensions.
func (p *TaskPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *TaskPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *TaskPane) IsFocused() bool {
	return p.focused
}

// ToggleOverdue flips overdue highlighting and returns the new setting.
func (p *TaskPane) ToggleOverdue() bool {
	p.highlightOverdue = !p.highlightOverdue
	return p.highlightOverdue
}

// Selected returns the task under the cursor.
func (p *TaskPane) Selected() (todotxt.Task, bool) {
	p.Sync()
	view := p.store.View()
	if len(view) == 0 {
		return todotxt.Task{}, false
	}
	return view[p.cursor], true
}

// Select moves the cursor to the task with id, if it is visible.
func (p *TaskPane) Select(id int) {
	p.selectedID = id
	p.Sync()
}

// Sync re-anchors the cursor after the view changed: it follows the
// selected task when still visible and otherwise stays in bounds.
func (p *TaskPane) Sync() {
	view := p.store.View()
	if len(view) == 0 {
		p.cursor = 0
		p.selectedID = 0
		return
	}
	for i, t := range view {
		if t.ID == p.selectedID {
			p.cursor = i
			return
		}
	}
	p.cursor = clamp(p.cursor, 0, len(view)-1)
	p.selectedID = view[p.cursor].ID
}

func (p *TaskPane) moveTo(idx int) {
	view := p.store.View()
	if len(view) == 0 {
		return
	}
	p.cursor = clamp(idx, 0, len(view)-1)
	p.selectedID = view[p.cursor].ID
}

// Update handles navigation and mouse input. Task mutations are left to the
// App, which owns persistence.
func (p *TaskPane) Update(msg tea.Msg) tea.Cmd {
	if !p.focused {
		return nil
	}
	p.Sync()

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Down):
			p.moveTo(p.cursor + 1)
		case key.Matches(msg, p.keys.Up):
			p.moveTo(p.cursor - 1)
		case key.Matches(msg, p.keys.Top):
			p.moveTo(0)
		case key.Matches(msg, p.keys.Bottom):
			p.moveTo(len(p.store.View()) - 1)
		}
	}
	return nil
}

// visibleRows is how many task rows fit under the title, separator and
// footer.
func (p *TaskPane) visibleRows() int {
	rows := p.height - 6
	if rows < 3 {
		rows = 5
	}
	return rows
}

func (p *TaskPane) windowStart() int {
	rows := p.visibleRows()
	if p.cursor >= rows {
		return p.cursor - rows + 1
	}
	return 0
}

// handleMouse processes mouse events for the task pane.
func (p *TaskPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	view := p.store.View()
	if len(view) == 0 {
		return nil
	}

	// Content starts after title (1) + separator (1) = row 2
	const headerRows = 2

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.moveTo(p.cursor - 1)
		return nil

	case tea.MouseButtonWheelDown:
		p.moveTo(p.cursor + 1)
		return nil

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}

		row := msg.Y - headerRows
		if row < 0 || row >= p.visibleRows() {
			return nil
		}
		idx := p.windowStart() + row
		if idx >= len(view) {
			return nil
		}
		p.moveTo(idx)

		// The checkbox sits in the first few columns: " (A) [ ]".
		if msg.X < 9 {
			id := view[idx].ID
			return func() tea.Msg { return toggleTaskMsg{id: id} }
		}
	}
	return nil
}

// Title describes the active filters: "Tasks (filters)", "All Tasks" or
// "Active Tasks".
func (p *TaskPane) Title() string {
	var parts []string
	if f := p.store.ActiveFilter(); f != nil {
		parts = append(parts, f.Label())
	}
	if s := p.store.Search(); s != "" {
		parts = append(parts, "/"+s)
	}
	switch {
	case len(parts) > 0:
		return "Tasks (" + strings.Join(parts, ", ") + ")"
	case p.store.ShowCompleted():
		return "All Tasks"
	}
	return "Active Tasks"
}

// View renders the task pane.
func (p *TaskPane) View() string {
	p.Sync()
	view := p.store.View()
	today := p.store.Today()

	var b strings.Builder

	title := p.styles.PaneTitleStyle.Render(p.Title())
	sortLabel := p.styles.StatLabelStyle.Render("sort: " + string(p.store.SortMode()))
	b.WriteString(title + "  " + sortLabel)
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	if len(view) == 0 {
		msg := "  No tasks yet. Press 'a' to add one."
		if p.store.Len() > 0 {
			msg = "  No matching tasks."
		}
		b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true).Render(msg))
		b.WriteString("\n")
	} else {
		start := p.windowStart()
		end := min(start+p.visibleRows(), len(view))
		for i := start; i < end; i++ {
			b.WriteString(p.renderRow(view[i], i == p.cursor && p.focused, today))
			b.WriteString("\n")
		}

		doneCount := 0
		for _, t := range view {
			if t.Completed {
				doneCount++
			}
		}
		b.WriteString("\n")
		stats := p.styles.StatLabelStyle.Render(fmt.Sprintf("%d/%d complete", doneCount, len(view)))
		b.WriteString("  " + stats)
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

// renderRow lays out one task: priority badge, checkbox, text and a compact
// due indicator aligned to the right.
func (p *TaskPane) renderRow(task todotxt.Task, selected bool, today string) string {
	badge := p.formatPriorityBadge(task.Priority)

	checkbox := p.styles.TaskCheckboxPending
	if task.Completed {
		checkbox = p.styles.TaskCheckboxDone
	}

	due := p.formatDueDate(task, today)
	dueWidth := lipgloss.Width(due)

	// Layout: [space][badge 3][space][checkbox 3][space][text][pad][due]
	fixedWidth := 9
	if dueWidth > 0 {
		fixedWidth += dueWidth + 1
	}
	available := p.width - 4 - fixedWidth
	if available < 5 {
		available = 5
	}

	text := runewidth.Truncate(task.Text, available, "..")
	textWidth := runewidth.StringWidth(text)

	var styled string
	switch {
	case selected:
		styled = text
	case task.Completed:
		styled = p.styles.TaskDoneStyle.Render(text)
	case p.highlightOverdue && task.IsOverdue(today):
		styled = p.styles.TaskOverdueStyle.Render(text)
	default:
		styled = p.renderTokens(text)
	}

	line := fmt.Sprintf("%s %s %s", badge, checkbox, styled)
	if dueWidth > 0 {
		line += strings.Repeat(" ", max(1, available-textWidth)) + due
	}
	if selected {
		return p.styles.TaskSelectedStyle.Render(" " + line + " ")
	}
	return " " + line
}

// renderTokens colors +project and @context tokens.
func (p *TaskPane) renderTokens(text string) string {
	words := strings.Split(text, " ")
	for i, w := range words {
		switch {
		case len(w) > 1 && w[0] == '+':
			words[i] = p.styles.ProjectStyle.Render(w)
		case len(w) > 1 && w[0] == '@':
			words[i] = p.styles.ContextStyle.Render(w)
		default:
			words[i] = p.styles.TaskPendingStyle.Render(w)
		}
	}
	return strings.Join(words, " ")
}

// formatPriorityBadge returns a styled "(X)" badge, or blanks for alignment.
func (p *TaskPane) formatPriorityBadge(pri string) string {
	if pri == "" {
		return "   "
	}
	return p.styles.PriorityStyle(pri).Render("(" + pri + ")")
}

// formatDueDate returns a compact, styled due date indicator.
// Returns empty string if no due date, otherwise: "!" (overdue), "T" (today),
// "+1" (tomorrow), "3d" (days), "2w" (weeks), ">1m" (over a month).
func (p *TaskPane) formatDueDate(task todotxt.Task, today string) string {
	dueStr, ok := task.Due()
	if !ok || task.Completed {
		return ""
	}
	due, err := time.Parse(todotxt.DateLayout, dueStr)
	if err != nil {
		return ""
	}
	now, err := time.Parse(todotxt.DateLayout, today)
	if err != nil {
		return ""
	}

	days := int(due.Sub(now).Hours() / 24)

	switch {
	case days < 0:
		return p.styles.DueDateOverdueStyle.Render("!")
	case days == 0:
		return p.styles.DueDateTodayStyle.Render("T")
	case days == 1:
		return p.styles.DueDateFutureStyle.Render("+1")
	case days <= 7:
		return p.styles.DueDateFutureStyle.Render(fmt.Sprintf("%dd", days))
	case days <= 30:
		return p.styles.DueDateFutureStyle.Render(fmt.Sprintf("%dw", days/7))
	default:
		return p.styles.DueDateFutureStyle.Render(">1m")
	}
}

// Stats returns how many visible tasks are done out of all visible tasks.
func (p *TaskPane) Stats() (done, total int) {
	for _, task := range p.store.View() {
		if task.Completed {
			done++
		}
	}
	return done, len(p.store.View())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// truncateText shortens text to maxLen display cells.
func truncateText(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxLen, "..")
}
