package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// promptMode says what a submitted prompt line means.
type promptMode int

const (
	promptNone promptMode = iota
	promptAdd
	promptEdit
	promptSearch
	promptPriority
	promptCommand
)

// Prompt is the single-line input shown under the panes while adding,
// editing, searching, setting a priority or typing a ":" command.
type Prompt struct {
	mode   promptMode
	taskID int
	input  textinput.Model
	styles *Styles
}

// NewPrompt creates an inactive prompt.
func NewPrompt(styles *Styles) *Prompt {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 500
	ti.Width = 40
	return &Prompt{input: ti, styles: styles}
}

// Open activates the prompt in mode, pre-filled with value. taskID names the
// task an edit or priority prompt applies to.
func (p *Prompt) Open(mode promptMode, value string, taskID int) tea.Cmd {
	p.mode = mode
	p.taskID = taskID
	p.input.Reset()
	p.input.Placeholder = placeholderFor(mode)
	p.input.SetValue(value)
	p.input.CursorEnd()
	p.input.Focus()
	return textinput.Blink
}

// Close deactivates the prompt.
func (p *Prompt) Close() {
	p.mode = promptNone
	p.taskID = 0
	p.input.Blur()
	p.input.Reset()
}

// Active reports whether the prompt is taking input.
func (p *Prompt) Active() bool {
	return p.mode != promptNone
}

// Mode returns the current prompt mode.
func (p *Prompt) Mode() promptMode {
	return p.mode
}

// TaskID returns the task an edit or priority prompt applies to.
func (p *Prompt) TaskID() int {
	return p.taskID
}

// SetTaskID points an open edit or priority prompt at another task.
func (p *Prompt) SetTaskID(id int) {
	p.taskID = id
}

// Value returns the typed text.
func (p *Prompt) Value() string {
	return p.input.Value()
}

// SetWidth sets the visible input width.
func (p *Prompt) SetWidth(width int) {
	p.input.Width = max(10, width-12)
}

// Update forwards input to the text field.
func (p *Prompt) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// View renders the prompt line.
func (p *Prompt) View() string {
	if !p.Active() {
		return ""
	}
	p.input.TextStyle = p.styles.InputTextStyle
	return p.styles.InputPromptStyle.Render(labelFor(p.mode)) + p.input.View()
}

func labelFor(mode promptMode) string {
	switch mode {
	case promptAdd:
		return "Add: "
	case promptEdit:
		return "Edit: "
	case promptSearch:
		return "Search: "
	case promptPriority:
		return "Priority: "
	case promptCommand:
		return ":"
	}
	return ""
}

func placeholderFor(mode promptMode) string {
	switch mode {
	case promptAdd:
		return "(A) Call Mom +Family @phone due:2025-01-31"
	case promptSearch:
		return "text, project or context"
	case promptPriority:
		return "letter or digit, empty to clear"
	case promptCommand:
		return "w, q, wq, set, help"
	}
	return ""
}
