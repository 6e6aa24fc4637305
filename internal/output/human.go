package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"todo/internal/theme"
	"todo/internal/todotxt"
)

// HumanFormatter formats output for terminal display using a color theme.
type HumanFormatter struct {
	colors theme.Colors

	dim      lipgloss.Style
	bold     lipgloss.Style
	success  lipgloss.Style
	errStyle lipgloss.Style
	warning  lipgloss.Style
	project  lipgloss.Style
	context  lipgloss.Style
	metaKey  lipgloss.Style
	done     lipgloss.Style
	r        *lipgloss.Renderer
}

// NewHumanFormatter creates a HumanFormatter writing for w. A nil writer
// renders without color.
func NewHumanFormatter(w io.Writer, th theme.Theme) *HumanFormatter {
	var r *lipgloss.Renderer
	if w == nil {
		r = lipgloss.NewRenderer(io.Discard)
		r.SetColorProfile(termenv.Ascii)
	} else {
		r = lipgloss.NewRenderer(w)
	}
	c := th.Colors
	return &HumanFormatter{
		colors:   c,
		r:        r,
		dim:      r.NewStyle().Foreground(lipgloss.Color(c.Muted)),
		bold:     r.NewStyle().Bold(true).Underline(true),
		success:  r.NewStyle().Foreground(lipgloss.Color(c.Success)),
		errStyle: r.NewStyle().Foreground(lipgloss.Color(c.PriorityHigh)),
		warning:  r.NewStyle().Foreground(lipgloss.Color(c.PriorityMedium)),
		project:  r.NewStyle().Foreground(lipgloss.Color(c.Project)),
		context:  r.NewStyle().Foreground(lipgloss.Color(c.Context)),
		metaKey:  r.NewStyle().Foreground(lipgloss.Color(c.TextDim)),
		done:     r.NewStyle().Foreground(lipgloss.Color(c.Muted)).Strikethrough(true),
	}
}

// FormatTask formats a single task as a one-line entry.
func (f *HumanFormatter) FormatTask(t todotxt.Task) string {
	return f.formatTaskLine(t) + "\n"
}

// FormatTaskList formats a list of tasks under an optional title.
func (f *HumanFormatter) FormatTaskList(tasks []todotxt.Task, title string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString("\n")
		sb.WriteString(f.bold.Render(title))
		sb.WriteString("\n\n")
	}
	if len(tasks) == 0 {
		sb.WriteString(f.dim.Render("  No tasks found."))
		sb.WriteString("\n")
		return sb.String()
	}
	for _, t := range tasks {
		sb.WriteString("  ")
		sb.WriteString(f.formatTaskLine(t))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(f.dim.Render(fmt.Sprintf("  %d task(s)", len(tasks))))
	sb.WriteString("\n")
	return sb.String()
}

func (f *HumanFormatter) formatTaskLine(t todotxt.Task) string {
	parts := []string{f.dim.Render(fmt.Sprintf("[%d]", t.ID))}
	if t.Completed {
		parts = append(parts, f.success.Render("✓"))
	} else {
		parts = append(parts, f.dim.Render("○"))
	}
	if t.Priority != "" {
		color := theme.PriorityColor(t.Priority, f.colors)
		parts = append(parts, f.r.NewStyle().Foreground(lipgloss.Color(color)).Render("("+t.Priority+")"))
	}
	if t.CreationDate != "" {
		parts = append(parts, f.dim.Render(t.CreationDate))
	}
	if t.Completed {
		parts = append(parts, f.done.Render(t.Text))
	} else {
		parts = append(parts, f.highlight(t.Text))
	}
	return strings.Join(parts, " ")
}

// highlight colors context, project and metadata tokens in text.
func (f *HumanFormatter) highlight(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		switch {
		case len(w) > 1 && w[0] == '@':
			words[i] = f.context.Render(w)
		case len(w) > 1 && w[0] == '+':
			words[i] = f.project.Render(w)
		default:
			if k, v, ok := strings.Cut(w, ":"); ok && k != "" && v != "" {
				words[i] = f.metaKey.Render(k+":") + v
			}
		}
	}
	return strings.Join(words, " ")
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return f.errStyle.Render("✗ ") + err.Error() + "\n"
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}

// FormatSuccess formats a confirmation message.
func (f *HumanFormatter) FormatSuccess(msg string) string {
	return f.success.Render("✓ ") + msg + "\n"
}

// FormatWarning formats a non-fatal notice.
func (f *HumanFormatter) FormatWarning(msg string) string {
	return f.warning.Render("⚠ ") + msg + "\n"
}
