// Package todotxt implements the todo.txt line format: the Task model, the
// tag extraction rules and the line/file codec.
package todotxt

import "strings"

// DateLayout is the todo.txt calendar date format.
const DateLayout = "2006-01-02"

// Task is one todo.txt record.
//
// Contexts, Projects and Metadata are derived from Text and are only ever
// set together with it, via Parse or SetText.
type Task struct {
	ID             int               `json:"id"`
	Completed      bool              `json:"completed"`
	Priority       string            `json:"priority,omitempty"`
	CompletionDate string            `json:"completion_date,omitempty"`
	CreationDate   string            `json:"creation_date,omitempty"`
	Text           string            `json:"text"`
	Contexts       []string          `json:"contexts,omitempty"`
	Projects       []string          `json:"projects,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// SetText replaces the description and re-derives the tags from it.
func (t *Task) SetText(text string) {
	t.Text = text
	t.Contexts, t.Projects, t.Metadata = ExtractTags(text)
}

// Due returns the due:YYYY-MM-DD metadata value if present.
func (t Task) Due() (string, bool) {
	due, ok := t.Metadata["due"]
	if !ok || !IsDate(due) {
		return "", false
	}
	return due, true
}

// IsDueBy reports whether an open task has a due date on or before today.
func (t Task) IsDueBy(today string) bool {
	if t.Completed {
		return false
	}
	due, ok := t.Due()
	return ok && due <= today
}

// IsOverdue reports whether an open task's due date is strictly before today.
func (t Task) IsOverdue(today string) bool {
	if t.Completed {
		return false
	}
	due, ok := t.Due()
	return ok && due < today
}

// CompletedOn reports whether the task was completed on the given day.
func (t Task) CompletedOn(today string) bool {
	return t.Completed && t.CompletionDate != "" && t.CompletionDate == today
}

// HasProject reports whether the task carries +project.
func (t Task) HasProject(project string) bool {
	return contains(t.Projects, project)
}

// HasContext reports whether the task carries @context.
func (t Task) HasContext(context string) bool {
	return contains(t.Contexts, context)
}

// Clone returns a copy that shares no slices or maps with t.
func (t Task) Clone() Task {
	c := t
	if t.Contexts != nil {
		c.Contexts = append([]string(nil), t.Contexts...)
	}
	if t.Projects != nil {
		c.Projects = append([]string(nil), t.Projects...)
	}
	if t.Metadata != nil {
		c.Metadata = make(map[string]string, len(t.Metadata))
		for k, v := range t.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}

// CloneAll deep-copies a task list.
func CloneAll(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// MaxID returns the largest id in the list, or 0 when it is empty.
func MaxID(tasks []Task) int {
	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID
}

// IsDate reports whether s has the YYYY-MM-DD shape.
func IsDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i == 4 || i == 7 {
			if c != '-' {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// SplitPriority strips a leading "(X) " priority token typed by a user.
// The text is returned unchanged when it has none.
func SplitPriority(input string) (priority, text string) {
	input = strings.TrimSpace(input)
	tok, rest := firstToken(input)
	if p, ok := priorityToken(tok); ok {
		return p, rest
	}
	return "", input
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
