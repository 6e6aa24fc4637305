package output

import (
	"encoding/json"

	"todo/internal/todotxt"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// taskJSON is the JSON representation of a task.
type taskJSON struct {
	ID             int               `json:"id"`
	Completed      bool              `json:"completed"`
	Priority       string            `json:"priority,omitempty"`
	CompletionDate string            `json:"completionDate,omitempty"`
	CreationDate   string            `json:"creationDate,omitempty"`
	Text           string            `json:"text"`
	Contexts       []string          `json:"contexts"`
	Projects       []string          `json:"projects"`
	Metadata       map[string]string `json:"metadata"`
	Raw            string            `json:"raw"`
}

func toTaskJSON(t todotxt.Task) taskJSON {
	tj := taskJSON{
		ID:             t.ID,
		Completed:      t.Completed,
		Priority:       t.Priority,
		CompletionDate: t.CompletionDate,
		CreationDate:   t.CreationDate,
		Text:           t.Text,
		Contexts:       t.Contexts,
		Projects:       t.Projects,
		Metadata:       t.Metadata,
		Raw:            todotxt.Serialize(t),
	}
	if tj.Contexts == nil {
		tj.Contexts = []string{}
	}
	if tj.Projects == nil {
		tj.Projects = []string{}
	}
	if tj.Metadata == nil {
		tj.Metadata = map[string]string{}
	}
	return tj
}

// FormatTask formats a single task as JSON.
func (f *JSONFormatter) FormatTask(t todotxt.Task) string {
	return marshalJSON(toTaskJSON(t))
}

// FormatTaskList formats a list of tasks as a JSON array. The title is
// ignored.
func (f *JSONFormatter) FormatTaskList(tasks []todotxt.Task, _ string) string {
	jsonTasks := make([]taskJSON, len(tasks))
	for i, t := range tasks {
		jsonTasks[i] = toTaskJSON(t)
	}
	return marshalJSON(jsonTasks)
}

// errorJSON is the JSON representation of an error.
type errorJSON struct {
	Error string `json:"error"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

// messageJSON is the JSON representation of a message.
type messageJSON struct {
	Message string `json:"message"`
	Level   string `json:"level,omitempty"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}

// FormatSuccess formats a confirmation message as JSON.
func (f *JSONFormatter) FormatSuccess(msg string) string {
	return marshalJSON(messageJSON{Message: msg, Level: "success"})
}

// FormatWarning formats a notice as JSON.
func (f *JSONFormatter) FormatWarning(msg string) string {
	return marshalJSON(messageJSON{Message: msg, Level: "warning"})
}
