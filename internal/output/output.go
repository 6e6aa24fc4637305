// Package output renders command results for the terminal or as JSON.
package output

import "todo/internal/todotxt"

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTask(t todotxt.Task) string
	FormatTaskList(tasks []todotxt.Task, title string) string
	FormatError(err error) string
	FormatMessage(msg string) string
	FormatSuccess(msg string) string
	FormatWarning(msg string) string
}
