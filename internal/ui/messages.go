// Package ui provides the interactive terminal interface for todo.txt files.
// This file defines message types for async I/O operations using the Bubble Tea
// command pattern. File reads and writes return these messages so the event
// loop never blocks on disk.
package ui

import (
	"time"

	"todo/internal/todotxt"
	"todo/internal/watch"
)

// =============================================================================
// Task File Messages
// =============================================================================

// tasksLoadedMsg is sent when the todo file has been read.
type tasksLoadedMsg struct {
	tasks []todotxt.Task
	err   error
}

// tasksSavedMsg is sent when a save finishes. written is false when a newer
// save superseded this one before it reached the disk.
type tasksSavedMsg struct {
	gen     uint64
	op      string
	written bool
	err     error
}

// fileChangedMsg is sent when the watcher sees an edit made by another
// program.
type fileChangedMsg struct {
	change watch.Change
}

// watcherStoppedMsg is sent once the watcher has shut down.
type watcherStoppedMsg struct{}

// =============================================================================
// Interaction Messages
// =============================================================================

// toggleTaskMsg asks the app to flip the completion of a task, for example
// after a click on its checkbox.
type toggleTaskMsg struct {
	id int
}

// configSavedMsg is sent when the settings file has been written.
type configSavedMsg struct {
	err error
}

// tickMsg is sent periodically for time updates.
type tickMsg time.Time
