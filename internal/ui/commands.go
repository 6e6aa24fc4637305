// Package ui provides the interactive terminal interface for todo.txt files.
// This file contains tea.Cmd factories that wrap file operations. These
// commands run I/O asynchronously to keep the Bubble Tea event loop
// responsive. Each command returns a corresponding message type defined in
// messages.go.
package ui

import (
	"sync"
	"sync/atomic"
	"time"

	"todo/internal/config"
	"todo/internal/storage"
	"todo/internal/taskstore"
	"todo/internal/todotxt"
	"todo/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
)

// FileWatcher reports edits made to the todo file by other programs.
// *watch.Watcher satisfies it.
type FileWatcher interface {
	Changes() <-chan watch.Change
	Done() <-chan struct{}
	Expect(content string)
}

// =============================================================================
// Save sequencing
// =============================================================================

// serialSaver writes task lists one at a time. Every save is tagged with a
// generation; a save whose generation is older than one already written is
// dropped, so the newest in-memory state always wins even when commands run
// out of order.
type serialSaver struct {
	files   *storage.FileStore
	watcher FileWatcher

	next    atomic.Uint64
	mu      sync.Mutex
	written uint64
	// settled is the newest generation whose save attempt has finished,
	// whether it wrote, was dropped or failed.
	settled uint64
}

var _ taskstore.Saver = (*serialSaver)(nil)

func newSerialSaver(files *storage.FileStore, watcher FileWatcher) *serialSaver {
	return &serialSaver{files: files, watcher: watcher}
}

// reserve hands out the next generation.
func (s *serialSaver) reserve() uint64 {
	return s.next.Add(1)
}

// saveGeneration writes tasks unless a newer generation is already on disk.
func (s *serialSaver) saveGeneration(gen uint64, tasks []todotxt.Task) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.settled = max(s.settled, gen) }()

	if gen <= s.written {
		return false, nil
	}
	if s.watcher != nil {
		s.watcher.Expect(todotxt.SerializeFile(tasks))
	}
	if err := s.files.Save(tasks); err != nil {
		return false, err
	}
	s.written = gen
	return true, nil
}

// pending returns the newest reserved generation that has not settled yet,
// or zero when every reserved save has finished.
func (s *serialSaver) pending() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.next.Load(); n > s.settled {
		return n
	}
	return 0
}

// Save writes tasks as the newest generation.
func (s *serialSaver) Save(tasks []todotxt.Task) error {
	_, err := s.saveGeneration(s.reserve(), tasks)
	return err
}

// =============================================================================
// Task File Commands
// =============================================================================

// loadTasksCmd returns a command that reads the todo file.
func loadTasksCmd(files *storage.FileStore) tea.Cmd {
	return func() tea.Msg {
		tasks, err := files.Load()
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

// saveTasksCmd returns a command that writes a snapshot of the task list.
func saveTasksCmd(saver *serialSaver, gen uint64, tasks []todotxt.Task, op string) tea.Cmd {
	return func() tea.Msg {
		written, err := saver.saveGeneration(gen, tasks)
		return tasksSavedMsg{gen: gen, op: op, written: written, err: err}
	}
}

// waitForChangeCmd blocks until the watcher reports a change or shuts down.
// Returns nil if no watcher is configured.
func waitForChangeCmd(w FileWatcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case change := <-w.Changes():
			return fileChangedMsg{change: change}
		case <-w.Done():
			return watcherStoppedMsg{}
		}
	}
}

// =============================================================================
// Settings Commands
// =============================================================================

// saveConfigCmd returns a command that persists the settings. Returns nil
// when no config path is known.
func saveConfigCmd(fs afero.Fs, path string, cfg config.Config) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		return configSavedMsg{err: cfg.Save(fs, path)}
	}
}

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
