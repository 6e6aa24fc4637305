package taskstore

import (
	"sync"

	"todo/internal/todotxt"
)

// maxHistorySize limits the undo stack to prevent unbounded memory growth.
const maxHistorySize = 50

// History is a bounded stack of task list snapshots. Every pushed snapshot
// is a deep copy, so later edits to the live list never show through.
type History struct {
	mu    sync.Mutex
	stack [][]todotxt.Task
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{stack: make([][]todotxt.Task, 0, maxHistorySize)}
}

// Push records a copy of tasks, dropping the oldest snapshot when full.
func (h *History) Push(tasks []todotxt.Task) {
	snapshot := todotxt.CloneAll(tasks)

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.stack) >= maxHistorySize {
		h.stack = h.stack[1:]
	}
	h.stack = append(h.stack, snapshot)
}

// Pop removes and returns the most recent snapshot.
func (h *History) Pop() ([]todotxt.Task, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.stack) == 0 {
		return nil, false
	}
	last := h.stack[len(h.stack)-1]
	h.stack[len(h.stack)-1] = nil
	h.stack = h.stack[:len(h.stack)-1]
	return last, true
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stack)
}
