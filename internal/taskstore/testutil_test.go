package taskstore

import (
	"testing"
	"time"

	"todo/internal/todotxt"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T, lines ...string) *Store {
	t.Helper()
	s := New(Options{Now: func() time.Time { return fixedNow }})
	s.Load(parseLines(t, lines...))
	return s
}

func parseLines(t *testing.T, lines ...string) []todotxt.Task {
	t.Helper()
	tasks := make([]todotxt.Task, 0, len(lines))
	for i, line := range lines {
		task, ok := todotxt.Parse(line, i+1)
		require.True(t, ok, "line %q", line)
		tasks = append(tasks, task)
	}
	return tasks
}

func viewIDs(s *Store) []int {
	ids := make([]int, 0, len(s.View()))
	for _, t := range s.View() {
		ids = append(ids, t.ID)
	}
	return ids
}

// memSaver records saved lists.
type memSaver struct {
	saves [][]todotxt.Task
	err   error
}

func (m *memSaver) Save(tasks []todotxt.Task) error {
	if m.err != nil {
		return m.err
	}
	m.saves = append(m.saves, tasks)
	return nil
}
