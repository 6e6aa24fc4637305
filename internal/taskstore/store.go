// Package taskstore holds the live task list for an interactive session.
//
// The Store owns the authoritative tasks, a bounded undo history and a
// derived view (filtered and sorted). Every state change recomputes the
// view synchronously, so readers never see a stale view. A Store is meant
// to be driven from a single goroutine.
package taskstore

import (
	"sort"
	"time"

	"todo/internal/priority"
	"todo/internal/storage"
	"todo/internal/todotxt"
)

// Saver persists a whole task list. *storage.FileStore satisfies it.
type Saver interface {
	Save(tasks []todotxt.Task) error
}

// Options configures a Store. All fields are optional: a nil Saver keeps the
// store in memory, an empty Mode means letter priorities and a nil Now uses
// the wall clock.
type Options struct {
	Saver Saver
	Mode  priority.Mode
	Now   func() time.Time
}

// Store is the in-memory task list with its derived view and undo history.
type Store struct {
	saver Saver
	mode  priority.Mode
	now   func() time.Time

	tasks   []todotxt.Task
	view    []todotxt.Task
	history *History
	nextID  int

	showCompleted bool
	search        string
	filter        *Filter
	sortMode      SortMode
}

// New creates an empty Store.
func New(opts Options) *Store {
	s := &Store{
		saver:    opts.Saver,
		mode:     opts.Mode,
		now:      opts.Now,
		history:  NewHistory(),
		nextID:   1,
		sortMode: SortPriority,
	}
	if s.mode == "" {
		s.mode = priority.Letter
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.recompute()
	return s
}

// SetNowFunc overrides the clock used for "today". Passing nil resets it to
// time.Now.
func (s *Store) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
	s.recompute()
}

// Today returns the current date in todo.txt form.
func (s *Store) Today() string {
	return s.now().Format(todotxt.DateLayout)
}

// =============================================================================
// Queries
// =============================================================================

// Tasks returns a copy of the full task list in storage order.
func (s *Store) Tasks() []todotxt.Task {
	return todotxt.CloneAll(s.tasks)
}

// View returns the filtered and sorted tasks. The slice is shared; callers
// must not modify it.
func (s *Store) View() []todotxt.Task {
	return s.view
}

// Len returns the number of tasks in the full list.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Get returns the task with the given id.
func (s *Store) Get(id int) (todotxt.Task, bool) {
	if idx := s.indexOf(id); idx >= 0 {
		return s.tasks[idx].Clone(), true
	}
	return todotxt.Task{}, false
}

// Projects returns the distinct projects across all tasks, sorted.
func (s *Store) Projects() []string {
	return s.collect(func(t todotxt.Task) []string { return t.Projects })
}

// Contexts returns the distinct contexts across all tasks, sorted.
func (s *Store) Contexts() []string {
	return s.collect(func(t todotxt.Task) []string { return t.Contexts })
}

// CanUndo reports whether there is a snapshot to restore.
func (s *Store) CanUndo() bool {
	return s.history.Len() > 0
}

// HistoryLen returns the number of undoable mutations.
func (s *Store) HistoryLen() int {
	return s.history.Len()
}

// Query returns the current filter and sort settings.
func (s *Store) Query() Query {
	return Query{
		ShowCompleted: s.showCompleted,
		Search:        s.search,
		Filter:        s.filter,
		Sort:          s.sortMode,
		Mode:          s.mode,
		Today:         s.Today(),
	}
}

// PriorityMode returns the active priority scheme.
func (s *Store) PriorityMode() priority.Mode {
	return s.mode
}

// =============================================================================
// View settings
// =============================================================================

// ShowCompleted reports whether completed tasks are visible without a filter.
func (s *Store) ShowCompleted() bool {
	return s.showCompleted
}

// SetShowCompleted sets the completed-visibility rule.
func (s *Store) SetShowCompleted(show bool) {
	s.showCompleted = show
	s.recompute()
}

// ToggleShowCompleted flips the completed-visibility rule.
func (s *Store) ToggleShowCompleted() {
	s.SetShowCompleted(!s.showCompleted)
}

// Search returns the free-text search.
func (s *Store) Search() string {
	return s.search
}

// SetSearch sets the free-text search; "" disables it.
func (s *Store) SetSearch(search string) {
	s.search = search
	s.recompute()
}

// ActiveFilter returns the structured filter, or nil.
func (s *Store) ActiveFilter() *Filter {
	return s.filter
}

// SetFilter sets the structured filter; nil clears it.
func (s *Store) SetFilter(f *Filter) {
	if f != nil {
		c := *f
		f = &c
	}
	s.filter = f
	s.recompute()
}

// ClearFilters removes the structured filter and the search.
func (s *Store) ClearFilters() {
	s.filter = nil
	s.search = ""
	s.recompute()
}

// SortMode returns the active sort mode.
func (s *Store) SortMode() SortMode {
	return s.sortMode
}

// SetSortMode changes the sort mode.
func (s *Store) SetSortMode(mode SortMode) {
	s.sortMode = mode
	s.recompute()
}

// CycleSortMode advances priority -> date -> project -> context.
func (s *Store) CycleSortMode() SortMode {
	s.SetSortMode(s.sortMode.Next())
	return s.sortMode
}

// SetPriorityMode changes how priorities compare and filter.
func (s *Store) SetPriorityMode(mode priority.Mode) {
	s.mode = mode
	s.recompute()
}

// =============================================================================
// Mutations
// =============================================================================

// Load replaces the task list without recording history. It is meant for the
// initial read and for picking up external edits to the file.
func (s *Store) Load(tasks []todotxt.Task) {
	s.replace(tasks)
}

// SetTasks replaces the whole task list as one undoable step.
func (s *Store) SetTasks(tasks []todotxt.Task) {
	s.history.Push(s.tasks)
	s.replace(tasks)
}

// AddTask appends a task. A task without an id, or with one already in use,
// gets the next id; ids are not reused within a session, even after undo.
func (s *Store) AddTask(task todotxt.Task) todotxt.Task {
	s.history.Push(s.tasks)

	task = task.Clone()
	if task.ID <= 0 || s.indexOf(task.ID) >= 0 {
		task.ID = s.nextID
	}
	if task.ID >= s.nextID {
		s.nextID = task.ID + 1
	}
	s.tasks = append(s.tasks, task)
	s.recompute()
	return task.Clone()
}

// UpdateTask merges patch into the task with the given id.
func (s *Store) UpdateTask(id int, patch storage.Patch) (todotxt.Task, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return todotxt.Task{}, &storage.NotFoundError{ID: id}
	}

	if patch.Today == "" {
		patch.Today = s.Today()
	}
	s.history.Push(s.tasks)
	patch.Apply(&s.tasks[idx])
	s.recompute()
	return s.tasks[idx].Clone(), nil
}

// DeleteTask removes the task with the given id.
func (s *Store) DeleteTask(id int) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return &storage.NotFoundError{ID: id}
	}

	s.history.Push(s.tasks)
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.recompute()
	return nil
}

// ToggleCompletion completes an open task with today's date, or reopens a
// completed one.
func (s *Store) ToggleCompletion(id int) (todotxt.Task, error) {
	task, ok := s.Get(id)
	if !ok {
		return todotxt.Task{}, &storage.NotFoundError{ID: id}
	}

	done := !task.Completed
	date := ""
	if done {
		date = s.Today()
	}
	return s.UpdateTask(id, storage.Patch{Completed: &done, CompletionDate: &date})
}

// Undo restores the most recent snapshot and persists it when a Saver is
// configured. It reports false with a nil error when there is nothing to
// undo. A save failure is returned after the in-memory list was restored.
func (s *Store) Undo() (bool, error) {
	snapshot, ok := s.history.Pop()
	if !ok {
		return false, nil
	}

	s.tasks = snapshot
	s.recompute()

	if err := s.Save(); err != nil {
		return true, err
	}
	return true, nil
}

// Save writes the current list through the Saver, if any.
func (s *Store) Save() error {
	if s.saver == nil {
		return nil
	}
	return s.saver.Save(s.Tasks())
}

// =============================================================================
// Internals
// =============================================================================

func (s *Store) replace(tasks []todotxt.Task) {
	s.tasks = todotxt.CloneAll(tasks)
	if next := todotxt.MaxID(s.tasks) + 1; next > s.nextID {
		s.nextID = next
	}
	s.recompute()
}

func (s *Store) recompute() {
	s.view = Derive(s.tasks, s.Query())
}

func (s *Store) indexOf(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) collect(field func(todotxt.Task) []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range s.tasks {
		for _, v := range field(t) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
