package taskstore

import (
	"errors"
	"testing"
	"time"

	"todo/internal/storage"
	"todo/internal/todotxt"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDoesNotRecordHistory(t *testing.T) {
	s := newTestStore(t, "a", "b")
	assert.False(t, s.CanUndo())
	assert.Equal(t, 2, s.Len())
}

func TestAddTaskAssignsIDs(t *testing.T) {
	s := New(Options{})

	first := s.AddTask(todotxt.Task{Text: "first"})
	assert.Equal(t, 1, first.ID)

	require.NoError(t, s.DeleteTask(first.ID))

	second := s.AddTask(todotxt.Task{Text: "second"})
	assert.Equal(t, 2, second.ID)
}

func TestAddTaskReplacesDuplicateID(t *testing.T) {
	s := newTestStore(t, "a", "b")
	added := s.AddTask(todotxt.Task{ID: 1, Text: "dup"})
	assert.Equal(t, 3, added.ID)
}

func TestUndoReversesOneMutation(t *testing.T) {
	s := newTestStore(t, "(A) one", "two +Work")
	before := s.Tasks()

	s.AddTask(todotxt.Task{Text: "three"})
	assert.Equal(t, 3, s.Len())

	undone, err := s.Undo()
	require.NoError(t, err)
	assert.True(t, undone)
	assert.Equal(t, before, s.Tasks())
	assert.Equal(t, []int{1, 2}, viewIDs(s))
}

func TestUndoEachMutationKind(t *testing.T) {
	s := newTestStore(t, "(A) one", "two")
	before := s.Tasks()

	text := "edited +New"
	_, err := s.UpdateTask(2, storage.Patch{Text: &text})
	require.NoError(t, err)
	require.NoError(t, s.DeleteTask(1))
	_, err = s.ToggleCompletion(2)
	require.NoError(t, err)
	s.SetTasks(nil)
	assert.Equal(t, 4, s.HistoryLen())

	for s.CanUndo() {
		_, err := s.Undo()
		require.NoError(t, err)
	}
	assert.Equal(t, before, s.Tasks())
}

func TestUndoEmptyIsNoop(t *testing.T) {
	saver := &memSaver{}
	s := New(Options{Saver: saver})
	undone, err := s.Undo()
	require.NoError(t, err)
	assert.False(t, undone)
	assert.Empty(t, saver.saves)
}

func TestUndoPersists(t *testing.T) {
	saver := &memSaver{}
	s := New(Options{Saver: saver})
	s.Load(parseLines(t, "keep"))
	s.AddTask(todotxt.Task{Text: "drop"})

	_, err := s.Undo()
	require.NoError(t, err)
	require.Len(t, saver.saves, 1)
	assert.Equal(t, "keep\n", todotxt.SerializeFile(saver.saves[0]))
}

func TestUndoSaveErrorStillRestores(t *testing.T) {
	saver := &memSaver{err: errors.New("disk full")}
	s := New(Options{Saver: saver})
	s.AddTask(todotxt.Task{Text: "drop"})

	undone, err := s.Undo()
	assert.True(t, undone)
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, 0, s.Len())
}

func TestUndoWritesThroughFileStore(t *testing.T) {
	files := storage.New(afero.NewMemMapFs(), "/todo.txt")
	s := New(Options{Saver: files})
	s.Load(parseLines(t, "(B) kept"))
	require.NoError(t, s.DeleteTask(1))
	require.NoError(t, s.Save())

	_, err := s.Undo()
	require.NoError(t, err)

	tasks, err := files.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "B", tasks[0].Priority)
}

func TestMutationsRecomputeView(t *testing.T) {
	s := newTestStore(t, "(B) b")
	s.AddTask(todotxt.Task{Priority: "A", Text: "a"})
	assert.Equal(t, []int{2, 1}, viewIDs(s))

	pri := "C"
	_, err := s.UpdateTask(2, storage.Patch{Priority: &pri})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, viewIDs(s))
}

func TestUpdateAndDeleteNotFound(t *testing.T) {
	s := newTestStore(t, "a")
	text := "x"

	_, err := s.UpdateTask(5, storage.Patch{Text: &text})
	var nf *storage.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, 5, nf.ID)

	err = s.DeleteTask(5)
	assert.True(t, errors.As(err, &nf))

	_, err = s.ToggleCompletion(5)
	assert.True(t, errors.As(err, &nf))

	assert.False(t, s.CanUndo(), "failed mutations must not record history")
}

func TestToggleCompletion(t *testing.T) {
	s := newTestStore(t, "(A) write report")

	done, err := s.ToggleCompletion(1)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, "2025-01-10", done.CompletionDate)
	assert.Empty(t, viewIDs(s))

	s.SetShowCompleted(true)
	open, err := s.ToggleCompletion(1)
	require.NoError(t, err)
	assert.False(t, open.Completed)
	assert.Empty(t, open.CompletionDate)
}

func TestUpdatePriorityDatesUndatedCompletion(t *testing.T) {
	s := newTestStore(t, "x Buy milk")

	p := "B"
	updated, err := s.UpdateTask(1, storage.Patch{Priority: &p})
	require.NoError(t, err)
	assert.Equal(t, "x 2025-01-10 (B) Buy milk", todotxt.Serialize(updated))

	open := newTestStore(t, "Buy bread")
	updated, err = open.UpdateTask(1, storage.Patch{Priority: &p})
	require.NoError(t, err)
	assert.Empty(t, updated.CompletionDate)
}

func TestSnapshotsIsolatedFromLiveEdits(t *testing.T) {
	s := newTestStore(t, "a +One")
	text := "b +Two"
	_, err := s.UpdateTask(1, storage.Patch{Text: &text})
	require.NoError(t, err)

	view := s.View()
	view[0].Projects[0] = "Mutated"

	_, err = s.Undo()
	require.NoError(t, err)
	task, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, []string{"One"}, task.Projects)
}

func TestProjectsAndContexts(t *testing.T) {
	s := newTestStore(t,
		"a +Work @desk",
		"b +Home @phone +Work",
		"x 2025-01-01 c @desk +Archive",
	)
	assert.Equal(t, []string{"Archive", "Home", "Work"}, s.Projects())
	assert.Equal(t, []string{"desk", "phone"}, s.Contexts())
}

func TestSetNowFuncMovesToday(t *testing.T) {
	s := newTestStore(t, "pay due:2025-01-11")
	s.SetFilter(&Filter{Type: FilterDue})
	assert.Empty(t, viewIDs(s))

	s.SetNowFunc(func() time.Time { return fixedNow.Add(24 * time.Hour) })
	assert.Equal(t, []int{1}, viewIDs(s))
}
