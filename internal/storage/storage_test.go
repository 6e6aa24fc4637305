package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"todo/internal/todotxt"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPath = "/home/user/todo.txt"

// createTestStore creates a FileStore over an in-memory filesystem.
func createTestStore(t *testing.T) *FileStore {
	t.Helper()
	return New(afero.NewMemMapFs(), testPath)
}

func mustParse(t *testing.T, line string) todotxt.Task {
	t.Helper()
	task, ok := todotxt.Parse(line, 0)
	require.True(t, ok)
	return task
}

func readFile(t *testing.T, s *FileStore) string {
	t.Helper()
	data, err := afero.ReadFile(s.Fs(), s.Path())
	require.NoError(t, err)
	return string(data)
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	store := createTestStore(t)
	tasks, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestLoadReadFailureIsIOError(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be cannot be read as a file.
	path := filepath.Join(dir, "todo.txt")
	require.NoError(t, os.Mkdir(path, 0o700))

	_, err := New(afero.NewOsFs(), path).Load()
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	assert.Equal(t, path, ioErr.Path)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestSaveWritesCanonicalFile(t *testing.T) {
	store := createTestStore(t)
	tasks := todotxt.ParseFile("(A)   2025-01-01   spaced out\n\n x 2025-01-02 done \n")

	require.NoError(t, store.Save(tasks))
	assert.Equal(t, "(A) 2025-01-01 spaced out\nx 2025-01-02 done\n", readFile(t, store))
}

func TestSaveFailureIsIOError(t *testing.T) {
	store := New(afero.NewReadOnlyFs(afero.NewMemMapFs()), testPath)
	err := store.Save([]todotxt.Task{mustParse(t, "a")})
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	assert.Equal(t, "write", ioErr.Op)
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	store := createTestStore(t)

	first, err := store.Add(mustParse(t, "first"))
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)

	second, err := store.Add(mustParse(t, "(B) second +Work"))
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, []string{"Work"}, second.Projects)

	assert.Equal(t, "first\n(B) second +Work\n", readFile(t, store))
}

func TestAddRejectsEmptyText(t *testing.T) {
	store := createTestStore(t)
	_, err := store.Add(todotxt.Task{Text: "   "})
	assert.Error(t, err)
}

func TestAddUsesMaxIDNotCount(t *testing.T) {
	store := createTestStore(t)
	// Blank lines advance the line position, so ids 1 and 4 are in use.
	require.NoError(t, afero.WriteFile(store.Fs(), testPath, []byte("a\n\n\nb\n"), 0o600))

	task, err := store.Add(mustParse(t, "c"))
	require.NoError(t, err)
	assert.Equal(t, 5, task.ID)
}

func TestUpdateMergesNamedFields(t *testing.T) {
	store := createTestStore(t)
	_, err := store.Add(mustParse(t, "(A) 2025-01-01 write docs +Docs"))
	require.NoError(t, err)

	done := true
	date := "2025-01-03"
	updated, err := store.Update(1, Patch{Completed: &done, CompletionDate: &date})
	require.NoError(t, err)

	assert.True(t, updated.Completed)
	assert.Equal(t, "A", updated.Priority)
	assert.Equal(t, "2025-01-01", updated.CreationDate)
	assert.Equal(t, []string{"Docs"}, updated.Projects)
	assert.Equal(t, "x 2025-01-03 (A) 2025-01-01 write docs +Docs\n", readFile(t, store))
}

func TestUpdateTextRederivesTags(t *testing.T) {
	store := createTestStore(t)
	_, err := store.Add(mustParse(t, "old +A"))
	require.NoError(t, err)

	text := "new @home"
	updated, err := store.Update(1, Patch{Text: &text})
	require.NoError(t, err)
	assert.Nil(t, updated.Projects)
	assert.Equal(t, []string{"home"}, updated.Contexts)
}

func TestUpdateClearsPriority(t *testing.T) {
	store := createTestStore(t)
	_, err := store.Add(mustParse(t, "(C) thing"))
	require.NoError(t, err)

	none := ""
	_, err = store.Update(1, Patch{Priority: &none})
	require.NoError(t, err)
	assert.Equal(t, "thing\n", readFile(t, store))
}

func TestUpdatePriorityOnUndatedCompletedTask(t *testing.T) {
	store := createTestStore(t)
	_, err := store.Add(mustParse(t, "x Buy milk"))
	require.NoError(t, err)

	p := "A"
	updated, err := store.Update(1, Patch{Priority: &p, Today: "2025-01-10"})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", updated.CompletionDate)
	assert.Equal(t, "x 2025-01-10 (A) Buy milk\n", readFile(t, store))

	reloaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	assert.Equal(t, "A", reloaded[0].Priority)
	assert.Equal(t, "Buy milk", reloaded[0].Text)
}

func TestUpdateNotFound(t *testing.T) {
	store := createTestStore(t)
	text := "x"
	_, err := store.Update(42, Patch{Text: &text})

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, 42, nf.ID)
	assert.Equal(t, "task not found: 42", err.Error())
}

func TestDelete(t *testing.T) {
	store := createTestStore(t)
	for _, line := range []string{"one", "two", "three"} {
		_, err := store.Add(mustParse(t, line))
		require.NoError(t, err)
	}

	require.NoError(t, store.Delete(2))
	assert.Equal(t, "one\nthree\n", readFile(t, store))

	err := store.Delete(9)
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestDeleteLastTaskLeavesEmptyFile(t *testing.T) {
	store := createTestStore(t)
	_, err := store.Add(mustParse(t, "only"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(1))

	assert.Equal(t, "\n", readFile(t, store))
	next, err := store.Add(mustParse(t, "again"))
	require.NoError(t, err)
	assert.Equal(t, 1, next.ID)
}

func TestSaveKeepsBackup(t *testing.T) {
	store := createTestStore(t)
	require.NoError(t, store.Save([]todotxt.Task{mustParse(t, "v1")}))
	require.NoError(t, store.Save([]todotxt.Task{mustParse(t, "v2")}))

	data, err := afero.ReadFile(store.Fs(), testPath+".bak")
	require.NoError(t, err)
	assert.Equal(t, "v1\n", string(data))
}

func TestOnSaveCallback(t *testing.T) {
	store := createTestStore(t)
	var events []SaveEvent
	store.SetOnSave(func(ev SaveEvent) { events = append(events, ev) })

	_, err := store.Add(mustParse(t, "a"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(1))

	require.Len(t, events, 2)
	assert.Equal(t, "add", events[0].Operation)
	assert.Equal(t, 1, events[0].TaskID)
	assert.Equal(t, "delete", events[1].Operation)
	assert.Equal(t, testPath, events[1].Path)
}

func TestGet(t *testing.T) {
	store := createTestStore(t)
	_, err := store.Add(mustParse(t, "a"))
	require.NoError(t, err)

	task, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "a", task.Text)

	_, err = store.Get(2)
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}
