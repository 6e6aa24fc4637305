// Package storage persists todo.txt task lists.
//
// A FileStore holds no task state: every mutation is a full
// load-modify-save cycle against the backing file, so the file on disk is
// always exactly what the codec would produce. There is no locking; two
// processes writing the same file race and the last writer wins.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"todo/internal/fsutil"
	"todo/internal/todotxt"

	"github.com/spf13/afero"
)

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600
)

// SaveEvent describes a completed write, for logging and callers that
// react to saves.
type SaveEvent struct {
	Path      string
	Operation string // "save", "add", "update", "delete"
	TaskID    int
	Count     int
}

// Patch names the fields Update replaces. Nil fields are left untouched;
// an empty string clears an optional field.
type Patch struct {
	Completed      *bool
	Priority       *string
	CompletionDate *string
	CreationDate   *string
	Text           *string

	// Today dates a completed task that ends up with a priority but no
	// completion date. "x (A) text" reads back with "(A)" in the text.
	Today string
}

// Apply merges the patch into t. A text change re-derives the tags.
func (p Patch) Apply(t *todotxt.Task) {
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.CompletionDate != nil {
		t.CompletionDate = *p.CompletionDate
	}
	if p.CreationDate != nil {
		t.CreationDate = *p.CreationDate
	}
	if p.Text != nil {
		t.SetText(*p.Text)
	}
	if t.Completed && t.Priority != "" && t.CompletionDate == "" {
		t.CompletionDate = p.Today
	}
}

// FileStore reads and writes one todo.txt file.
type FileStore struct {
	fs     afero.Fs
	path   string
	onSave func(SaveEvent)
}

// New creates a FileStore for path on the given filesystem.
func New(fs afero.Fs, path string) *FileStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileStore{fs: fs, path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Fs returns the filesystem the store writes to.
func (s *FileStore) Fs() afero.Fs {
	return s.fs
}

// SetOnSave registers a callback run after each successful write.
func (s *FileStore) SetOnSave(fn func(SaveEvent)) {
	s.onSave = fn
}

// ReadRaw returns the file contents, or "" when it does not exist.
func (s *FileStore) ReadRaw() (string, error) {
	data, err := fsutil.ReadFileIfExists(s.fs, s.path)
	if err != nil {
		return "", &IOError{Op: "read", Path: s.path, Err: err}
	}
	return string(data), nil
}

// Load reads and parses the file. A missing file is an empty list.
func (s *FileStore) Load() ([]todotxt.Task, error) {
	content, err := s.ReadRaw()
	if err != nil {
		return nil, err
	}
	return todotxt.ParseFile(content), nil
}

// Save rewrites the whole file from tasks.
func (s *FileStore) Save(tasks []todotxt.Task) error {
	return s.write(tasks, SaveEvent{Operation: "save", Count: len(tasks)})
}

// Add appends task with the next free id (max existing id + 1) and returns
// the stored copy.
func (s *FileStore) Add(task todotxt.Task) (todotxt.Task, error) {
	if strings.TrimSpace(task.Text) == "" {
		return todotxt.Task{}, fmt.Errorf("task text cannot be empty")
	}
	tasks, err := s.Load()
	if err != nil {
		return todotxt.Task{}, err
	}

	task = task.Clone()
	task.ID = todotxt.MaxID(tasks) + 1
	tasks = append(tasks, task)

	if err := s.write(tasks, SaveEvent{Operation: "add", TaskID: task.ID, Count: len(tasks)}); err != nil {
		return todotxt.Task{}, err
	}
	return task, nil
}

// Update merges patch into the task with the given id.
func (s *FileStore) Update(id int, patch Patch) (todotxt.Task, error) {
	tasks, err := s.Load()
	if err != nil {
		return todotxt.Task{}, err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		return todotxt.Task{}, &NotFoundError{ID: id}
	}
	patch.Apply(&tasks[idx])

	if err := s.write(tasks, SaveEvent{Operation: "update", TaskID: id, Count: len(tasks)}); err != nil {
		return todotxt.Task{}, err
	}
	return tasks[idx], nil
}

// Delete removes the task with the given id.
func (s *FileStore) Delete(id int) error {
	tasks, err := s.Load()
	if err != nil {
		return err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		return &NotFoundError{ID: id}
	}
	tasks = append(tasks[:idx], tasks[idx+1:]...)

	return s.write(tasks, SaveEvent{Operation: "delete", TaskID: id, Count: len(tasks)})
}

// Get loads the file and returns the task with the given id.
func (s *FileStore) Get(id int) (todotxt.Task, error) {
	tasks, err := s.Load()
	if err != nil {
		return todotxt.Task{}, err
	}
	idx := indexOf(tasks, id)
	if idx < 0 {
		return todotxt.Task{}, &NotFoundError{ID: id}
	}
	return tasks[idx], nil
}

func (s *FileStore) write(tasks []todotxt.Task, ev SaveEvent) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), dataDirPerm); err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}

	// Keep a best-effort backup before overwriting.
	fsutil.BestEffortBackup(s.fs, s.path, dataFilePerm)

	data := []byte(todotxt.SerializeFile(tasks))
	if err := fsutil.WriteFileAtomic(s.fs, s.path, data, dataFilePerm); err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}

	if s.onSave != nil {
		ev.Path = s.path
		s.onSave(ev)
	}
	return nil
}

func indexOf(tasks []todotxt.Task, id int) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
