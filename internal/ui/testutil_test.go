package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	"todo/internal/config"
	"todo/internal/storage"
	"todo/internal/taskstore"
	"todo/internal/theme"
	"todo/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/afero"
)

const testTodoPath = "/data/todo.txt"

// testNow is the fixed clock used by every UI test: Friday 2025-01-10.
func testNow() time.Time {
	return time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)
}

// setupTest prepares the test environment for deterministic rendering.
func setupTest(t *testing.T) {
	t.Helper()
	// Use ASCII profile to disable all color codes in output
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStyles(theme.Default)
}

// createTestStore creates an in-memory task store holding lines.
func createTestStore(t *testing.T, lines ...string) *taskstore.Store {
	t.Helper()
	store := taskstore.New(taskstore.Options{Now: testNow})
	files := storage.New(afero.NewMemMapFs(), testTodoPath)
	if len(lines) > 0 {
		writeTodo(t, files, lines...)
	}
	tasks, err := files.Load()
	if err != nil {
		t.Fatalf("failed to load tasks: %v", err)
	}
	store.Load(tasks)
	return store
}

func writeTodo(t *testing.T, files *storage.FileStore, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	if err := afero.WriteFile(files.Fs(), files.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write todo file: %v", err)
	}
}

func readTodo(t *testing.T, files *storage.FileStore) string {
	t.Helper()
	raw, err := files.ReadRaw()
	if err != nil {
		t.Fatalf("failed to read todo file: %v", err)
	}
	return raw
}

// testApp bundles an App with the files behind it.
type testApp struct {
	*App
	files   *storage.FileStore
	watcher *fakeWatcher
}

// newTestApp builds an App over an in-memory todo file holding lines, loads
// it and sizes the window for the wide layout.
func newTestApp(t *testing.T, lines ...string) *testApp {
	t.Helper()
	setupTest(t)

	fs := afero.NewMemMapFs()
	files := storage.New(fs, testTodoPath)
	if len(lines) > 0 {
		writeTodo(t, files, lines...)
	}
	w := newFakeWatcher()

	app := NewApp(Options{
		Files:      files,
		Config:     config.Default(),
		ConfigPath: "/config/todo/config.toml",
		Watcher:    w,
		Now:        testNow,
		App:        &AppConfig{ConfirmDeletions: false, NarrowLayoutThreshold: 80},
	})
	ta := &testApp{App: app, files: files, watcher: w}
	ta.run(loadTasksCmd(files))
	ta.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return ta
}

// run executes cmd and feeds the app's own messages back into Update,
// the way the Bubble Tea runtime would. Anything else (quit, timers, cursor
// blinks) is returned without being delivered.
func (ta *testApp) run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	var other []tea.Msg
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			other = append(other, ta.run(c)...)
		}
	case tasksLoadedMsg, tasksSavedMsg, configSavedMsg, toggleTaskMsg:
		_, next := ta.Update(msg)
		other = append(other, ta.run(next)...)
	default:
		other = append(other, msg)
	}
	return other
}

// press sends key presses through Update and runs the resulting commands.
func (ta *testApp) press(keys ...tea.KeyMsg) []tea.Msg {
	var out []tea.Msg
	for _, k := range keys {
		_, cmd := ta.Update(k)
		out = append(out, ta.run(cmd)...)
	}
	return out
}

// typeText sends s as a single run of characters.
func (ta *testApp) typeText(s string) {
	ta.press(runes(s))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
)

func hasQuit(msgs []tea.Msg) bool {
	for _, m := range msgs {
		if _, ok := m.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}

// fakeWatcher is a FileWatcher driven by the test.
type fakeWatcher struct {
	changes chan watch.Change
	done    chan struct{}

	mu       sync.Mutex
	expected []string
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{
		changes: make(chan watch.Change, 1),
		done:    make(chan struct{}),
	}
}

func (w *fakeWatcher) Changes() <-chan watch.Change { return w.changes }
func (w *fakeWatcher) Done() <-chan struct{}        { return w.done }

func (w *fakeWatcher) Expect(content string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.expected = append(w.expected, content)
}

func (w *fakeWatcher) Expected() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.expected...)
}
