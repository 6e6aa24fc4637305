package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/config"
	"todo/internal/priority"
	"todo/internal/ui"
)

const (
	testHome     = "/home/test"
	testTodoFile = "/home/test/todo.txt"
	testConfig   = "/home/test/.config/todo-tui/config.toml"
)

var testNow = time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)

type testCLI struct {
	*cli
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	stdin  *bytes.Buffer
	tuiRun *ui.Options
}

// newTestCLI builds a cli on an in-memory filesystem with a fixed clock and
// no TODO_* environment.
func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	for _, key := range []string{"TODO_FILE", "TODO_CONFIG", "TODO_PRIORITY_MODE", "TODO_THEME", "TODO_JSON", "TODO_VERBOSE", "TODO_LOG_FILE"} {
		t.Setenv(key, "")
	}

	tc := &testCLI{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		stdin:  &bytes.Buffer{},
	}
	tc.cli = &cli{
		fs: afero.NewMemMapFs(),
		env: config.Env{
			Getenv:  func(string) string { return "" },
			HomeDir: func() (string, error) { return testHome, nil },
		},
		in:         tc.stdin,
		out:        tc.stdout,
		errOut:     tc.stderr,
		now:        func() time.Time { return testNow },
		isTerminal: func() bool { return false },
		runTUI: func(opts ui.Options) error {
			tc.tuiRun = &opts
			return nil
		},
	}
	return tc
}

// run executes one command line and returns stdout.
func (tc *testCLI) run(args ...string) (string, error) {
	tc.stdout.Reset()
	tc.stderr.Reset()
	root := newRootCmd(tc.cli)
	root.SetArgs(args)
	root.SetOut(tc.stdout)
	root.SetErr(tc.stderr)
	err := root.Execute()
	return tc.stdout.String(), err
}

func (tc *testCLI) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := tc.run(args...)
	require.NoError(t, err, "todo %s", strings.Join(args, " "))
	return out
}

func (tc *testCLI) writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(tc.fs, path, []byte(content), 0600))
}

func (tc *testCLI) readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := afero.ReadFile(tc.fs, path)
	require.NoError(t, err)
	return string(data)
}

func (tc *testCLI) writeTodo(t *testing.T, lines ...string) {
	t.Helper()
	tc.writeFile(t, testTodoFile, strings.Join(lines, "\n")+"\n")
}

func (tc *testCLI) readTodo(t *testing.T) string {
	t.Helper()
	return tc.readFile(t, testTodoFile)
}

func TestPaths_Defaults(t *testing.T) {
	tc := newTestCLI(t)

	tc.mustRun(t, "add", "first")

	assert.Equal(t, testTodoFile, tc.paths.TodoFile)
	assert.Equal(t, testConfig, tc.paths.ConfigFile)
	assert.Equal(t, "2025-01-10 first\n", tc.readTodo(t))
}

func TestPaths_FileFlagWinsOverEnv(t *testing.T) {
	tc := newTestCLI(t)
	t.Setenv("TODO_FILE", "/data/env.txt")

	tc.mustRun(t, "add", "from env")
	assert.Equal(t, "2025-01-10 from env\n", tc.readFile(t, "/data/env.txt"))

	tc.mustRun(t, "--file", "/data/flag.txt", "add", "from flag")
	assert.Equal(t, "2025-01-10 from flag\n", tc.readFile(t, "/data/flag.txt"))
}

func TestPaths_TildeExpands(t *testing.T) {
	tc := newTestCLI(t)

	tc.mustRun(t, "-f", "~/lists/work.txt", "add", "ship")

	assert.Equal(t, "/home/test/lists/work.txt", tc.paths.TodoFile)
}

func TestConfig_LoadedFromFile(t *testing.T) {
	tc := newTestCLI(t)
	tc.writeFile(t, testConfig, "priorityMode = \"number\"\ntheme = \"nord\"\n")

	tc.mustRun(t, "add", "(1) numbered")

	assert.Equal(t, priority.Number, tc.cfg.PriorityMode)
	assert.Equal(t, "nord", tc.cfg.Theme)
	assert.Equal(t, "(1) 2025-01-10 numbered\n", tc.readTodo(t))
}

func TestConfig_InvalidFallsBackWithWarning(t *testing.T) {
	tc := newTestCLI(t)
	tc.writeFile(t, testConfig, "priorityMode = \"roman\"\n")

	tc.mustRun(t, "list")

	assert.Equal(t, priority.Letter, tc.cfg.PriorityMode)
	assert.Contains(t, tc.stderr.String(), "Invalid priorityMode")
}

func TestConfig_FlagOverrides(t *testing.T) {
	tc := newTestCLI(t)

	tc.mustRun(t, "--priority-mode", "number", "--theme", "dracula", "list")
	assert.Equal(t, priority.Number, tc.cfg.PriorityMode)
	assert.Equal(t, "dracula", tc.cfg.Theme)

	_, err := tc.run("--theme", "neon", "list")
	assert.ErrorContains(t, err, `unknown theme "neon"`)

	_, err = tc.run("--priority-mode", "roman", "list")
	assert.Error(t, err)
}

func TestConfig_EnvOverride(t *testing.T) {
	tc := newTestCLI(t)
	t.Setenv("TODO_PRIORITY_MODE", "number")

	tc.mustRun(t, "list")

	assert.Equal(t, priority.Number, tc.cfg.PriorityMode)
}

func TestRoot_PrintsHelpWithoutTerminal(t *testing.T) {
	tc := newTestCLI(t)

	out := tc.mustRun(t)

	assert.Contains(t, out, "Usage:")
	assert.Nil(t, tc.tuiRun, "the TUI must not start without a terminal")
}

func TestRoot_StartsTUIOnTerminal(t *testing.T) {
	tc := newTestCLI(t)
	tc.isTerminal = func() bool { return true }

	tc.mustRun(t, "--theme", "gruvbox")

	require.NotNil(t, tc.tuiRun)
	assert.Equal(t, testTodoFile, tc.tuiRun.Files.Path())
	assert.Equal(t, testConfig, tc.tuiRun.ConfigPath)
	assert.Equal(t, "gruvbox", tc.tuiRun.Config.Theme)
	assert.NotNil(t, tc.tuiRun.Logger)
}

func TestRoot_RejectsArguments(t *testing.T) {
	tc := newTestCLI(t)

	_, err := tc.run("frobnicate")

	assert.Error(t, err)
}

func TestPrintError(t *testing.T) {
	tc := newTestCLI(t)
	tc.printError(assert.AnError)
	assert.Equal(t, "Error: "+assert.AnError.Error()+"\n", tc.stderr.String())

	tc.mustRun(t, "--json", "list")
	tc.stdout.Reset()
	tc.printError(assert.AnError)
	assert.JSONEq(t, `{"error":"`+assert.AnError.Error()+`"}`, tc.stdout.String())
}

func TestVersionCmd(t *testing.T) {
	tc := newTestCLI(t)

	out := tc.mustRun(t, "version")

	assert.Equal(t, "todo dev (commit none, built unknown)\n", out)
}
