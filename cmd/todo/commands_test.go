package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_DailyMarkdown(t *testing.T) {
	tc := newTestCLI(t)
	tc.writeTodo(t,
		"(A) 2025-01-10 call bank +Money due:2025-01-10",
		"x 2025-01-10 2025-01-07 file taxes +Money",
		"someday",
	)

	out := tc.mustRun(t, "report")

	assert.Contains(t, out, "# Daily Report: Friday, January 10, 2025")
	assert.Contains(t, out, "- **Active:** 2 of 3")
	assert.Contains(t, out, "- **Done today:** 1")
	assert.Contains(t, out, "- **Due today:** 1")
}

func TestReport_JSON(t *testing.T) {
	tc := newTestCLI(t)
	tc.writeTodo(t, "x 2025-01-09 2025-01-09 done yesterday", "open")

	for _, args := range [][]string{
		{"report", "2025-01-09", "--format", "json"},
		{"--json", "report", "2025-01-09"},
	} {
		out := tc.mustRun(t, args...)

		var report struct {
			Summary struct {
				DoneToday int `json:"done_today"`
				Total     int `json:"total"`
			} `json:"summary"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &report), out)
		assert.Equal(t, 1, report.Summary.DoneToday)
		assert.Equal(t, 2, report.Summary.Total)
	}
}

func TestReport_WeeklyToFile(t *testing.T) {
	tc := newTestCLI(t)
	tc.writeTodo(t, "x 2025-01-08 2025-01-06 shipped +Work")

	out := tc.mustRun(t, "report", "--weekly", "-o", "/reports/week.md")

	assert.Contains(t, out, "Report written to /reports/week.md")
	report := tc.readFile(t, "/reports/week.md")
	assert.Contains(t, report, "# Weekly Report: Jan 5 - Jan 11, 2025")
	assert.Contains(t, report, "- **Completed:** 1")
}

func TestReport_BadInput(t *testing.T) {
	tc := newTestCLI(t)

	_, err := tc.run("report", "--format", "pdf")
	assert.ErrorContains(t, err, `invalid format "pdf"`)

	_, err = tc.run("report", "10/01/2025")
	assert.ErrorContains(t, err, "invalid date")
}

func TestBackup_CreateListRestore(t *testing.T) {
	tc := newTestCLI(t)
	clock := testNow
	tc.now = func() time.Time { return clock }
	tc.writeTodo(t, "original", "x 2025-01-09 finished")

	out := tc.mustRun(t, "backup")
	assert.Contains(t, out, "Backup created: 2025-01-10_093000_000 (tasks: 2, active: 1, completed: 1)")

	backupDir := filepath.Join(filepath.Dir(testConfig), backupDirName)
	snapshot := tc.readFile(t, filepath.Join(backupDir, "2025-01-10_093000_000", "todo.txt"))
	assert.Equal(t, "original\nx 2025-01-09 finished\n", snapshot)

	clock = clock.Add(2 * time.Hour)
	tc.writeTodo(t, "changed")

	out = tc.mustRun(t, "backup", "list")
	assert.Contains(t, out, "2025-01-10_093000_000  (2 hours ago)   Tasks: 2, Active: 1")

	out = tc.mustRun(t, "backup", "restore", "--force", "2025-01-10_093000_000")
	assert.Contains(t, out, "Restored 2025-01-10_093000_000 (safety backup: 2025-01-10_113000_000)")
	assert.Equal(t, "original\nx 2025-01-09 finished\n", tc.readTodo(t))

	safety := tc.readFile(t, filepath.Join(backupDir, "2025-01-10_113000_000", "todo.txt"))
	assert.Equal(t, "changed\n", safety)
}

func TestBackup_RestoreAsksFirst(t *testing.T) {
	tc := newTestCLI(t)
	clock := testNow
	tc.now = func() time.Time { return clock }
	tc.writeTodo(t, "original")
	tc.mustRun(t, "backup", "create")

	clock = clock.Add(time.Minute)
	tc.writeTodo(t, "changed")
	tc.stdin.WriteString("n\n")

	out := tc.mustRun(t, "backup", "restore", "--latest")

	assert.Contains(t, tc.stderr.String(), "Restore 2025-01-10_093000_000 (1 tasks")
	assert.Contains(t, out, "Restore cancelled.")
	assert.Equal(t, "changed\n", tc.readTodo(t))

	tc.stdin.WriteString("yes\n")
	tc.mustRun(t, "backup", "restore", "--latest")
	assert.Equal(t, "original\n", tc.readTodo(t))
}

func TestBackup_Errors(t *testing.T) {
	tc := newTestCLI(t)

	out := tc.mustRun(t, "backup", "list")
	assert.Contains(t, out, "No backups available.")

	_, err := tc.run("backup", "restore", "--force")
	assert.ErrorContains(t, err, "no backup specified")

	_, err = tc.run("backup", "restore", "--latest", "--force")
	assert.ErrorContains(t, err, "no backups available")

	_, err = tc.run("backup", "restore", "--force", "../../etc")
	assert.ErrorContains(t, err, "invalid backup name")

	_, err = tc.run("backup", "prune", "--keep", "-1")
	assert.ErrorContains(t, err, "--keep must not be negative")
}

func TestBackup_Prune(t *testing.T) {
	tc := newTestCLI(t)
	clock := testNow
	tc.now = func() time.Time { return clock }
	tc.writeTodo(t, "task")

	for i := 0; i < 3; i++ {
		tc.mustRun(t, "backup", "create")
		clock = clock.Add(time.Minute)
	}

	out := tc.mustRun(t, "backup", "prune", "--keep", "1")
	assert.Contains(t, out, "Deleted 2 backup(s), kept 1")

	out = tc.mustRun(t, "backup", "list")
	assert.Contains(t, out, "2025-01-10_093200_000")
	assert.NotContains(t, out, "2025-01-10_093000_000")
}

const taskwarriorExport = `[
  {"description":"Buy milk","status":"pending","project":"Home","priority":"H","tags":["errand"]},
  {"description":"Review code","status":"completed","project":"Work","end":"20250109T120000Z"},
  {"description":"Gone","status":"deleted"}
]`

func TestImport(t *testing.T) {
	tc := newTestCLI(t)
	tc.writeTodo(t, "existing")
	tc.writeFile(t, "/in/tasks.json", taskwarriorExport)

	out := tc.mustRun(t, "import", "--format", "taskwarrior", "/in/tasks.json")

	assert.Contains(t, out, "Imported 2 task(s), skipped 1")
	assert.Equal(t,
		"existing\n(A) 2025-01-10 Buy milk +Home @errand\nx 2025-01-09 2025-01-10 Review code +Work\n",
		tc.readTodo(t))
}

func TestImport_NumberMode(t *testing.T) {
	tc := newTestCLI(t)
	tc.writeFile(t, "/in/tasks.json", taskwarriorExport)

	tc.mustRun(t, "--priority-mode", "number", "import", "--format", "taskwarrior", "/in/tasks.json")

	assert.True(t, strings.HasPrefix(tc.readTodo(t), "(0) 2025-01-10 Buy milk"))
}

func TestImport_DryRun(t *testing.T) {
	tc := newTestCLI(t)
	tc.writeFile(t, "/in/tasks.json", taskwarriorExport)

	out := tc.mustRun(t, "import", "--format", "TaskWarrior", "--dry-run", "/in/tasks.json")

	assert.Contains(t, out, "Preview: 2 task(s) to import from taskwarrior")
	assert.Contains(t, out, "Buy milk +Home @errand")
	exists, _ := afero.Exists(tc.fs, testTodoFile)
	assert.False(t, exists, "dry run must not write the todo file")
}

func TestImport_Errors(t *testing.T) {
	tc := newTestCLI(t)

	_, err := tc.run("import", "/in/tasks.json")
	assert.ErrorContains(t, err, `required flag(s) "format" not set`)

	_, err = tc.run("import", "--format", "asana", "/in/tasks.json")
	assert.ErrorContains(t, err, `unknown format "asana"`)

	_, err = tc.run("import", "--format", "todoist", "/in/missing.csv")
	assert.Error(t, err)
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{time.Hour, "1 hour ago"},
		{5 * time.Hour, "5 hours ago"},
		{30 * time.Hour, "1 day ago"},
		{3 * 24 * time.Hour, "3 days ago"},
		{8 * 24 * time.Hour, "1 week ago"},
		{21 * 24 * time.Hour, "3 weeks ago"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAge(tt.d), "formatAge(%v)", tt.d)
	}
}
