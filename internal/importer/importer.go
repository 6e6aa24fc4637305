// Package importer converts task exports from other tools into todo.txt
// tasks.
package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"todo/internal/priority"
	"todo/internal/todotxt"
)

// Result counts what an import wrote.
type Result struct {
	Imported int
	Skipped  int      // notes, sections, deleted and empty rows
	Errors   []string // one entry per task the store rejected
}

// PreviewTask is a converted task before it is written.
type PreviewTask struct {
	Text           string
	Project        string
	Tags           []string
	Priority       string // letter, "" when unset
	Due            string // YYYY-MM-DD
	CreationDate   string
	CompletionDate string
	Done           bool
}

// Adder is the subset of the file store an import writes through.
type Adder interface {
	Add(task todotxt.Task) (todotxt.Task, error)
}

// Options controls how previews become tasks.
type Options struct {
	Today time.Time     // creation date for rows that carry none
	Mode  priority.Mode // priority notation written to the file
}

// parseFunc reads one export and returns the convertible rows plus the
// number of rows it skipped.
type parseFunc func(r io.Reader) ([]PreviewTask, int, error)

// Importer reads one export format.
type Importer struct {
	name  string
	parse parseFunc
}

var importers = []*Importer{
	{name: "todoist", parse: parseTodoist},
	{name: "taskwarrior", parse: parseTaskwarrior},
}

// GetImporter returns the importer for format, or nil when none matches.
func GetImporter(format string) *Importer {
	for _, imp := range importers {
		if imp.name == format {
			return imp
		}
	}
	return nil
}

// SupportedFormats lists the names GetImporter accepts.
func SupportedFormats() []string {
	names := make([]string, len(importers))
	for i, imp := range importers {
		names[i] = imp.name
	}
	return names
}

// Name returns the format name.
func (imp *Importer) Name() string {
	return imp.name
}

// Preview converts the export without writing anything.
func (imp *Importer) Preview(r io.Reader) ([]PreviewTask, error) {
	previews, _, err := imp.parse(r)
	return previews, err
}

// Import converts the export and appends every task through store. A task
// the store rejects is recorded in Result.Errors and the import continues.
func (imp *Importer) Import(r io.Reader, store Adder, opts Options) (*Result, error) {
	previews, skipped, err := imp.parse(r)
	if err != nil {
		return nil, err
	}

	result := &Result{Skipped: skipped}
	for _, p := range previews {
		if _, err := store.Add(p.Task(opts)); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", p.Text, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

// Task renders the preview as a todo.txt task. Project and tags become
// +project and @context tokens, the due date a due: tag.
func (p PreviewTask) Task(opts Options) todotxt.Task {
	parts := []string{p.Text}
	if p.Project != "" {
		parts = append(parts, "+"+tagToken(p.Project))
	}
	for _, tag := range p.Tags {
		if tag = tagToken(tag); tag != "" {
			parts = append(parts, "@"+tag)
		}
	}
	if p.Due != "" {
		parts = append(parts, "due:"+p.Due)
	}

	var today string
	if !opts.Today.IsZero() {
		today = opts.Today.Format(todotxt.DateLayout)
	}

	t := todotxt.Task{
		Priority:     priority.Normalize(p.Priority, opts.Mode),
		CreationDate: orDefault(p.CreationDate, today),
	}
	if p.Done {
		t.Completed = true
		t.CompletionDate = orDefault(p.CompletionDate, today)
	}
	t.SetText(strings.Join(parts, " "))
	return t
}

// tagToken folds a project or label name into a single todo.txt token.
func tagToken(name string) string {
	name = strings.TrimLeft(strings.TrimSpace(name), "@+#")
	return strings.Join(strings.Fields(name), "-")
}

// parseDate tries each layout in turn and returns the date in todo.txt
// form, or "" when none matches.
func parseDate(s string, layouts []string, loc *time.Location) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(time.Local).Format(todotxt.DateLayout)
		}
	}
	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
