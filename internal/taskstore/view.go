package taskstore

import (
	"fmt"
	"sort"
	"strings"

	"todo/internal/priority"
	"todo/internal/todotxt"

	"golang.org/x/text/cases"
)

// SortMode orders the derived view within each completion group.
type SortMode string

const (
	SortPriority SortMode = "priority"
	SortDate     SortMode = "date"
	SortProject  SortMode = "project"
	SortContext  SortMode = "context"
)

// SortModes lists the modes in cycling order.
var SortModes = []SortMode{SortPriority, SortDate, SortProject, SortContext}

// ParseSortMode accepts one of the SortModes names.
func ParseSortMode(s string) (SortMode, error) {
	for _, m := range SortModes {
		if string(m) == strings.ToLower(strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown sort mode %q (want priority, date, project or context)", s)
}

// Next returns the mode after m in cycling order.
func (m SortMode) Next() SortMode {
	for i, mode := range SortModes {
		if mode == m {
			return SortModes[(i+1)%len(SortModes)]
		}
	}
	return SortPriority
}

// FilterType names a structured filter.
type FilterType string

const (
	FilterPriority  FilterType = "priority"
	FilterProject   FilterType = "project"
	FilterContext   FilterType = "context"
	FilterDue       FilterType = "due"
	FilterDoneToday FilterType = "done-today"
	FilterActive    FilterType = "active"
)

// Filter is a single structured filter. Value is used by the priority,
// project and context types.
type Filter struct {
	Type  FilterType
	Value string
}

// Label renders the filter for titles and status lines.
func (f Filter) Label() string {
	switch f.Type {
	case FilterPriority:
		return "(" + f.Value + ")"
	case FilterProject:
		return "+" + f.Value
	case FilterContext:
		return "@" + f.Value
	case FilterDue:
		return "due/overdue"
	case FilterDoneToday:
		return "done today"
	case FilterActive:
		return "active"
	}
	return string(f.Type)
}

// ParseFilter reads the compact filter syntax shared by the CLI and the
// command line: +project, @context, (A) or a bare priority, and the names
// due, done-today and active.
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	switch {
	case len(s) > 1 && s[0] == '+':
		return Filter{Type: FilterProject, Value: s[1:]}, nil
	case len(s) > 1 && s[0] == '@':
		return Filter{Type: FilterContext, Value: s[1:]}, nil
	case len(s) == 3 && s[0] == '(' && s[2] == ')':
		s = s[1:2]
	}
	if len(s) == 1 && (priority.IsValid(strings.ToUpper(s), priority.Letter) || priority.IsValid(s, priority.Number)) {
		return Filter{Type: FilterPriority, Value: strings.ToUpper(s)}, nil
	}
	switch t := FilterType(strings.ToLower(s)); t {
	case FilterDue, FilterDoneToday, FilterActive:
		return Filter{Type: t}, nil
	}
	return Filter{}, fmt.Errorf("unknown filter %q (want +project, @context, (A), due, done-today or active)", s)
}

func (f Filter) match(t todotxt.Task, today string, mode priority.Mode) bool {
	switch f.Type {
	case FilterPriority:
		return t.Priority != "" && priority.Normalize(t.Priority, mode) == priority.Normalize(f.Value, mode)
	case FilterProject:
		return t.HasProject(f.Value)
	case FilterContext:
		return t.HasContext(f.Value)
	case FilterDue:
		return t.IsDueBy(today)
	case FilterDoneToday:
		return t.CompletedOn(today)
	case FilterActive:
		return !t.Completed
	}
	return true
}

// Query is everything the derived view depends on besides the tasks.
type Query struct {
	ShowCompleted bool
	Search        string
	Filter        *Filter
	Sort          SortMode
	Mode          priority.Mode
	Today         string // YYYY-MM-DD
}

// Derive filters and sorts tasks. It is a pure function of its inputs and
// returns copies that share nothing with tasks.
//
// An active structured filter replaces the completed-visibility rule; the
// free-text search then narrows whichever rule applied.
func Derive(tasks []todotxt.Task, q Query) []todotxt.Task {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(q.Search))

	out := make([]todotxt.Task, 0, len(tasks))
	for _, t := range tasks {
		if q.Filter != nil {
			if !q.Filter.match(t, q.Today, q.Mode) {
				continue
			}
		} else if t.Completed && !q.ShowCompleted {
			continue
		}
		if needle != "" && !matchesSearch(folder, t, needle) {
			continue
		}
		out = append(out, t.Clone())
	}

	SortTasks(out, q.Sort, q.Mode)
	return out
}

// SortTasks orders tasks in place: incomplete before completed, then by
// mode, then by id.
func SortTasks(tasks []todotxt.Task, mode SortMode, pmode priority.Mode) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return less(tasks[i], tasks[j], mode, pmode)
	})
}

func less(a, b todotxt.Task, mode SortMode, pmode priority.Mode) bool {
	if a.Completed != b.Completed {
		return !a.Completed
	}

	switch mode {
	case SortPriority:
		pa, pb := priority.Normalize(a.Priority, pmode), priority.Normalize(b.Priority, pmode)
		if pa != pb {
			return missingLast(pa, pb)
		}
	case SortDate:
		if a.CreationDate != b.CreationDate {
			return missingLast(a.CreationDate, b.CreationDate)
		}
	case SortProject:
		if pa, pb := first(a.Projects), first(b.Projects); pa != pb {
			return pa < pb
		}
	case SortContext:
		if ca, cb := first(a.Contexts), first(b.Contexts); ca != cb {
			return ca < cb
		}
	}

	return a.ID < b.ID
}

// missingLast compares two distinct strings, ordering "" after everything.
func missingLast(a, b string) bool {
	switch {
	case a == "":
		return false
	case b == "":
		return true
	}
	return a < b
}

func first(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[0]
}

func matchesSearch(folder cases.Caser, t todotxt.Task, needle string) bool {
	if strings.Contains(folder.String(t.Text), needle) {
		return true
	}
	for _, c := range t.Contexts {
		if strings.Contains(folder.String(c), needle) {
			return true
		}
	}
	for _, p := range t.Projects {
		if strings.Contains(folder.String(p), needle) {
			return true
		}
	}
	return false
}
