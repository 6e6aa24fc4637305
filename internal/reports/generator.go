package reports

import (
	"sort"
	"time"

	"todo/internal/priority"
	"todo/internal/todotxt"
)

// noProject labels tasks without a +project in weekly breakdowns.
const noProject = "(none)"

// Loader supplies the task list. *storage.FileStore satisfies it.
type Loader interface {
	Load() ([]todotxt.Task, error)
}

// Generator creates reports from a task file.
type Generator struct {
	loader Loader
	mode   priority.Mode
	now    func() time.Time
}

// NewGenerator creates a new report generator.
func NewGenerator(loader Loader, mode priority.Mode) *Generator {
	return &Generator{loader: loader, mode: mode, now: time.Now}
}

// SetNowFunc overrides the clock used for GeneratedAt.
func (g *Generator) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	g.now = now
}

// Summarize computes the summary of tasks as of today (YYYY-MM-DD).
// Priorities are normalized to mode before counting.
func Summarize(tasks []todotxt.Task, today string, mode priority.Mode) Summary {
	s := Summary{Date: today, Total: len(tasks)}
	projects := make(map[string]*TagCount)
	contexts := make(map[string]*TagCount)
	priorities := make(map[string]*TagCount)

	for _, t := range tasks {
		if t.Completed {
			s.Completed++
			if t.CompletedOn(today) {
				s.DoneToday++
			}
		} else {
			s.Active++
			if due, ok := t.Due(); ok {
				switch {
				case due == today:
					s.DueToday++
				case due < today:
					s.Overdue++
				}
			}
		}

		for _, p := range t.Projects {
			count(projects, p, t.Completed)
		}
		for _, c := range t.Contexts {
			count(contexts, c, t.Completed)
		}
		if t.Priority != "" {
			count(priorities, priority.Normalize(t.Priority, mode), t.Completed)
		}
	}

	s.ByProject = sortedCounts(projects)
	s.ByContext = sortedCounts(contexts)
	s.ByPriority = sortedCounts(priorities)
	return s
}

// GenerateDaily generates a report for a specific date.
func (g *Generator) GenerateDaily(date time.Time) (*DailyReport, error) {
	tasks, err := g.loader.Load()
	if err != nil {
		return nil, err
	}

	date = startOfDay(date)
	day := date.Format(todotxt.DateLayout)

	report := &DailyReport{
		Date:        date,
		Summary:     Summarize(tasks, day, g.mode),
		GeneratedAt: g.now(),
	}
	for _, t := range tasks {
		if t.CompletedOn(day) {
			report.CompletedOn = append(report.CompletedOn, t)
		}
		if t.CreationDate == day {
			report.AddedOn = append(report.AddedOn, t)
		}
		if t.IsDueBy(day) {
			report.DueOrOverdue = append(report.DueOrOverdue, t)
		}
	}
	return report, nil
}

// GenerateWeekly generates a report for the week containing startDate,
// aligned to Sunday.
func (g *Generator) GenerateWeekly(startDate time.Time) (*WeeklyReport, error) {
	tasks, err := g.loader.Load()
	if err != nil {
		return nil, err
	}

	// Align to start of week (Sunday)
	start := startOfWeekSunday(startDate)
	end := start.AddDate(0, 0, 7)

	byDay := make([]DayTaskCount, 7)
	index := make(map[string]int, 7)
	for i := range byDay {
		day := start.AddDate(0, 0, i)
		byDay[i] = DayTaskCount{
			Date:      day.Format(todotxt.DateLayout),
			DayOfWeek: day.Format("Mon"),
		}
		index[byDay[i].Date] = i
	}

	report := &WeeklyReport{
		StartDate:   start,
		EndDate:     end.Add(-time.Nanosecond), // End of last day
		ByDay:       byDay,
		GeneratedAt: g.now(),
	}

	projects := make(map[string]*TagCount)
	for _, t := range tasks {
		if i, ok := index[t.CreationDate]; ok {
			byDay[i].Added++
			report.TotalAdded++
		}
		if !t.Completed {
			continue
		}
		i, ok := index[t.CompletionDate]
		if !ok {
			continue
		}
		byDay[i].Completed++
		report.TotalCompleted++
		if len(t.Projects) == 0 {
			count(projects, noProject, true)
		}
		for _, p := range t.Projects {
			count(projects, p, true)
		}
	}
	report.ByProject = sortedCounts(projects)
	sort.SliceStable(report.ByProject, func(i, j int) bool {
		return report.ByProject[i].Done > report.ByProject[j].Done
	})
	return report, nil
}

func count(m map[string]*TagCount, name string, done bool) {
	c, ok := m[name]
	if !ok {
		c = &TagCount{Name: name}
		m[name] = c
	}
	if done {
		c.Done++
	} else {
		c.Open++
	}
}

func sortedCounts(m map[string]*TagCount) []TagCount {
	out := make([]TagCount, 0, len(m))
	for _, c := range m {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Helper functions

// startOfDay returns the start of the day (midnight).
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeekSunday returns the start of the week (Sunday).
func startOfWeekSunday(t time.Time) time.Time {
	t = startOfDay(t)
	weekday := int(t.Weekday())
	return t.AddDate(0, 0, -weekday)
}
