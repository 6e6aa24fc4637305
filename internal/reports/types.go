// Package reports aggregates todo.txt task lists into summaries and
// daily/weekly reports.
package reports

import (
	"time"

	"todo/internal/todotxt"
)

// Summary is the at-a-glance state of a task list on a given day.
type Summary struct {
	Date       string      `json:"date"`
	Total      int         `json:"total"`
	Active     int         `json:"active"`
	Completed  int         `json:"completed"`
	DueToday   int         `json:"due_today"`
	Overdue    int         `json:"overdue"`
	DoneToday  int         `json:"done_today"`
	ByProject  []TagCount  `json:"by_project"`
	ByContext  []TagCount  `json:"by_context"`
	ByPriority []TagCount  `json:"by_priority"`
}

// DueOrOverdue counts open tasks due today or earlier.
func (s Summary) DueOrOverdue() int {
	return s.DueToday + s.Overdue
}

// TagCount counts open and completed tasks carrying one tag.
type TagCount struct {
	Name string `json:"name"`
	Open int    `json:"open"`
	Done int    `json:"done"`
}

// DailyReport contains the summary and the notable tasks of one day.
type DailyReport struct {
	Date         time.Time      `json:"date"`
	Summary      Summary        `json:"summary"`
	CompletedOn  []todotxt.Task `json:"completed"`
	AddedOn      []todotxt.Task `json:"added"`
	DueOrOverdue []todotxt.Task `json:"due_or_overdue"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// WeeklyReport contains completion and creation counts for a week.
type WeeklyReport struct {
	StartDate      time.Time      `json:"start_date"`
	EndDate        time.Time      `json:"end_date"`
	TotalCompleted int            `json:"total_completed"`
	TotalAdded     int            `json:"total_added"`
	ByProject      []TagCount     `json:"by_project"`
	ByDay          []DayTaskCount `json:"by_day"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// DayTaskCount represents task counts for a specific day.
type DayTaskCount struct {
	Date      string `json:"date"`
	DayOfWeek string `json:"day_of_week"`
	Completed int    `json:"completed"`
	Added     int    `json:"added"`
}
