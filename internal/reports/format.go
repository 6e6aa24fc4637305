package reports

import (
	"encoding/json"
	"fmt"
	"strings"

	"todo/internal/todotxt"
)

// FormatDailyMarkdown renders a daily report as Markdown.
func FormatDailyMarkdown(r *DailyReport) string {
	var sb strings.Builder
	s := r.Summary

	fmt.Fprintf(&sb, "# Daily Report: %s\n\n", r.Date.Format("Monday, January 2, 2006"))
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- **Active:** %d of %d\n", s.Active, s.Total)
	fmt.Fprintf(&sb, "- **Done today:** %d\n", s.DoneToday)
	fmt.Fprintf(&sb, "- **Due today:** %d\n", s.DueToday)
	fmt.Fprintf(&sb, "- **Overdue:** %d\n", s.Overdue)

	writeTaskSection(&sb, "Completed", r.CompletedOn)
	writeTaskSection(&sb, "Due or Overdue", r.DueOrOverdue)
	writeTaskSection(&sb, "Added", r.AddedOn)
	writeTagTable(&sb, "Projects", "+", s.ByProject)
	writeTagTable(&sb, "Contexts", "@", s.ByContext)

	return sb.String()
}

// FormatWeeklyMarkdown renders a weekly report as Markdown.
func FormatWeeklyMarkdown(r *WeeklyReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Weekly Report: %s - %s\n\n",
		r.StartDate.Format("Jan 2"), r.EndDate.Format("Jan 2, 2006"))
	fmt.Fprintf(&sb, "- **Completed:** %d\n", r.TotalCompleted)
	fmt.Fprintf(&sb, "- **Added:** %d\n\n", r.TotalAdded)

	sb.WriteString("## By Day\n\n")
	sb.WriteString("| Day | Date | Completed | Added |\n")
	sb.WriteString("|-----|------|-----------|-------|\n")
	for _, d := range r.ByDay {
		fmt.Fprintf(&sb, "| %s | %s | %d | %d |\n", d.DayOfWeek, d.Date, d.Completed, d.Added)
	}

	if len(r.ByProject) > 0 {
		sb.WriteString("\n## Completed by Project\n\n")
		for _, p := range r.ByProject {
			fmt.Fprintf(&sb, "- %s: %d\n", p.Name, p.Done)
		}
	}
	return sb.String()
}

func writeTaskSection(sb *strings.Builder, title string, tasks []todotxt.Task) {
	if len(tasks) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n## %s (%d)\n\n", title, len(tasks))
	for _, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		fmt.Fprintf(sb, "- %s %s\n", box, todotxt.Serialize(t))
	}
}

func writeTagTable(sb *strings.Builder, title, prefix string, counts []TagCount) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n## %s\n\n", title)
	sb.WriteString("| Tag | Open | Done |\n")
	sb.WriteString("|-----|------|------|\n")
	for _, c := range counts {
		fmt.Fprintf(sb, "| %s%s | %d | %d |\n", prefix, c.Name, c.Open, c.Done)
	}
}

// FormatJSON renders a daily or weekly report as indented JSON with a
// trailing newline.
func FormatJSON(report any) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
