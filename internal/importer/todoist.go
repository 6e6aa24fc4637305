package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Todoist backups put the date in whatever form the user typed it.
var todoistLayouts = []string{
	"2006-01-02",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"01/02/2006",
}

// Todoist numbers priorities from 1 (urgent) to 4 (none).
var todoistPriorities = map[string]string{"1": "A", "2": "B", "3": "C"}

// csvHeader maps upper-cased column names to their index.
type csvHeader map[string]int

func newCSVHeader(row []string) csvHeader {
	h := make(csvHeader, len(row))
	for i, name := range row {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		h[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	return h
}

// get returns the trimmed cell, or "" when the row is too short.
func (h csvHeader) get(row []string, column string) string {
	i, ok := h[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseTodoist reads a Todoist CSV backup. Only rows of TYPE task are
// converted; notes and sections count as skipped.
func parseTodoist(r io.Reader) ([]PreviewTask, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read todoist header: %w", err)
	}
	header := newCSVHeader(first)
	for _, required := range []string{"TYPE", "CONTENT"} {
		if _, ok := header[required]; !ok {
			return nil, 0, fmt.Errorf("todoist export is missing the %s column", required)
		}
	}

	var previews []PreviewTask
	skipped := 0
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read todoist row %d: %w", line, err)
		}

		text := header.get(row, "CONTENT")
		if !strings.EqualFold(header.get(row, "TYPE"), "task") || text == "" {
			skipped++
			continue
		}

		p := PreviewTask{
			Text:     text,
			Project:  header.get(row, "PROJECT"),
			Priority: mapTodoistPriority(header.get(row, "PRIORITY")),
			Due:      parseTodoistDate(header.get(row, "DATE")),
		}
		if labels := header.get(row, "LABELS"); labels != "" {
			p.Tags = strings.Split(labels, ",")
		}
		previews = append(previews, p)
	}
	return previews, skipped, nil
}

func mapTodoistPriority(p string) string {
	return todoistPriorities[strings.TrimSpace(p)]
}

func parseTodoistDate(s string) string {
	return parseDate(s, todoistLayouts, time.Local)
}
