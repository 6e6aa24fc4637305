package importer

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
)

// taskwarriorRecord is one task from 'task export'.
type taskwarriorRecord struct {
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Project     string   `json:"project"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
	Due         string   `json:"due"`
	Entry       string   `json:"entry"`
	End         string   `json:"end"`
}

// Taskwarrior writes timestamps in ISO 8601 basic form, always UTC.
var taskwarriorLayouts = []string{
	"20060102T150405Z",
	"20060102T150405",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var taskwarriorPriorities = map[string]string{"H": "A", "M": "B", "L": "C"}

// parseTaskwarrior accepts either a JSON array or one object per line.
func parseTaskwarrior(r io.Reader) ([]PreviewTask, int, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return nil, 0, errors.New("empty input")
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read taskwarrior export: %w", err)
	}

	var records []taskwarriorRecord
	dec := json.NewDecoder(br)
	if first == '[' {
		if err := dec.Decode(&records); err != nil {
			return nil, 0, fmt.Errorf("decode taskwarrior export: %w", err)
		}
	} else {
		for n := 1; ; n++ {
			var rec taskwarriorRecord
			err := dec.Decode(&rec)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, 0, fmt.Errorf("decode taskwarrior record %d: %w", n, err)
			}
			records = append(records, rec)
		}
	}

	var previews []PreviewTask
	skipped := 0
	for _, rec := range records {
		p, ok := rec.preview()
		if !ok {
			skipped++
			continue
		}
		previews = append(previews, p)
	}
	return previews, skipped, nil
}

// peekNonSpace discards leading whitespace and returns the next byte
// without consuming it.
func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		if !unicode.IsSpace(rune(b[0])) {
			return b[0], nil
		}
		_, _ = br.Discard(1)
	}
}

// preview converts the record; deleted and empty tasks are skipped.
func (rec taskwarriorRecord) preview() (PreviewTask, bool) {
	text := strings.TrimSpace(rec.Description)
	if rec.Status == "deleted" || text == "" {
		return PreviewTask{}, false
	}

	p := PreviewTask{
		Text:         text,
		Project:      rec.Project,
		Tags:         rec.Tags,
		Priority:     mapTaskwarriorPriority(rec.Priority),
		Due:          parseTaskwarriorDate(rec.Due),
		CreationDate: parseTaskwarriorDate(rec.Entry),
		Done:         rec.Status == "completed",
	}
	if p.Done {
		p.CompletionDate = parseTaskwarriorDate(rec.End)
	}
	return p, true
}

// mapTaskwarriorPriority maps H, M and L to A, B and C.
func mapTaskwarriorPriority(p string) string {
	return taskwarriorPriorities[strings.ToUpper(strings.TrimSpace(p))]
}

func parseTaskwarriorDate(s string) string {
	return parseDate(s, taskwarriorLayouts, time.UTC)
}
