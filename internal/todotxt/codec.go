package todotxt

import (
	"strings"
	"unicode"
)

// Parse decodes a single line into a Task with the given id.
// Blank lines yield ok == false.
//
// Leading tokens are consumed greedily in order: the "x " completion marker
// and its optional date, the "(X)" priority, then the creation date. A
// completed task only carries a priority when a completion date preceded it,
// so "x (A) text" keeps "(A)" as part of the text.
func Parse(line string, id int) (Task, bool) {
	rest := strings.TrimSpace(line)
	if rest == "" {
		return Task{}, false
	}

	t := Task{ID: id}

	if strings.HasPrefix(rest, "x ") {
		t.Completed = true
		rest = strings.TrimSpace(rest[2:])
		if tok, after := firstToken(rest); IsDate(tok) {
			t.CompletionDate = tok
			rest = after
		}
	}

	if !t.Completed || t.CompletionDate != "" {
		if tok, after := firstToken(rest); tok != "" {
			if p, ok := priorityToken(tok); ok {
				t.Priority = p
				rest = after
			}
		}
	}

	if tok, after := firstToken(rest); IsDate(tok) {
		t.CreationDate = tok
		rest = after
	}

	t.SetText(rest)
	return t, true
}

// Serialize encodes a task as a canonical todo.txt line. Text is emitted
// verbatim; the derived tags are never consulted.
func Serialize(t Task) string {
	parts := make([]string, 0, 5)
	if t.Completed {
		parts = append(parts, "x")
		if t.CompletionDate != "" {
			parts = append(parts, t.CompletionDate)
		}
	}
	if t.Priority != "" {
		parts = append(parts, "("+t.Priority+")")
	}
	if t.CreationDate != "" {
		parts = append(parts, t.CreationDate)
	}
	parts = append(parts, t.Text)
	return strings.Join(parts, " ")
}

// ParseFile decodes a whole file. Ids are 1-based line positions; blank
// lines are skipped but still advance the position.
func ParseFile(content string) []Task {
	lines := strings.Split(content, "\n")
	tasks := make([]Task, 0, len(lines))
	for i, line := range lines {
		if t, ok := Parse(strings.TrimSuffix(line, "\r"), i+1); ok {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// SerializeFile encodes tasks one per line with a single trailing newline.
// An empty list is a lone newline.
func SerializeFile(tasks []Task) string {
	if len(tasks) == 0 {
		return "\n"
	}
	var sb strings.Builder
	for _, t := range tasks {
		sb.WriteString(Serialize(t))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ExtractTags derives contexts, projects and key:value metadata from a
// task description. Each whitespace-delimited run is classified on its own;
// results keep their order of appearance and a repeated metadata key keeps
// the last value.
func ExtractTags(text string) (contexts, projects []string, metadata map[string]string) {
	for _, tok := range strings.Fields(text) {
		switch {
		case len(tok) > 1 && tok[0] == '@':
			contexts = append(contexts, tok[1:])
		case len(tok) > 1 && tok[0] == '+':
			projects = append(projects, tok[1:])
		}

		key, value, ok := metadataToken(tok)
		if !ok {
			continue
		}
		if metadata == nil {
			metadata = make(map[string]string)
		}
		metadata[key] = value
	}
	return contexts, projects, metadata
}

// metadataToken splits key:value. Only the first two colon-separated parts
// count, so "url:http://x" yields key "url" and value "http".
func metadataToken(tok string) (key, value string, ok bool) {
	parts := strings.Split(tok, ":")
	if len(parts) < 2 {
		return "", "", false
	}
	key, value = parts[0], parts[1]
	if key == "" || value == "" {
		return "", "", false
	}
	if key[0] == '@' || key[0] == '+' {
		return "", "", false
	}
	return key, value, true
}

// priorityToken recognizes exactly "(X)" with X in A-Z or 0-9.
func priorityToken(tok string) (string, bool) {
	if len(tok) != 3 || tok[0] != '(' || tok[2] != ')' {
		return "", false
	}
	c := tok[1]
	if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
		return string(c), true
	}
	return "", false
}

// firstToken returns the leading whitespace-delimited run and the trimmed
// remainder.
func firstToken(s string) (tok, rest string) {
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, ""
	}
	return s[:end], strings.TrimSpace(s[end:])
}
