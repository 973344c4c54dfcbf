package logs

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Entry is one decoded JSON log record.
type Entry struct {
	Time      time.Time
	Level     string
	Message   string
	Component string
	JobID     string
	Stage     string
	Fields    map[string]any
}

var reservedKeys = map[string]struct{}{
	"ts":        {},
	"level":     {},
	"msg":       {},
	"component": {},
	"job_id":    {},
	"stage":     {},
	"source":    {},
}

// ParseEntry decodes a JSON log line. It reports false for lines that are not
// JSON objects.
func ParseEntry(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	entry := Entry{
		Level:     stringField(raw, "level"),
		Message:   stringField(raw, "msg"),
		Component: stringField(raw, "component"),
		JobID:     stringField(raw, "job_id"),
		Stage:     stringField(raw, "stage"),
	}
	if ts := stringField(raw, "ts"); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			entry.Time = parsed
		}
	}
	for key, value := range raw {
		if _, reserved := reservedKeys[key]; reserved {
			continue
		}
		if entry.Fields == nil {
			entry.Fields = make(map[string]any)
		}
		entry.Fields[key] = value
	}
	return entry, true
}

// MatchJob returns a line filter keeping records whose job_id starts with
// prefix. An empty prefix matches every line.
func MatchJob(prefix string) func(string) bool {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil
	}
	needle := `"job_id":"` + prefix
	return func(line string) bool {
		if !strings.Contains(line, needle) {
			return false
		}
		entry, ok := ParseEntry(line)
		return ok && strings.HasPrefix(entry.JobID, prefix)
	}
}

// Format renders an entry as a single human-readable line.
func (e Entry) Format() string {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}
	b.WriteString(strings.ToUpper(e.Level))
	if e.Component != "" {
		fmt.Fprintf(&b, " [%s]", e.Component)
	}
	if e.JobID != "" {
		id := e.JobID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(&b, " %s", id)
	}
	b.WriteString(" ")
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%v", key, e.Fields[key])
	}
	return b.String()
}

func stringField(raw map[string]any, key string) string {
	if value, ok := raw[key].(string); ok {
		return value
	}
	return ""
}
