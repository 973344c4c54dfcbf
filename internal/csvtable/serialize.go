package csvtable

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Serialize renders the table as CSV text, headers first, rows joined by a
// single newline. Fields are quoted when they contain a comma, quote, or
// newline, or when they carry edge whitespace that the parser would trim.
func Serialize(t Table) string {
	if t.Headers == nil && len(t.Rows) == 0 {
		return ""
	}
	var b strings.Builder
	writeRecord(&b, t.Headers)
	for _, row := range t.Rows {
		b.WriteByte('\n')
		writeRecord(&b, row)
	}
	return b.String()
}

func writeRecord(b *strings.Builder, fields []string) {
	// A lone empty field would serialize to a blank line, which Parse skips.
	if len(fields) == 1 && fields[0] == "" {
		b.WriteString(`""`)
		return
	}
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		if !needsQuoting(field) {
			b.WriteString(field)
			continue
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
}

func needsQuoting(field string) bool {
	if field == "" {
		return false
	}
	if strings.ContainsAny(field, ",\"\n\r") {
		return true
	}
	first, _ := utf8.DecodeRuneInString(field)
	last, _ := utf8.DecodeLastRuneInString(field)
	return unicode.IsSpace(first) || unicode.IsSpace(last)
}
