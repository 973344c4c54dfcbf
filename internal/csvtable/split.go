package csvtable

import (
	"strings"
	"unicode"
)

// SplitFields tokenizes a single line. A double quote toggles quoting, commas
// separate fields only outside quotes, and a doubled quote inside quotes yields
// one literal quote. Whitespace at field edges is trimmed unless it sits inside
// quotes. Unbalanced quotes leave the rest of the line in one field.
func SplitFields(line string) []string {
	fields, _ := splitLine(line)
	return fields
}

// splitLine is SplitFields that also reports whether the line ended inside an
// open quote.
func splitLine(line string) ([]string, bool) {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
		// Byte offsets into field bounding the quoted section, -1 if unset.
		quoteStart = -1
		quoteEnd   = -1
	)

	flush := func() {
		if inQuotes {
			quoteEnd = field.Len()
		}
		fields = append(fields, trimField(field.String(), quoteStart, quoteEnd))
		field.Reset()
		quoteStart, quoteEnd = -1, -1
	}

	// '"' and ',' are ASCII, so byte iteration is safe for UTF-8 input.
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			field.WriteByte('"')
			i++
		case c == '"':
			if !inQuotes && quoteStart < 0 {
				quoteStart = field.Len()
			}
			inQuotes = !inQuotes
			if !inQuotes {
				quoteEnd = field.Len()
			}
		case c == ',' && !inQuotes:
			flush()
		default:
			field.WriteByte(c)
		}
	}
	flush()
	return fields, inQuotes
}

func trimField(value string, quoteStart, quoteEnd int) string {
	if quoteStart < 0 {
		return strings.TrimSpace(value)
	}
	if quoteEnd < quoteStart {
		quoteEnd = len(value)
	}
	lead := strings.TrimLeftFunc(value[:quoteStart], unicode.IsSpace)
	tail := strings.TrimRightFunc(value[quoteEnd:], unicode.IsSpace)
	return lead + value[quoteStart:quoteEnd] + tail
}
