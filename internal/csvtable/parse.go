package csvtable

import (
	"regexp"
	"strings"
)

// rowStartPattern matches the start of a logical row that was run together with
// the previous one: an episode number, a name, and an ISO air date. The leading
// whitespace is the separator inserted when physical lines are joined.
var rowStartPattern = regexp.MustCompile(`\s(\d+),[^,]*,\d{4}-\d{2}-\d{2}`)

// lineStartPattern is rowStartPattern anchored at the start of a physical line.
var lineStartPattern = regexp.MustCompile(`^\s*\d+,[^,]*,\d{4}-\d{2}-\d{2}`)

// Parse reads CSV text into a Table, repairing rows split across lines. It
// never fails: rows that cannot be reconciled to the header width are dropped
// and counted in the returned stats.
func Parse(text string) (Table, ParseStats) {
	text = strings.TrimPrefix(text, "\ufeff")
	lines := strings.Split(text, "\n")

	var (
		table  Table
		header *repairBuffer
		start  = len(lines)
	)
	for i, raw := range lines {
		line := strings.TrimSuffix(raw, "\r")
		if header == nil {
			if isBlank(line) {
				continue
			}
			header = &repairBuffer{}
		}
		header.append(line, true)
		if !header.open {
			table.Headers = SplitFields(header.text)
			start = i + 1
			break
		}
	}
	if header != nil && header.open {
		// The header never closed its quote; take it as-is.
		table.Headers = SplitFields(header.text)
	}
	if table.Headers == nil {
		return table, ParseStats{}
	}

	p := &rowParser{width: len(table.Headers), quoted: true}
	for _, raw := range lines[min(start, len(lines)):] {
		p.feed(strings.TrimSuffix(raw, "\r"))
	}
	p.finish()

	table.Rows = p.rows
	p.stats.Rows = len(p.rows)
	return table, p.stats
}

// repairBuffer is one logical line being reassembled from physical lines.
type repairBuffer struct {
	text  string
	parts []string
	open  bool
}

// append joins a physical line onto the buffer. When quoted is set, lines
// continuing an open quote keep their newline; anything else is joined with a
// single space.
func (b *repairBuffer) append(line string, quoted bool) {
	switch {
	case len(b.parts) == 0:
		b.text = line
	case b.open && quoted:
		b.text += "\n" + line
	default:
		b.text += " " + line
	}
	b.parts = append(b.parts, line)
	_, b.open = splitLine(b.text)
}

func (b *repairBuffer) reset() {
	*b = repairBuffer{}
}

func (b *repairBuffer) empty() bool {
	return len(b.parts) == 0
}

// rowParser reconciles physical lines to the header width. With quoted set,
// an open quote carries the buffer across lines so multi-line cells survive.
// Without it every line is space-joined and a buffer commits as soon as it
// has the header width.
type rowParser struct {
	width  int
	quoted bool
	buf    repairBuffer
	rows   [][]string
	stats  ParseStats
}

func (p *rowParser) feed(line string) {
	if isBlank(line) && !p.buf.open {
		return
	}
	p.stats.PhysicalLines++
	if p.quoted && p.buf.open && p.startsRow(line) {
		// The open quote was stray: the next line is a row of its own.
		p.closeStrayQuote()
	}
	p.buf.append(line, p.quoted)
	p.reconcile()
}

// startsRow reports whether a physical line reads as the start of a new row
// on its own rather than the continuation of a quoted cell.
func (p *rowParser) startsRow(line string) bool {
	if lineStartPattern.MatchString(line) {
		return true
	}
	if p.width < 2 {
		return false
	}
	fields, open := splitLine(line)
	return !open && len(fields) == p.width
}

// closeStrayQuote settles a buffer whose quote never closed before a new row
// began. It is replayed line by line without quote continuation.
func (p *rowParser) closeStrayQuote() {
	parts := p.buf.parts
	p.buf.reset()
	p.replay(parts)
}

// replay feeds lines through a space-joining parser and merges its rows and
// losses. PhysicalLines were already counted.
func (p *rowParser) replay(parts []string) {
	sub := &rowParser{width: p.width}
	for _, line := range parts {
		sub.feed(line)
	}
	sub.finish()
	p.rows = append(p.rows, sub.rows...)
	p.stats.DroppedBuffers += sub.stats.DroppedBuffers
	p.stats.DroppedLines += sub.stats.DroppedLines
}

func (p *rowParser) reconcile() {
	for !p.buf.empty() {
		fields, open := splitLine(p.buf.text)
		switch {
		case len(fields) == p.width && (!open || !p.quoted):
			p.commit(fields)
			p.buf.reset()
			return
		case len(fields) > p.width:
			prefix, rest, ok := p.splitAtRowBoundary()
			if !ok {
				p.drop()
				return
			}
			p.commit(prefix)
			p.buf.reset()
			p.buf.append(rest, p.quoted)
			// The remainder may already be a complete row.
		default:
			// Short, or the last cell is still inside quotes.
			return
		}
	}
}

// splitAtRowBoundary looks for the start of a second logical row inside the
// buffer and returns the first candidate whose prefix fits the header width.
func (p *rowParser) splitAtRowBoundary() ([]string, string, bool) {
	text := p.buf.text
	for _, loc := range rowStartPattern.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] == 0 {
			continue
		}
		prefix, open := splitLine(text[:loc[0]])
		if open || len(prefix) != p.width {
			continue
		}
		return prefix, text[loc[2]:], true
	}
	return nil, "", false
}

func (p *rowParser) finish() {
	if p.buf.empty() {
		return
	}
	if p.quoted && p.buf.open && len(p.buf.parts) > 1 {
		// A quote left open at end of input spanning several lines is not a
		// multi-line cell.
		p.closeStrayQuote()
		return
	}
	fields, _ := splitLine(p.buf.text)
	if len(fields) == p.width {
		p.commit(fields)
		p.buf.reset()
		return
	}
	p.drop()
}

func (p *rowParser) commit(fields []string) {
	p.rows = append(p.rows, fields)
}

func (p *rowParser) drop() {
	p.stats.DroppedBuffers++
	p.stats.DroppedLines += len(p.buf.parts)
	p.buf.reset()
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
