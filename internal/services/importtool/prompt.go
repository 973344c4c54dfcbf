package importtool

import "bytes"

// promptMarker pairs a lower-case pattern with what it means.
type promptMarker struct {
	pattern []byte
	meaning string
}

// promptMarkers are matched case-insensitively against raw stdout. Prompts
// are not newline terminated, so matching works on chunks.
var promptMarkers = []promptMarker{
	{pattern: []byte("already exists"), meaning: "conflict"},
	{pattern: []byte("overwrite"), meaning: "overwrite"},
	{pattern: []byte("(w/y/n)"), meaning: "choice"},
	{pattern: []byte("[w/y/n]"), meaning: "choice"},
	{pattern: []byte("w/y/n"), meaning: "choice"},
}

var maxPromptLen = func() int {
	longest := 0
	for _, m := range promptMarkers {
		longest = max(longest, len(m.pattern))
	}
	return longest
}()

// promptDetector finds prompt markers in a stream of chunks, including
// markers split across two reads.
type promptDetector struct {
	tail []byte
}

// Feed consumes the next chunk and reports the meaning of the first marker
// that ends inside it. Bytes up to the end of the last match are not carried
// over, so a prompt that completes a longer marker in the next chunk is not
// answered twice.
func (d *promptDetector) Feed(chunk []byte) (string, bool) {
	if len(chunk) == 0 {
		return "", false
	}
	window := make([]byte, 0, len(d.tail)+len(chunk))
	window = append(window, d.tail...)
	window = append(window, chunk...)
	lower := asciiLower(window)

	meaning, found, end := "", false, 0
	for _, m := range promptMarkers {
		idx := bytes.LastIndex(lower, m.pattern)
		if idx < 0 || idx+len(m.pattern) <= len(d.tail) {
			continue
		}
		if !found {
			meaning, found = m.meaning, true
		}
		end = max(end, idx+len(m.pattern))
	}

	window = window[end:]
	keep := maxPromptLen - 1
	if len(window) > keep {
		window = window[len(window)-keep:]
	}
	d.tail = append(d.tail[:0], window...)
	return meaning, found
}

// asciiLower folds A-Z only so byte offsets stay aligned with the input.
func asciiLower(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return out
}
