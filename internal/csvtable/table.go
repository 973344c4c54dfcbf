package csvtable

// Table is a parsed CSV file. After Parse every row has len(Headers) cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Clone returns a deep copy so transforms never alias the caller's rows.
func (t Table) Clone() Table {
	out := Table{}
	if t.Headers != nil {
		out.Headers = append([]string(nil), t.Headers...)
	}
	if t.Rows != nil {
		out.Rows = make([][]string, len(t.Rows))
		for i, row := range t.Rows {
			out.Rows[i] = append([]string(nil), row...)
		}
	}
	return out
}

// ParseStats describes how much of the input survived repair.
type ParseStats struct {
	// PhysicalLines counts non-blank lines after the header.
	PhysicalLines int `json:"physical_lines"`
	// Rows counts committed rows.
	Rows int `json:"rows"`
	// DroppedBuffers counts repair buffers discarded because they could not
	// be reconciled to the header width.
	DroppedBuffers int `json:"dropped_buffers"`
	// DroppedLines counts the physical lines inside those buffers.
	DroppedLines int `json:"dropped_lines"`
}

// Lossy reports whether any input was discarded during repair.
func (s ParseStats) Lossy() bool {
	return s.DroppedBuffers > 0
}
