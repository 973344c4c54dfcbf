// Package csvtable reads, repairs, and writes the episode metadata CSV files
// handed to the import tool.
//
// The parser is deliberately tolerant: a logical row broken across physical
// lines by an unquoted newline is reassembled by matching field counts against
// the header, and two rows run together on one line are split apart using the
// "episode,name,YYYY-MM-DD" shape that starts every row. Buffers that cannot be
// reconciled are dropped rather than failing the whole file; ParseStats reports
// how many were lost so callers can surface it.
//
// Serialize is the inverse of Parse for any table without bare carriage
// returns, and WriteFile replaces the target through a temp file rename.
package csvtable
