// Package logs reads the JSON log file written next to the console output.
//
// Tail returns the last N matching lines or everything after a byte offset,
// optionally waiting for new lines to arrive. ParseEntry decodes one JSON
// record so the CLI can filter by job and print a compact line.
package logs
