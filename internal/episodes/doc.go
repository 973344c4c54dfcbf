// Package episodes applies caller-supplied edits to a parsed episode table
// before it is handed to the import tool: deleting rows by episode number,
// trimming titles at a marker, and blanking or removing whole columns.
//
// Every decision is fail-open. A missing column, a short row, or an episode
// cell that is not an integer leaves the data untouched rather than aborting,
// and Transform reports per-row decisions so callers can see what happened.
// Transform is pure; reading and writing files belongs to csvtable.
package episodes
