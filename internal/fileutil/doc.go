// Package fileutil holds the file replacement and backup helpers used when
// rewriting CSVs in place.
package fileutil
