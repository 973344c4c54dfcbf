// Package importjob wires the CSV pipeline to the import tool.
//
// A Runner repairs and transforms an episode CSV in place, then launches the
// import tool against a target reference built from the configured template,
// classifies the result, and records it in the history store. Preparation
// errors (missing or empty files) are returned as errors; anything that goes
// wrong inside the tool comes back as an outcome.ImportOutcome instead.
//
// Jobs on the same CSV path are serialized with an advisory file lock held for
// the whole read, rewrite and import sequence.
package importjob
