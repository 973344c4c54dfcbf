// Package services defines shared utilities consumed by the import pipeline
// stages and the external tool integration.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that tag failures with the
//     import taxonomy (missing file, empty file, spawn failure, ...).
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
