// Package config loads, normalizes, and validates configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the TMDB_IMPORT_DIR environment
// fallback for the import tool checkout. The Config type centralizes every
// knob the CLI and import pipeline need: where the external tool lives, how
// its target reference is built, how prompts and timeouts are handled, and
// where history and logs are written.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
