// Package main hosts the tmdbimport CLI.
//
// The Cobra command tree repairs and edits episode CSV exports, drives the
// external import tool against a catalog season, and browses the import
// history. Configuration loading and logger setup live in commandContext so
// subcommands only translate flags into importjob requests and render results.
package main
