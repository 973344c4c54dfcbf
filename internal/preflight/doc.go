// Package preflight provides readiness checks for the import tool and the
// filesystem paths the importer writes to.
//
// The CLI "config validate" command runs RunAll and prints one status line per
// check. History checks are skipped when history is disabled.
package preflight
