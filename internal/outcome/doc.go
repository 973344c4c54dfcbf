// Package outcome turns a finished import session into an ImportOutcome: a
// classification of how the run ended plus the best-effort list of episode
// numbers the tool reported as imported.
package outcome
