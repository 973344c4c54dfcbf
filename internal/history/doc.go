// Package history persists one row per import run in a SQLite database so
// past outcomes can be listed and inspected from the CLI.
//
// The schema is managed through embedded, ordered SQL migrations recorded in a
// schema_migrations table.
package history
