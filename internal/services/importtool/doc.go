// Package importtool runs the external episode import command and supervises
// it until it exits.
//
// A Session launches the command in its own process group, answers overwrite
// prompts written to stdout, enforces a wall-clock budget with a terminate then
// kill escalation, and reports exactly one terminal Result. Launchers and timers
// are injectable so the state machine can be driven deterministically in tests.
package importtool
