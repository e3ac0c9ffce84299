// Package apperrors holds the typed errors that decide how a failure is
// reported: which slot shows it, what line the CLI prints and which exit
// code the process returns.
package apperrors
