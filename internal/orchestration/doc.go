// Package orchestration fans one artifact out to several inference endpoints
// concurrently and records each endpoint's outcome in a result container as
// it arrives. Runs are scoped by a monotonically increasing identifier so that
// a newer run supersedes an older one without any shared "current run" state.
package orchestration
