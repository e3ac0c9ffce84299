// Package logging provides the logging interface shared by the omnisum
// components. It hides the concrete backend (zerolog or the standard library
// logger) behind a small interface with typed fields so that the orchestrator,
// the REST client and the user surfaces log the same way.
package logging
