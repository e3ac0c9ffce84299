// Package ui holds the color themes shared by the line CLI and the
// dashboard, and decides when color output is appropriate.
package ui
