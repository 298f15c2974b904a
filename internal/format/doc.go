// Package format renders progress snapshots into the single terminal line
// shown by a progress bar, and provides the duration helpers used by the
// command-line summary.
//
// All functions are pure: they return strings and never perform I/O.
package format
