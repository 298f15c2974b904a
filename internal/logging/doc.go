// Package logging provides the logging interface used across nqdm.
// It abstracts the underlying implementation so the progress driver and the
// command-line front end log through the same small API, backed by zerolog by
// default or by the standard library logger.
package logging
