// Package apperrors defines the structured error types of nqdm, allowing a
// clear distinction between error classes (configuration, validation,
// callback failures, timeouts) while carrying the underlying cause.
//
// All wrapping types implement Unwrap() so errors.Is and errors.As see
// through them.
package apperrors
