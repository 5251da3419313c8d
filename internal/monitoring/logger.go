// Package monitoring provides the injectable diagnostic logger shared across
// the collector. The scoring pipeline takes a TraceFunc per invocation rather
// than writing to any shared buffer, so concurrent submissions never
// interleave diagnostics.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// TraceFunc receives per-invocation diagnostics from the scoring pipeline.
// A nil TraceFunc disables tracing.
type TraceFunc func(format string, v ...interface{})

// Discard is a TraceFunc that drops all diagnostics.
func Discard(string, ...interface{}) {}
