package rci

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures for the ingestion collaborator.
type ErrorKind string

const (
	// KindMalformedBatch marks structurally invalid input: empty samples when
	// scoring is expected, out-of-range coordinates, negative speed. The
	// caller should treat it as a permanent client error.
	KindMalformedBatch ErrorKind = "malformed_batch"

	// KindInsufficientSamples marks a batch too short to resample. Soft
	// failure: the caller may store the GPS fix without a roughness value.
	KindInsufficientSamples ErrorKind = "insufficient_samples"

	// KindProcessingFailure marks numerical instability inside the filter or
	// scorer. Surfaced as retryable; the submission is not scored.
	KindProcessingFailure ErrorKind = "processing_failure"
)

// Error is the typed failure returned by the pipeline. It never wraps a
// panic outward; the pipeline converts panics into KindProcessingFailure.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func malformed(format string, v ...interface{}) *Error {
	return &Error{Kind: KindMalformedBatch, Msg: fmt.Sprintf(format, v...)}
}

func insufficient(format string, v ...interface{}) *Error {
	return &Error{Kind: KindInsufficientSamples, Msg: fmt.Sprintf(format, v...)}
}

func processing(err error, format string, v ...interface{}) *Error {
	return &Error{Kind: KindProcessingFailure, Msg: fmt.Sprintf(format, v...), Err: err}
}

// KindOf extracts the ErrorKind from err, or empty string for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
