// Package errors implements the kind-tagged error taxonomy used across
// the scan-planning core: Malformed, Schema, Io, and Internal failures
// are distinguished so callers can decide whether to keep scanning.
package errors

import (
	"context"
	goerrors "errors"
	"fmt"
)

// Kind classifies a core error for the caller's recovery decision.
type Kind int

const (
	// KindUnknown is the zero value, so it is not mistaken for a real
	// classification. No constructor here produces it; ClassifyKind
	// returns it for errors that are not an *Error.
	KindUnknown Kind = iota
	// KindMalformed marks bad column-name syntax or other unparsable input.
	KindMalformed
	// KindSchema marks a value that fails to parse against a declared type.
	KindSchema
	// KindIo marks a propagated upstream batch-producer failure.
	KindIo
	// KindInternal marks an invariant violation — a bug, not a data problem.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindSchema:
		return "schema"
	case KindIo:
		return "io"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind and a short description.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, letting
// callers write errors.Is(err, errors.Malformed("")) style checks if
// they only care about the kind and not the message.
func (e *Error) Is(target error) bool {
	var other *Error
	if goerrors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// Malformed constructs a KindMalformed error.
func Malformed(format string, args ...any) *Error {
	return &Error{Kind: KindMalformed, Message: fmt.Sprintf(format, args...)}
}

// Schema constructs a KindSchema error.
func Schema(format string, args ...any) *Error {
	return &Error{Kind: KindSchema, Message: fmt.Sprintf(format, args...)}
}

// Io wraps an upstream error as KindIo. The cause is kept unchanged and
// is reachable through Unwrap; Error() prefixes it with the kind and a
// fixed description.
func Io(cause error) *Error {
	return &Error{Kind: KindIo, Message: "upstream batch producer error", Cause: cause}
}

// Internal constructs a KindInternal error for an invariant violation.
func Internal(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// ClassifyKind returns the Kind of err if it is (or wraps) an *Error,
// and KindUnknown otherwise.
func ClassifyKind(err error) Kind {
	var e *Error
	if goerrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsCancellation reports whether err is, or wraps, a context
// cancellation or an expired context deadline.
func IsCancellation(err error) bool {
	return goerrors.Is(err, context.Canceled) || goerrors.Is(err, context.DeadlineExceeded)
}
