package model

import "fmt"

// Kind classifies the family of failure a boundary operation reports,
// matching the taxonomy every caller (library and CLI) branches on.
type Kind int

const (
	// KindInvalidInput covers malformed or out-of-range user input.
	KindInvalidInput Kind = iota
	// KindPathRejected covers any path that failed containment validation.
	KindPathRejected
	// KindNotFound covers project-root discovery failure or a missing session file.
	KindNotFound
	// KindInvalidTimestamp covers a stored timestamp that fails ISO-8601 parse.
	KindInvalidTimestamp
	// KindStoreWrite covers temp-file or rename failures in the session store.
	KindStoreWrite
	// KindCorrupted covers on-disk JSON that fails to parse when a read is required.
	KindCorrupted
	// KindUnknownAgent covers an agent name outside the canonical set.
	KindUnknownAgent
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindPathRejected:
		return "PathRejected"
	case KindNotFound:
		return "NotFound"
	case KindInvalidTimestamp:
		return "InvalidTimestamp"
	case KindStoreWrite:
		return "StoreWrite"
	case KindCorrupted:
		return "Corrupted"
	case KindUnknownAgent:
		return "UnknownAgent"
	default:
		return "Unknown"
	}
}

// Error is the sum-typed result carried across every library boundary
// in place of ad hoc error strings or panics.
type Error struct {
	Kind    Kind
	Message string
	// Value is the offending input, included only when safe to surface
	// (never secrets, never full audit-log contents).
	Value string
	// Cause is the underlying error, when one exists (e.g. an os.PathError).
	Cause error
}

func (e *Error) Error() string {
	if e.Value != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s (%q): %v", e.Kind, e.Message, e.Value, e.Cause)
		}
		return fmt.Sprintf("%s: %s (%q)", e.Kind, e.Message, e.Value)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an Error without an offending value or cause.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewErrorWithValue builds an Error carrying the offending input.
func NewErrorWithValue(kind Kind, message, value string) *Error {
	return &Error{Kind: kind, Message: message, Value: value}
}

// WrapError builds an Error carrying an underlying cause.
func WrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if ae, ok := err.(*Error); ok {
		e = ae
	} else {
		return false
	}
	return e.Kind == kind
}
