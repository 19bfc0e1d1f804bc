package cjson

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
type Kind string

const (
	// KindUsage means the driving walker broke the call sequence
	// (for example a member event with no open object). It is an
	// invariant violation, not a data error.
	KindUsage Kind = "Usage"
	// KindUnsupported means the value cannot be represented canonically:
	// floating point numbers, float-shaped number strings, invalid UTF-8.
	KindUnsupported Kind = "Unsupported"
	// KindFragment means a spliced raw fragment was not one valid JSON text.
	KindFragment Kind = "Fragment"
	// KindSink wraps an error returned by the output writer.
	KindSink Kind = "Sink"
	// KindDuplicate is returned in strict mode when an object repeats a key.
	KindDuplicate Kind = "Duplicate"
	// KindNonCanonical is returned by CheckCanonical.
	KindNonCanonical Kind = "NonCanonical"
)

// Error is the package's structured error type.
//
// RuleID is a stable identifier (e.g. CJSON-NUM-001) naming the violated rule.
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return "cjson: " + e.Message + ": " + e.Cause.Error()
	}
	return "cjson: " + e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}

var (
	errNoOpenObject = newError(KindUsage, "CJSON-USE-001", "object member event without an open object")
	errOutOfOrder   = newError(KindUsage, "CJSON-USE-002", "object member events out of order")
	errFloat        = newError(KindUnsupported, "CJSON-NUM-001", "floating point numbers are not allowed")
	errFloatString  = newError(KindUnsupported, "CJSON-NUM-002", "floating point numbers are not allowed")
	errBadNumber    = newError(KindUnsupported, "CJSON-NUM-003", "malformed integer")
	errNegativeZero = newError(KindUnsupported, "CJSON-NUM-004", "negative zero has no canonical form")
	errInvalidUTF8  = newError(KindUnsupported, "CJSON-STR-001", "string is not valid UTF-8")
	errNonCanonical = newError(KindNonCanonical, "CJSON-CANON-001", "input is not canonical JSON")

	errFragmentUTF8  = newError(KindFragment, "CJSON-RAW-003", "raw fragment is not valid UTF-8")
	errLoneSurrogate = newError(KindFragment, "CJSON-RAW-004", "raw fragment has an unpaired surrogate escape")
)

// sinkError tags an error from the output writer. Structured errors pass
// through unchanged.
func sinkError(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return wrapError(KindSink, "CJSON-IO-001", "write failed", err)
}
