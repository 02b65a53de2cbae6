package dagpb

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
//
// NOTE: Error() strings are intentionally kept human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindForm marks caller-input faults: unparseable shorthand given to
	// Prepare, or any Validate check failure. The caller must fix the input;
	// nothing is retried internally.
	KindForm Kind = "Form"

	// KindDecode marks wire-input faults: structurally malformed bytes or a
	// link Hash that does not parse as a CID. Untrusted-input rejection, not
	// a recoverable condition.
	KindDecode Kind = "Decode"

	KindInternal Kind = "Internal"
)

// Error is the library's structured error type.
//
// RuleID is a stable identifier (e.g. DAGPB-FORM-012, DAGPB-DECODE-002)
// that names the violated rule.
//
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
	return e.Message
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

// IsFormError reports whether err is a caller-input (form) fault.
func IsFormError(err error) bool { return IsKind(err, KindForm) }

// IsDecodeError reports whether err is a wire-input (decode) fault.
func IsDecodeError(err error) bool { return IsKind(err, KindDecode) }

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
