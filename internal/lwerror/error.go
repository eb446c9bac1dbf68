// Package lwerror defines the error taxonomy shared across the life-watch
// pipeline, so callers can branch on error class without string matching.
package lwerror

import "fmt"

// Kind classifies an Error the way the daemon's original Rust error enum did:
// one tag per source of failure, each carrying its own free-form text.
type Kind string

const (
	KindIO            Kind = "io"
	KindImage         Kind = "image"
	KindConfig        Kind = "config"
	KindCamera        Kind = "camera"
	KindInitialization Kind = "initialization"
	KindDatabase      Kind = "database"
	KindParse         Kind = "parse"
	KindConcurrency   Kind = "concurrency"
	KindOther         Kind = "other"
)

// Error is the single error type surfaced across package boundaries in this
// module. Op names the failing operation (e.g. "frame.FromFrame"); Err is
// the wrapped underlying cause, if any.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error in %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s error in %s", e.Kind, e.Op)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether err carries the given Kind, unwrapping as needed.
func Is(err error, kind Kind) bool {
	var lwErr *Error
	for err != nil {
		if le, ok := err.(*Error); ok {
			lwErr = le
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return lwErr != nil && lwErr.Kind == kind
}

// New constructs an *Error with the given kind, operation, and formatted message.
func New(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches a Kind and operation name to an existing error. Returns nil if err is nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
