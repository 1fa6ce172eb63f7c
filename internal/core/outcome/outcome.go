// Package outcome defines the machine-checkable result kinds shared by every
// genealogy operation. Callers switch on Kind; Detail is for humans.
package outcome

import (
	"errors"
	"fmt"
)

// Kind classifies a failed or partial operation.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not-found"
	KindAmbiguous  Kind = "ambiguous"
	KindConflict   Kind = "integrity-conflict"
	KindStorage    Kind = "storage-failure"
)

// Error is a typed outcome. Candidates is only populated for KindAmbiguous
// and holds the ids of every matching member.
type Error struct {
	Kind       Kind
	Detail     string
	Candidates []int64
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// Fatal reports whether the outcome must abort a whole batch rather than
// a single row.
func (e *Error) Fatal() bool {
	return e.Kind == KindStorage
}

// Validation builds a validation outcome.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Detail: fmt.Sprintf(format, args...)}
}

// NotFound builds a not-found outcome.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Detail: fmt.Sprintf(format, args...)}
}

// Ambiguous builds an ambiguous outcome carrying the full candidate set.
func Ambiguous(candidates []int64, format string, args ...any) *Error {
	return &Error{Kind: KindAmbiguous, Detail: fmt.Sprintf(format, args...), Candidates: candidates}
}

// Conflict builds an integrity-conflict outcome.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Detail: fmt.Sprintf(format, args...)}
}

// Storage wraps an underlying store failure.
func Storage(err error, format string, args ...any) *Error {
	return &Error{Kind: KindStorage, Detail: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the outcome kind of err. Untyped errors are reported as
// storage failures; nil yields the empty kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindStorage
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// As extracts the typed outcome from err.
func As(err error) (*Error, bool) {
	var oe *Error
	if errors.As(err, &oe) {
		return oe, true
	}
	return nil, false
}
