package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for status mapping at the wire boundary.
type Kind int

const (
	// StorageFailure is the catch-all for anything unanticipated.
	StorageFailure Kind = iota
	ValidationFailed
	UnsupportedAttachment
	NotFound
	Forbidden
	Unauthenticated
)

func (k Kind) String() string {
	switch k {
	case ValidationFailed:
		return "validation failed"
	case UnsupportedAttachment:
		return "unsupported attachment"
	case NotFound:
		return "not found"
	case Forbidden:
		return "forbidden"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "storage failure"
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the classification of err. Unclassified errors are
// treated as StorageFailure so internal detail never drives the response.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return StorageFailure
}

// Message returns the user-facing message for err. StorageFailure always
// collapses to a generic message regardless of what the wrapped error says.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != StorageFailure {
		return e.Msg
	}
	return "server error"
}
