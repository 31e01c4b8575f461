// Package apperr defines the error kinds surfaced by the manifest operations
// and the tagged payload they are reported as.
package apperr

import (
	"errors"
	"fmt"
)

// Kind tags an error for the caller. Values match what the desktop shell expects.
type Kind string

const (
	KindInvalidInput Kind = "invalidInput"
	KindIO           Kind = "io"
	KindUTF8         Kind = "utf8"
	KindCSV          Kind = "csvError"
	KindJSON         Kind = "serdeJsonError"
)

// ErrNoPaths is returned when an operation is called without any document path.
var ErrNoPaths = errors.New("no file path provided")

// Error is a kinded error, optionally tied to the document that caused it.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("error parsing file %s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a kinded error from a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Err: errors.New(msg)}
}

// Wrap tags err with kind. A nil err yields nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// WithPath attaches the offending document path. The kind of an already
// kinded error is kept; anything else is treated as an I/O failure.
func WithPath(path string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Path != "" {
			return err
		}
		return &Error{Kind: ae.Kind, Path: path, Err: ae.Err}
	}
	return &Error{Kind: KindIO, Path: path, Err: err}
}

// KindOf reports the kind of err. Untagged errors count as I/O failures.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindIO
}

// Payload is the kind+message shape errors are re-encoded to at the boundary.
type Payload struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// ToPayload converts err for transmission to the caller.
func ToPayload(err error) Payload {
	return Payload{Kind: KindOf(err), Message: err.Error()}
}
