package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed or missing request parameters.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstreamFetch marks a provider failure while fetching info or bytes.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	// ErrSelection marks a quality selector that matches no encoding.
	ErrSelection = errors.New("no matching format")
)

// Error is a classified failure. Kind is one of the sentinels above and is
// matched by errors.Is.
type Error struct {
	Kind    error
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return e.Kind == target }

// InvalidInput builds an ErrInvalidInput error with a client-facing message.
func InvalidInput(message string, err error) error {
	return &Error{Kind: ErrInvalidInput, Message: message, Err: err}
}

// UpstreamFetch wraps a provider failure.
func UpstreamFetch(op string, err error) error {
	return &Error{Kind: ErrUpstreamFetch, Op: op, Err: err}
}

// Selection reports a quality selector that does not resolve.
func Selection(quality string, err error) error {
	return &Error{
		Kind:    ErrSelection,
		Message: fmt.Sprintf("quality %q does not match any available format", quality),
		Err:     err,
	}
}

// ErrorMessage returns the client-facing message of a classified error, or
// fallback when err carries none.
func ErrorMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
