package auth

import (
	"errors"
	"fmt"
)

// Flow error kinds. Every one of them is recovered at the HTTP boundary and
// rendered as an error page.
var (
	ErrSessionExpired   = errors.New("session expired")
	ErrAlreadyConnected = errors.New("profile connected to another account")
	ErrSignupsDisabled  = errors.New("signups disabled")
	ErrHandshake        = errors.New("provider handshake failed")
	ErrTimeout          = errors.New("provider timed out")
	ErrFormValidation   = errors.New("form validation failed")
	ErrAlreadyLoggedIn  = errors.New("already logged in")
)

// Repository errors.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrUsernameTaken   = errors.New("username taken")
)

// Error is a flow failure with a message meant for the browser.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// NewError returns an *Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError returns an *Error of the given kind carrying cause.
func WrapError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Message extracts the browser facing message from err, falling back to a
// generic one for unexpected failures.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Something went wrong. Please try again."
}
