package services

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated indicates the caller has no valid session.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrOTPNotFound indicates no live challenge exists for the email.
	ErrOTPNotFound = errors.New("otp not found or expired")
	// ErrOTPExpired indicates the challenge existed but its expiry passed; it has been removed.
	ErrOTPExpired = errors.New("otp expired")
	// ErrOTPMismatch indicates a wrong code; the challenge stays usable until expiry.
	ErrOTPMismatch = errors.New("invalid otp")
	// ErrOrderNotFound indicates the order does not exist for the signed-in customer.
	ErrOrderNotFound = errors.New("order not found")
)

// InputError is a user-correctable request problem. Message is shown verbatim.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func invalidInput(format string, args ...any) error {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a storage failure. Its detail is for logs only.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NotificationError wraps a failed delivery to one recipient.
type NotificationError struct {
	To  string
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification to %s: %v", e.To, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
