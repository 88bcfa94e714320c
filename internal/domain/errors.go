package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrNetwork            = errors.New("backend unreachable")
	ErrUnauthenticated    = errors.New("action requires a session")
	ErrEventFull          = errors.New("event is full")
	ErrEventNotFound      = errors.New("event not found")
	ErrDeleteNotConfirmed = errors.New("deletion was not confirmed")
	ErrSubmitInProgress   = errors.New("a submission is already in progress")
	ErrUserMismatch       = errors.New("profile does not belong to the current user")
)

// Error codes returned by Code, used as translation keys ("errors.<code>").
const (
	CodeNetwork            = "network"
	CodeValidation         = "validation"
	CodeUnauthenticated    = "unauthenticated"
	CodeEventFull          = "event_full"
	CodeServerRejected     = "server_rejected"
	CodeEventNotFound      = "event_not_found"
	CodeDeleteNotConfirmed = "delete_not_confirmed"
	CodeSubmitInProgress   = "submit_in_progress"
	CodeUserMismatch       = "user_mismatch"
)

// NetworkError wraps a transport failure, a non-2xx response without a usable body
// or a payload that could not be decoded.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, ErrNetwork)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNetwork}
	}
	return []error{ErrNetwork, e.Err}
}

// ValidationError names the first invalid field of a client-side check.
// It is never produced by a server response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ServerRejected carries the backend's {error} message verbatim.
type ServerRejected struct {
	Status  int
	Message string
}

func (e *ServerRejected) Error() string { return e.Message }

// Invalid is a shorthand for building a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Code maps err to its stable code, or "" when err is not a domain error.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	var sr *ServerRejected
	switch {
	case errors.As(err, &ve):
		return CodeValidation
	case errors.As(err, &sr):
		return CodeServerRejected
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, ErrEventFull):
		return CodeEventFull
	case errors.Is(err, ErrEventNotFound):
		return CodeEventNotFound
	case errors.Is(err, ErrDeleteNotConfirmed):
		return CodeDeleteNotConfirmed
	case errors.Is(err, ErrSubmitInProgress):
		return CodeSubmitInProgress
	case errors.Is(err, ErrUserMismatch):
		return CodeUserMismatch
	case errors.Is(err, ErrNetwork):
		return CodeNetwork
	}
	return ""
}
