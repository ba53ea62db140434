package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeFetch represents neighborhood fetch failures
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeAuth represents authentication failures at the graph store
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypePayload represents malformed provider payloads
	ErrorTypePayload ErrorType = "payload"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeSession represents explorer session errors
	ErrorTypeSession ErrorType = "session"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Category returns the error's type; promoted through embedding so
// IsErrorType works on every concrete error below.
func (e *BaseError) Category() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Fetch Errors

// ErrFetchFailed is returned when a neighborhood fetch fails for
// transport or store reasons. Navigation state is never touched on this
// error; the caller may retry.
type ErrFetchFailed struct {
	*BaseError
	NodeURI string
}

func NewFetchFailed(nodeURI string, err error) *ErrFetchFailed {
	return &ErrFetchFailed{
		BaseError: NewBaseError(ErrorTypeFetch, fmt.Sprintf("failed to fetch neighborhood for %s", nodeURI), err),
		NodeURI:   nodeURI,
	}
}

// ErrAuthRequired is returned when the graph store rejects credentials.
// Kept distinct from ErrFetchFailed so the UI can show a sign-in prompt
// instead of a generic error.
type ErrAuthRequired struct {
	*BaseError
}

func NewAuthRequired(err error) *ErrAuthRequired {
	return &ErrAuthRequired{
		BaseError: NewBaseError(ErrorTypeAuth, "authentication required by graph store", err),
	}
}

// ErrNodeNotFound is returned when a node uri resolves to nothing
type ErrNodeNotFound struct {
	*BaseError
	NodeURI string
}

func NewNodeNotFound(nodeURI string) *ErrNodeNotFound {
	return &ErrNodeNotFound{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("node not found: %s", nodeURI), nil),
		NodeURI:   nodeURI,
	}
}

// ErrMalformedNeighborhood records a provider payload that failed
// validation. Policy: the payload is normalized to an empty relationship
// bag and this error is logged, never returned as a hard failure.
type ErrMalformedNeighborhood struct {
	*BaseError
	NodeURI string
	Reason  string
}

func NewMalformedNeighborhood(nodeURI, reason string) *ErrMalformedNeighborhood {
	return &ErrMalformedNeighborhood{
		BaseError: NewBaseError(ErrorTypePayload, fmt.Sprintf("malformed neighborhood for %s: %s", nodeURI, reason), nil),
		NodeURI:   nodeURI,
		Reason:    reason,
	}
}

// Session Errors

// ErrSessionNotFound is returned for unknown or closed explorer sessions
type ErrSessionNotFound struct {
	*BaseError
	SessionID string
}

func NewSessionNotFound(sessionID string) *ErrSessionNotFound {
	return &ErrSessionNotFound{
		BaseError: NewBaseError(ErrorTypeSession, fmt.Sprintf("session not found: %s", sessionID), nil),
		SessionID: sessionID,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error (or anything it wraps) is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if cat, ok := err.(interface{ Category() ErrorType }); ok {
			return cat.Category() == errType
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// IsAuthRequired checks if an error chain contains an auth failure
func IsAuthRequired(err error) bool {
	var target *ErrAuthRequired
	return stderrors.As(err, &target)
}

// IsNotFound checks if an error chain contains a missing-node error
func IsNotFound(err error) bool {
	var target *ErrNodeNotFound
	return stderrors.As(err, &target)
}

// IsSessionNotFound checks if an error chain contains a missing-session error
func IsSessionNotFound(err error) bool {
	var target *ErrSessionNotFound
	return stderrors.As(err, &target)
}
