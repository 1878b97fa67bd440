package client

import (
	"errors"
	"fmt"
)

// ErrorKind classifies fetch errors by how the caller can react to them.
type ErrorKind string

const (
	// ErrorKindNetwork covers transport failures and timeouts, plus 5xx
	// backend responses. Recoverable by caller retry.
	ErrorKindNetwork ErrorKind = "network"

	// ErrorKindDecode covers response bodies that are not valid JSON or are
	// missing required fields. Not recoverable without a new request.
	ErrorKindDecode ErrorKind = "decode"

	// ErrorKindValidation covers requests the backend rejected and responses
	// violating the data-model invariants. Must be surfaced, never dropped.
	ErrorKindValidation ErrorKind = "validation"
)

// Sentinel errors surfaced by the client.
var (
	// ErrTimeout marks a fetch that exceeded its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrCursorLoop marks a backend returning a cursor already seen in the
	// current pagination run.
	ErrCursorLoop = errors.New("cursor loop detected")

	// ErrBlocked marks a request refused locally because the backend quota
	// is critical.
	ErrBlocked = errors.New("request blocked: backend quota critical")
)

// Error is a classified fetch error.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		if e.Err != nil {
			return fmt.Sprintf("rate-calendar %s error (status %d): %s: %v",
				e.Kind, e.StatusCode, e.Message, e.Err)
		}
		return fmt.Sprintf("rate-calendar %s error (status %d): %s",
			e.Kind, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("rate-calendar %s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("rate-calendar %s error: %s", e.Kind, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NetworkError wraps err as a network-kind error.
func NetworkError(message string, err error) *Error {
	return &Error{Kind: ErrorKindNetwork, Message: message, Err: err}
}

// DecodeError wraps err as a decode-kind error.
func DecodeError(message string, err error) *Error {
	return &Error{Kind: ErrorKindDecode, Message: message, Err: err}
}

// ValidationError wraps err as a validation-kind error.
func ValidationError(message string, err error) *Error {
	return &Error{Kind: ErrorKindValidation, Message: message, Err: err}
}

// KindOf returns the classification of err, or "" for unclassified errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsNetwork reports whether err is a network-kind error.
func IsNetwork(err error) bool {
	return KindOf(err) == ErrorKindNetwork
}

// IsDecode reports whether err is a decode-kind error.
func IsDecode(err error) bool {
	return KindOf(err) == ErrorKindDecode
}

// IsValidation reports whether err is a validation-kind error.
func IsValidation(err error) bool {
	return KindOf(err) == ErrorKindValidation
}

// Retryable reports whether the caller may retry err unchanged.
// Only network-kind errors are retryable: decode and validation failures
// would repeat identically.
func Retryable(err error) bool {
	return IsNetwork(err)
}
