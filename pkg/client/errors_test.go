package client

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "with status code",
			err: &Error{
				Kind:       ErrorKindNetwork,
				StatusCode: 503,
				Message:    "503 Service Unavailable",
			},
			want: "rate-calendar network error (status 503): 503 Service Unavailable",
		},
		{
			name: "without status code",
			err: &Error{
				Kind:    ErrorKindDecode,
				Message: "malformed response body",
			},
			want: "rate-calendar decode error: malformed response body",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Kind:    ErrorKindValidation,
				Message: "invalid page",
				Err:     fmt.Errorf("duplicate room category id 7"),
			},
			want: "rate-calendar validation error: invalid page: duplicate room category id 7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := NetworkError("request failed", inner)

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatal("errors.As should find *Error")
	}
	if e.Kind != ErrorKindNetwork {
		t.Errorf("Kind = %q, want network", e.Kind)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{
			name: "network",
			err:  NetworkError("timeout", ErrTimeout),
			want: ErrorKindNetwork,
		},
		{
			name: "decode",
			err:  DecodeError("bad json", nil),
			want: ErrorKindDecode,
		},
		{
			name: "validation",
			err:  ValidationError("cursor loop", ErrCursorLoop),
			want: ErrorKindValidation,
		},
		{
			name: "wrapped classified error",
			err:  fmt.Errorf("fetch page 3: %w", NetworkError("timeout", nil)),
			want: ErrorKindNetwork,
		},
		{
			name: "unclassified",
			err:  errors.New("plain"),
			want: "",
		},
		{
			name: "nil",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(NetworkError("timeout", nil)) {
		t.Error("network errors should be retryable")
	}
	if Retryable(DecodeError("bad json", nil)) {
		t.Error("decode errors must not be retryable")
	}
	if Retryable(ValidationError("duplicate id", nil)) {
		t.Error("validation errors must not be retryable")
	}
	if Retryable(errors.New("plain")) {
		t.Error("unclassified errors must not be retryable")
	}
}
