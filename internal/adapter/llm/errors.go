package llm

import (
	"errors"
	"fmt"
)

// Failure kinds reported by the completion client.
var (
	ErrRateLimited = errors.New("rate limited")
	ErrRemote      = errors.New("remote error")
	ErrTimeout     = errors.New("timeout")
	ErrTransport   = errors.New("transport failure")
)

// CompletionError is returned for every failed completion call. Message is
// safe to show to the caller; Detail carries the remote payload when there
// was one.
type CompletionError struct {
	Kind    error
	Message string
	Detail  string
	Err     error
}

func (e *CompletionError) Error() string {
	return e.Message
}

// Is matches the failure kind, so errors.Is(err, ErrRateLimited) works.
func (e *CompletionError) Is(target error) bool {
	return e.Kind == target
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

func rateLimitedError() error {
	return &CompletionError{
		Kind:    ErrRateLimited,
		Message: "The AI service is currently rate-limited. Please try again in a moment.",
	}
}

func remoteError(detail string) error {
	return &CompletionError{
		Kind:    ErrRemote,
		Message: "AI service error: " + detail,
		Detail:  detail,
	}
}

// malformedResponseError reports a 2xx reply that has no usable answer. The
// raw payload is kept as the detail.
func malformedResponseError(payload []byte) error {
	return &CompletionError{
		Kind:    ErrRemote,
		Message: "AI service error: unexpected response format",
		Detail:  string(payload),
	}
}

func timeoutError(err error) error {
	return &CompletionError{
		Kind:    ErrTimeout,
		Message: "The AI service took too long to respond. Please try again.",
		Err:     err,
	}
}

func transportError(err error) error {
	return &CompletionError{
		Kind:    ErrTransport,
		Message: fmt.Sprintf("Failed to connect to AI service: %v", err),
		Err:     err,
	}
}

// IsCompletionError reports whether err came from the completion client.
func IsCompletionError(err error) bool {
	var ce *CompletionError
	return errors.As(err, &ce)
}
