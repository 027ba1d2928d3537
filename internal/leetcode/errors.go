package leetcode

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an upstream failure. Retry eligibility is decided by
// Kind alone.
type Kind int

const (
	// KindTransient covers connection failures, timeouts, non-200
	// statuses and other network errors. Retried.
	KindTransient Kind = iota + 1
	// KindUpstreamReported is a GraphQL "errors" field in an otherwise
	// well-formed response. Never retried.
	KindUpstreamReported
	// KindMalformed is a 200 response whose body does not match the
	// expected schema. Never retried.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindUpstreamReported:
		return "upstream_error"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by the upstream access layer.
type Error struct {
	Kind     Kind
	Op       string
	Status   int      // HTTP status, 0 when no response was received
	Messages []string // GraphQL error messages for KindUpstreamReported
	Err      error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindUpstreamReported:
		return fmt.Sprintf("%s: GraphQL errors: %s", e.Op, strings.Join(e.Messages, ", "))
	case e.Status != 0:
		return fmt.Sprintf("%s: unexpected status %d: %v", e.Op, e.Status, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a transient upstream failure.
func IsRetryable(err error) bool {
	return KindOf(err) == KindTransient
}

// KindOf returns the Kind of an upstream error, or 0 if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func transientError(op string, status int, err error) *Error {
	return &Error{Kind: KindTransient, Op: op, Status: status, Err: err}
}

func malformedError(op string, err error) *Error {
	return &Error{Kind: KindMalformed, Op: op, Err: err}
}
