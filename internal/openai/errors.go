package openai

import (
	"fmt"
	"time"
)

// ErrorKind classifies an API failure for retry decisions.
type ErrorKind int

const (
	// KindPermanent marks failures that will not succeed on retry.
	KindPermanent ErrorKind = iota
	// KindTransient marks failures expected to succeed on retry, such as
	// rate limiting.
	KindTransient
)

// APIError is a classified failure from the generation service. It carries a
// structured retry signal so callers do not have to pattern-match error text.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Code       string
	Message    string
	RetryAfter time.Duration // server-suggested wait, zero when absent
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("openai: http %d: %s", e.StatusCode, e.Message)
	}
	return "openai: " + e.Message
}

// Transient reports whether the failure is expected to succeed on retry.
func (e *APIError) Transient() bool { return e.Kind == KindTransient }

// SuggestedWait returns the server-suggested retry delay, or zero when the
// server did not suggest one.
func (e *APIError) SuggestedWait() time.Duration { return e.RetryAfter }
