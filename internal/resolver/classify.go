package resolver

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// retrySignal is the structured classification exposed by service-client
// errors. The openai client implements it; other providers may not.
type retrySignal interface {
	Transient() bool
	SuggestedWait() time.Duration
}

var suggestedWaitPattern = regexp.MustCompile(`[Pp]lease try again in (\d+(?:\.\d+)?)(ms|s)`)

// classifyFailure decides whether a service error is worth retrying, and how
// long the server suggested waiting (zero when it did not). Structured error
// kinds are preferred; error-text matching remains only as a fallback for
// clients that do not carry them.
func classifyFailure(err error) (transient bool, wait time.Duration) {
	var signal retrySignal
	if errors.As(err, &signal) {
		if !signal.Transient() {
			return false, 0
		}
		wait = signal.SuggestedWait()
		if wait == 0 {
			wait = suggestedWaitFromText(err.Error())
		}
		return true, wait
	}

	// Fallback heuristic for unstructured errors.
	text := err.Error()
	if strings.Contains(text, "rate_limit_exceeded") || strings.Contains(text, "429") {
		return true, suggestedWaitFromText(text)
	}
	return false, 0
}

// suggestedWaitFromText extracts a "Please try again in 329ms" style hint.
func suggestedWaitFromText(text string) time.Duration {
	m := suggestedWaitPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	unit := time.Second
	if m[2] == "ms" {
		unit = time.Millisecond
	}
	return time.Duration(value * float64(unit))
}
