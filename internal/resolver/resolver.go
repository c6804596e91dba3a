// Package resolver turns one batch of tracks into a partial mapping from
// track key to tag result by prompting the generation service, with a
// rate-limit-aware retry policy. Every failure mode degrades to an empty
// mapping; a resolution never aborts the run.
package resolver

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/spencermiles/gpt-track-id/internal/track"
)

// Retry policy defaults.
const (
	DefaultMaxRetries = 5
	DefaultBaseDelay  = 1 * time.Second
)

// Completer abstracts the generation service client.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Resolver resolves batches against a Completer.
type Resolver struct {
	client     Completer
	logger     *slog.Logger
	maxRetries int
	baseDelay  time.Duration
	sleep      func(context.Context, time.Duration)
	jitter     func() float64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxRetries sets the bound on attempts for transient failures.
func WithMaxRetries(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxRetries = n
		}
	}
}

// WithBaseDelay sets the base backoff delay.
func WithBaseDelay(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.baseDelay = d
		}
	}
}

// WithSleep overrides how backoff waits are performed (useful for tests).
func WithSleep(sleep func(context.Context, time.Duration)) Option {
	return func(r *Resolver) {
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

// WithJitter overrides the jitter source, which must return values in [0,1).
func WithJitter(jitter func() float64) Option {
	return func(r *Resolver) {
		if jitter != nil {
			r.jitter = jitter
		}
	}
}

// New creates a Resolver with the default retry policy.
func New(client Completer, logger *slog.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		client:     client,
		logger:     logger,
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
		sleep:      sleepContext,
		jitter:     rand.Float64,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve submits one batch and returns its partial key-to-result mapping.
// Transient failures are retried up to the configured bound with exponential
// backoff plus jitter, honoring any server-suggested wait; all other failures,
// including malformed responses, resolve to an empty mapping immediately.
// Resolve never returns an error.
func (r *Resolver) Resolve(ctx context.Context, b track.Batch) map[string]TagResult {
	prompt := BuildPrompt(b)

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		raw, err := r.client.Complete(ctx, prompt)
		if err == nil {
			mapping := ParseResponse(raw)
			if len(mapping) == 0 {
				r.logger.Warn("could not parse JSON from model response", "batch", b.Num)
			}
			return mapping
		}

		transient, suggested := classifyFailure(err)
		if !transient {
			r.logger.Error("generation request failed", "batch", b.Num, "error", err)
			return map[string]TagResult{}
		}
		if attempt == r.maxRetries-1 {
			break
		}

		wait := r.backoff(attempt, suggested)
		r.logger.Warn("rate limit hit, backing off",
			"batch", b.Num,
			"wait", wait,
			"attempt", attempt+1,
			"max_retries", r.maxRetries)
		r.sleep(ctx, wait)
		if ctx.Err() != nil {
			return map[string]TagResult{}
		}
	}

	r.logger.Error("rate limit exceeded, giving up on batch", "batch", b.Num, "attempts", r.maxRetries)
	return map[string]TagResult{}
}

// backoff computes the wait before the next attempt: exponential growth from
// the base delay plus up to one second of jitter, never less than the
// server-suggested wait.
func (r *Resolver) backoff(attempt int, suggested time.Duration) time.Duration {
	wait := time.Duration(float64(r.baseDelay) * math.Pow(2, float64(attempt)))
	wait += time.Duration(r.jitter() * float64(time.Second))
	if suggested > wait {
		wait = suggested
	}
	return wait
}

// sleepContext waits for the given delay or until the context is done.
func sleepContext(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
