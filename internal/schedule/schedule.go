// Package schedule runs batch resolution across a bounded worker pool and
// merges the partial mappings into one result set.
package schedule

import (
	"context"
	"log/slog"
	"sync"

	"github.com/spencermiles/gpt-track-id/internal/resolver"
	"github.com/spencermiles/gpt-track-id/internal/track"
)

// DefaultWorkers is the default number of concurrent batch resolutions.
const DefaultWorkers = 5

// ResolveFunc resolves one batch to its partial mapping.
type ResolveFunc func(ctx context.Context, b track.Batch) map[string]resolver.TagResult

// Scheduler dispatches batches to a bounded pool of workers.
type Scheduler struct {
	resolve ResolveFunc
	workers int
	logger  *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.workers = n
		}
	}
}

// New creates a Scheduler around the given resolve function.
func New(resolve ResolveFunc, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		resolve: resolve,
		workers: DefaultWorkers,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type batchResult struct {
	num     int
	mapping map[string]resolver.TagResult
}

// Run resolves all batches concurrently and merges each batch's partial
// mapping into a single result set. Workers hand completed mappings back over
// a channel and this goroutine performs every merge, so no lock guards the
// accumulator; when two batches produce the same key the later merge wins.
// Batches complete and merge in no guaranteed order. A panic inside one
// batch's resolution is logged and contributes an empty mapping; it never
// aborts sibling batches.
func (s *Scheduler) Run(ctx context.Context, batches []track.Batch) map[string]resolver.TagResult {
	merged := make(map[string]resolver.TagResult)
	if len(batches) == 0 {
		return merged
	}

	workers := min(s.workers, len(batches))

	work := make(chan track.Batch, len(batches))
	for _, b := range batches {
		work <- b
	}
	close(work)

	results := make(chan batchResult, len(batches))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range work {
				results <- batchResult{num: b.Num, mapping: s.resolveSafe(ctx, b)}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		for key, value := range res.mapping {
			merged[key] = value
		}
		s.logger.Info("completed batch", "batch", res.num, "total", len(batches), "keys", len(res.mapping))
	}

	return merged
}

// resolveSafe invokes the resolve function, converting a panic into an empty
// mapping so one buggy batch cannot take down the run.
func (s *Scheduler) resolveSafe(ctx context.Context, b track.Batch) (mapping map[string]resolver.TagResult) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("batch resolution panicked", "batch", b.Num, "panic", rec)
			mapping = map[string]resolver.TagResult{}
		}
	}()

	s.logger.Info("processing batch", "batch", b.Num, "total", b.Total, "tracks", len(b.Tracks))
	mapping = s.resolve(ctx, b)
	if mapping == nil {
		mapping = map[string]resolver.TagResult{}
	}
	return mapping
}
