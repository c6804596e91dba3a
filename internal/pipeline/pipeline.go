// Package pipeline orchestrates a full tagging run: enumerate files, read
// their tags, resolve batches against the generation service, reconcile the
// results, and write tags back. No error past pre-flight validation aborts
// the run; every input file gets a per-track outcome on the report writer.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/spencermiles/gpt-track-id/internal/config"
	"github.com/spencermiles/gpt-track-id/internal/library"
	"github.com/spencermiles/gpt-track-id/internal/openai"
	"github.com/spencermiles/gpt-track-id/internal/resolver"
	"github.com/spencermiles/gpt-track-id/internal/schedule"
	"github.com/spencermiles/gpt-track-id/internal/tagio"
	"github.com/spencermiles/gpt-track-id/internal/tagmerge"
	"github.com/spencermiles/gpt-track-id/internal/track"
)

// ErrNoTracks is returned when no readable music files were found.
var ErrNoTracks = errors.New("no valid music files found")

// Pipeline runs the tagging flow end to end.
type Pipeline struct {
	cfg        config.Config
	logger     *slog.Logger
	out        io.Writer
	completer  resolver.Completer
	adapterFor func(path string) (tagio.Adapter, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOutput redirects the per-track report (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) {
		if w != nil {
			p.out = w
		}
	}
}

// WithCompleter overrides the generation service client.
func WithCompleter(c resolver.Completer) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.completer = c
		}
	}
}

// WithAdapterSelector overrides how tag adapters are chosen per file.
func WithAdapterSelector(fn func(string) (tagio.Adapter, error)) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.adapterFor = fn
		}
	}
}

// New creates a Pipeline from validated configuration. Every log line carries
// a run ID so concurrent batch output can be correlated to one invocation.
func New(cfg config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:        cfg,
		logger:     logger.With("run_id", uuid.NewString()),
		out:        os.Stdout,
		adapterFor: tagio.ForPath,
	}
	p.completer = openai.NewClient(openai.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout(),
	})
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunOptions are the per-invocation inputs.
type RunOptions struct {
	Roots  []string  // files or directories to process
	Since  time.Time // zero means no creation-time filter
	DryRun bool
}

// Result summarizes a completed run.
type Result struct {
	Files         int // audio files enumerated
	Skipped       int // files whose tags could not be read
	Tracks        int // descriptors submitted for resolution
	Batches       int
	Tagged        int // files updated on disk
	WouldTag      int // dry-run: files that would be updated
	NoTags        int // matched but the model returned no usable fields
	Unmatched     int // no model output reconciled to the track key
	WriteFailures int
}

// Run executes the pipeline. It returns ErrNoTracks when nothing was
// readable; any other per-file or per-batch failure degrades locally and the
// run completes.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	res := &Result{}

	var files []string
	for _, root := range opts.Roots {
		found, err := library.Find(root, opts.Since)
		if err != nil {
			p.logger.Warn("path not found, skipping", "path", root, "error", err)
			continue
		}
		files = append(files, found...)
	}
	res.Files = len(files)
	if !opts.Since.IsZero() && len(files) > 0 {
		p.logger.Info("filtered by creation time",
			"files", len(files),
			"since", opts.Since.Format("2006-01-02 15:04:05"))
	}

	tracks := make([]track.Descriptor, 0, len(files))
	for _, path := range files {
		desc, err := p.readTrack(path)
		if err != nil {
			p.logger.Warn("could not read metadata, skipping file", "path", path, "error", err)
			res.Skipped++
			continue
		}
		tracks = append(tracks, desc)
	}
	if len(tracks) == 0 {
		return res, ErrNoTracks
	}
	res.Tracks = len(tracks)

	batches := track.Partition(tracks, p.cfg.BatchSize)
	res.Batches = len(batches)
	p.logger.Info("processing tracks",
		"tracks", len(tracks),
		"batches", len(batches),
		"workers", p.cfg.Workers)

	r := resolver.New(p.completer, p.logger, resolver.WithMaxRetries(p.cfg.MaxRetries))
	s := schedule.New(r.Resolve, p.logger, schedule.WithWorkers(p.cfg.Workers))
	mapping := s.Run(ctx, batches)

	matcher := tagmerge.NewMatcher(p.cfg.FuzzyMatch)
	for _, t := range tracks {
		p.applyTrack(t, mapping, matcher, opts.DryRun, res)
	}

	p.logger.Info("run complete",
		"tagged", res.Tagged,
		"would_tag", res.WouldTag,
		"no_tags", res.NoTags,
		"unmatched", res.Unmatched,
		"skipped", res.Skipped,
		"write_failures", res.WriteFailures)
	return res, nil
}

// readTrack builds a descriptor from one file's tags.
func (p *Pipeline) readTrack(path string) (track.Descriptor, error) {
	adapter, err := p.adapterFor(path)
	if err != nil {
		return track.Descriptor{}, err
	}
	meta, err := adapter.ReadTags(path)
	if err != nil {
		return track.Descriptor{}, err
	}
	return track.Descriptor{
		Path:   path,
		Artist: meta.Artist,
		Album:  meta.Album,
		Title:  meta.Title,
	}, nil
}

// applyTrack reconciles one track against the merged mapping and writes or
// reports its tag list.
func (p *Pipeline) applyTrack(t track.Descriptor, mapping map[string]resolver.TagResult, matcher *tagmerge.Matcher, dryRun bool, res *Result) {
	result, ok := matcher.Lookup(mapping, t.Key())
	if !ok {
		fmt.Fprintf(p.out, "%s: No AI metadata found\n", t.Path)
		res.Unmatched++
		return
	}

	tags := tagmerge.BuildTagList(result)
	if len(tags) == 0 {
		fmt.Fprintf(p.out, "%s: No tags found\n", t.Path)
		res.NoTags++
		return
	}

	if dryRun {
		fmt.Fprintf(p.out, "%s: Would add tags: %s\n", t.Path, tagio.JoinGenres(tags))
		res.WouldTag++
		return
	}

	adapter, err := p.adapterFor(t.Path)
	if err == nil {
		err = adapter.WriteGenre(t.Path, tags)
	}
	if err != nil {
		p.logger.Error("failed to update tags", "path", t.Path, "error", err)
		fmt.Fprintf(p.out, "%s: Failed to update tags\n", t.Path)
		res.WriteFailures++
		return
	}

	fmt.Fprintf(p.out, "%s: Added tags: %s\n", t.Path, tagio.JoinGenres(tags))
	res.Tagged++
}
