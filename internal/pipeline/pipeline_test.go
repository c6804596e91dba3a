package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spencermiles/gpt-track-id/internal/config"
	"github.com/spencermiles/gpt-track-id/internal/logging"
	"github.com/spencermiles/gpt-track-id/internal/tagio"
)

// fakeAdapter serves canned metadata and records written tag lists.
type fakeAdapter struct {
	meta     map[string]tagio.Metadata
	readErr  map[string]error
	writeErr map[string]error
	written  map[string][]string
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		meta:     make(map[string]tagio.Metadata),
		readErr:  make(map[string]error),
		writeErr: make(map[string]error),
		written:  make(map[string][]string),
	}
}

func (f *fakeAdapter) ReadTags(path string) (tagio.Metadata, error) {
	if err := f.readErr[path]; err != nil {
		return tagio.Metadata{}, err
	}
	return f.meta[path], nil
}

func (f *fakeAdapter) WriteGenre(path string, tags []string) error {
	if err := f.writeErr[path]; err != nil {
		return err
	}
	f.written[path] = tags
	return nil
}

// fixedCompleter returns the same response for every prompt.
type fixedCompleter struct {
	response string
}

func (c fixedCompleter) Complete(context.Context, string) (string, error) {
	return c.response, nil
}

func writeAudioFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.APIKey = "sk-test"
	return cfg
}

func newTestPipeline(adapter *fakeAdapter, response string, out *bytes.Buffer) *Pipeline {
	return New(testConfig(), logging.NewNop(),
		WithCompleter(fixedCompleter{response: response}),
		WithAdapterSelector(func(string) (tagio.Adapter, error) { return adapter, nil }),
		WithOutput(out),
	)
}

func TestRunTagsMatchedTracks(t *testing.T) {
	dir := t.TempDir()
	matched := writeAudioFile(t, dir, "a.mp3")
	unmatched := writeAudioFile(t, dir, "b.mp3")

	adapter := newFakeAdapter()
	adapter.meta[matched] = tagio.Metadata{Artist: "A", Title: "X"}
	adapter.meta[unmatched] = tagio.Metadata{Artist: "B", Title: "Y"}

	var out bytes.Buffer
	p := newTestPipeline(adapter, `{"A - X": {"genres": ["House"], "era": "90s"}}`, &out)

	res, err := p.Run(context.Background(), RunOptions{Roots: []string{dir}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Tagged != 1 || res.Unmatched != 1 {
		t.Errorf("Result = %+v, want Tagged 1, Unmatched 1", res)
	}
	wantTags := []string{"House", "90s"}
	got := adapter.written[matched]
	if len(got) != len(wantTags) || got[0] != wantTags[0] || got[1] != wantTags[1] {
		t.Errorf("written tags = %v, want %v", got, wantTags)
	}
	if _, ok := adapter.written[unmatched]; ok {
		t.Error("unmatched track was written")
	}
	if !strings.Contains(out.String(), unmatched+": No AI metadata found") {
		t.Errorf("report missing unmatched line, got:\n%s", out.String())
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := writeAudioFile(t, dir, "a.mp3")

	adapter := newFakeAdapter()
	adapter.meta[path] = tagio.Metadata{Artist: "A", Title: "X"}

	var out bytes.Buffer
	p := newTestPipeline(adapter, `{"A - X": {"genres": ["House"]}}`, &out)

	res, err := p.Run(context.Background(), RunOptions{Roots: []string{dir}, DryRun: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.WouldTag != 1 || res.Tagged != 0 {
		t.Errorf("Result = %+v, want WouldTag 1, Tagged 0", res)
	}
	if len(adapter.written) != 0 {
		t.Errorf("dry run wrote tags: %v", adapter.written)
	}
	if !strings.Contains(out.String(), "Would add tags: House") {
		t.Errorf("report missing dry-run line, got:\n%s", out.String())
	}
}

func TestRunEmptyResultReportsNoTags(t *testing.T) {
	dir := t.TempDir()
	path := writeAudioFile(t, dir, "a.mp3")

	adapter := newFakeAdapter()
	adapter.meta[path] = tagio.Metadata{Artist: "A", Title: "X"}

	var out bytes.Buffer
	p := newTestPipeline(adapter, `{"A - X": {}}`, &out)

	res, err := p.Run(context.Background(), RunOptions{Roots: []string{dir}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.NoTags != 1 {
		t.Errorf("Result = %+v, want NoTags 1", res)
	}
	if !strings.Contains(out.String(), path+": No tags found") {
		t.Errorf("report missing no-tags line, got:\n%s", out.String())
	}
}

func TestRunWriteFailureIsLocal(t *testing.T) {
	dir := t.TempDir()
	broken := writeAudioFile(t, dir, "a.mp3")
	fine := writeAudioFile(t, dir, "b.mp3")

	adapter := newFakeAdapter()
	adapter.meta[broken] = tagio.Metadata{Artist: "A", Title: "X"}
	adapter.meta[fine] = tagio.Metadata{Artist: "B", Title: "Y"}
	adapter.writeErr[broken] = errors.New("disk full")

	var out bytes.Buffer
	p := newTestPipeline(adapter, `{"A - X": {"genres": ["House"]}, "B - Y": {"genres": ["Techno"]}}`, &out)

	res, err := p.Run(context.Background(), RunOptions{Roots: []string{dir}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.WriteFailures != 1 || res.Tagged != 1 {
		t.Errorf("Result = %+v, want WriteFailures 1, Tagged 1", res)
	}
	if _, ok := adapter.written[fine]; !ok {
		t.Error("write failure on one file prevented tagging the other")
	}
}

func TestRunSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	bad := writeAudioFile(t, dir, "bad.mp3")
	good := writeAudioFile(t, dir, "good.mp3")

	adapter := newFakeAdapter()
	adapter.readErr[bad] = errors.New("not an mp3")
	adapter.meta[good] = tagio.Metadata{Artist: "A", Title: "X"}

	var out bytes.Buffer
	p := newTestPipeline(adapter, `{"A - X": {"genres": ["House"]}}`, &out)

	res, err := p.Run(context.Background(), RunOptions{Roots: []string{dir}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Skipped != 1 || res.Tracks != 1 || res.Tagged != 1 {
		t.Errorf("Result = %+v, want Skipped 1, Tracks 1, Tagged 1", res)
	}
}

func TestRunNoTracks(t *testing.T) {
	dir := t.TempDir()
	bad := writeAudioFile(t, dir, "bad.mp3")

	adapter := newFakeAdapter()
	adapter.readErr[bad] = errors.New("not an mp3")

	var out bytes.Buffer
	p := newTestPipeline(adapter, `{}`, &out)

	if _, err := p.Run(context.Background(), RunOptions{Roots: []string{dir}}); !errors.Is(err, ErrNoTracks) {
		t.Errorf("Run() error = %v, want ErrNoTracks", err)
	}
}

func TestRunMissingRootIsSkipped(t *testing.T) {
	dir := t.TempDir()
	path := writeAudioFile(t, dir, "a.mp3")

	adapter := newFakeAdapter()
	adapter.meta[path] = tagio.Metadata{Artist: "A", Title: "X"}

	var out bytes.Buffer
	p := newTestPipeline(adapter, `{"A - X": {"genres": ["House"]}}`, &out)

	res, err := p.Run(context.Background(), RunOptions{
		Roots: []string{filepath.Join(dir, "does-not-exist"), dir},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Tagged != 1 {
		t.Errorf("Result = %+v, want Tagged 1", res)
	}
}
