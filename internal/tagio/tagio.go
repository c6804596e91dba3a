// Package tagio reads and writes audio file tags through a closed set of
// format adapters. Each adapter owns its format's genre field mapping; files
// outside the adapter set are reported as unsupported, not guessed at.
package tagio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spencermiles/gpt-track-id/internal/tagmerge"
)

// Separator is the token joining multiple values in a single genre field.
const Separator = " - "

// Metadata holds the tag fields read from an audio file. Any field may be
// empty when the file does not carry it.
type Metadata struct {
	Artist string
	Album  string
	Title  string
}

// Adapter is the capability interface one container format implements.
type Adapter interface {
	// ReadTags extracts artist, album, and title from the file's tags.
	ReadTags(path string) (Metadata, error)
	// WriteGenre merges tags with the file's existing genre value (split on
	// Separator, deduplicated, order preserved) and persists the combined
	// value into the format's genre field.
	WriteGenre(path string, tags []string) error
}

// ErrUnsupportedFormat is returned by ForPath for files outside the adapter
// set.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// ForPath selects the adapter for a file by its extension.
func ForPath(path string) (Adapter, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3", ".aiff", ".aif":
		return id3Adapter{}, nil
	case ".flac":
		return flacAdapter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// SplitGenres splits an existing genre field value on the separator.
func SplitGenres(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, Separator)
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			genres = append(genres, p)
		}
	}
	return genres
}

// JoinGenres renders a tag list as a single genre field value.
func JoinGenres(tags []string) string {
	return strings.Join(tags, Separator)
}

// mergeGenres combines the file's existing genre value with new tags,
// existing values first, deduplicated keeping the first occurrence.
func mergeGenres(existing string, tags []string) []string {
	return tagmerge.Dedupe(append(SplitGenres(existing), tags...))
}
