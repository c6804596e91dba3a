// Package library enumerates the audio files a run should process.
package library

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// audioExtensions is the fixed set of extensions treated as audio files.
var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".m4a":  {},
	".flac": {},
	".wav":  {},
	".aac":  {},
	".ogg":  {},
	".wma":  {},
}

// IsAudioFile reports whether the path has one of the recognized audio
// extensions.
func IsAudioFile(path string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Find returns the sorted audio files under root. A root that is itself a
// regular file is returned as-is, without extension or cutoff checks. When
// since is non-zero, only files created at or after the cutoff are included;
// Go has no portable birth time, so the modification time stands in as the
// best-effort approximation, and files whose time cannot be determined are
// skipped entirely.
func Find(root string, since time.Time) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directory entries are skipped, not fatal.
			return nil
		}
		if entry.IsDir() || !IsAudioFile(path) {
			return nil
		}
		if !since.IsZero() {
			fileInfo, err := entry.Info()
			if err != nil {
				return nil
			}
			if fileInfo.ModTime().Before(since) {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
