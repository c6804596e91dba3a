package tagio

import (
	"fmt"
	"strings"

	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"
)

// flacAdapter handles FLAC files. The genre lives in the GENRE field of the
// Vorbis comment block.
type flacAdapter struct{}

func (flacAdapter) ReadTags(path string) (Metadata, error) {
	f, err := flac.ParseFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("parsing flac: %w", err)
	}

	cmt, _, err := findVorbisComment(f)
	if err != nil {
		return Metadata{}, err
	}
	if cmt == nil {
		// No comment block at all; the file is valid but untagged.
		return Metadata{}, nil
	}

	return Metadata{
		Artist: firstField(cmt, flacvorbis.FIELD_ARTIST),
		Album:  firstField(cmt, flacvorbis.FIELD_ALBUM),
		Title:  firstField(cmt, flacvorbis.FIELD_TITLE),
	}, nil
}

func (flacAdapter) WriteGenre(path string, tags []string) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parsing flac: %w", err)
	}

	cmt, idx, err := findVorbisComment(f)
	if err != nil {
		return err
	}
	if cmt == nil {
		cmt = flacvorbis.New()
		idx = -1
	}

	existing := firstField(cmt, flacvorbis.FIELD_GENRE)
	combined := mergeGenres(existing, tags)

	cmt.Comments = withoutField(cmt.Comments, flacvorbis.FIELD_GENRE)
	if err := cmt.Add(flacvorbis.FIELD_GENRE, JoinGenres(combined)); err != nil {
		return fmt.Errorf("setting genre comment: %w", err)
	}

	block := cmt.Marshal()
	if idx >= 0 {
		f.Meta[idx] = &block
	} else {
		f.Meta = append(f.Meta, &block)
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("saving flac: %w", err)
	}
	return nil
}

// findVorbisComment returns the file's Vorbis comment block and its index in
// the metadata list, or (nil, -1, nil) when the file has none.
func findVorbisComment(f *flac.File) (*flacvorbis.MetaDataBlockVorbisComment, int, error) {
	for i, block := range f.Meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		cmt, err := flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			return nil, -1, fmt.Errorf("parsing vorbis comment: %w", err)
		}
		return cmt, i, nil
	}
	return nil, -1, nil
}

// firstField returns the first value of a Vorbis comment field, or "".
func firstField(cmt *flacvorbis.MetaDataBlockVorbisComment, field string) string {
	values, err := cmt.Get(field)
	if err != nil || len(values) == 0 {
		return ""
	}
	return values[0]
}

// withoutField drops all entries for one field from a raw comment list.
func withoutField(comments []string, field string) []string {
	prefix := field + "="
	kept := comments[:0:0]
	for _, c := range comments {
		if len(c) >= len(prefix) && strings.EqualFold(c[:len(prefix)], prefix) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
