package tagio

import (
	"fmt"

	"github.com/bogem/id3v2/v2"
)

// id3Adapter handles MP3 and AIFF files carrying ID3v2 tags. The genre lives
// in the TCON frame.
type id3Adapter struct{}

func (id3Adapter) ReadTags(path string) (Metadata, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return Metadata{}, fmt.Errorf("opening id3 tags: %w", err)
	}
	defer tag.Close()

	return Metadata{
		Artist: tag.Artist(),
		Album:  tag.Album(),
		Title:  tag.Title(),
	}, nil
}

func (id3Adapter) WriteGenre(path string, tags []string) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("opening id3 tags: %w", err)
	}
	defer tag.Close()

	combined := mergeGenres(tag.Genre(), tags)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetGenre(JoinGenres(combined))

	if err := tag.Save(); err != nil {
		return fmt.Errorf("saving id3 tags: %w", err)
	}
	return nil
}
