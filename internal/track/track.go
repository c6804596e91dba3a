// Package track defines the in-memory track descriptors and batching used by
// the tagging pipeline.
package track

// Descriptor identifies one audio file together with the metadata read from
// its tags. Descriptors are created once per run and never mutated. Path
// uniqueness is not enforced; duplicate files are processed independently.
type Descriptor struct {
	Path   string
	Artist string
	Album  string
	Title  string
}

const unknown = "Unknown"

// Key derives the "Artist - Title" string used to correlate model output back
// to this descriptor. Missing fields fall back to "Unknown". Two tracks with
// the same artist and title collapse to the same key and receive identical
// tags; this is a documented limitation, not a bug.
func (d Descriptor) Key() string {
	artist := d.Artist
	if artist == "" {
		artist = unknown
	}
	title := d.Title
	if title == "" {
		title = unknown
	}
	return artist + " - " + title
}

// ArtistOrUnknown returns the artist name, or "Unknown" when absent.
func (d Descriptor) ArtistOrUnknown() string {
	if d.Artist == "" {
		return unknown
	}
	return d.Artist
}

// AlbumOrUnknown returns the album name, or "Unknown" when absent.
func (d Descriptor) AlbumOrUnknown() string {
	if d.Album == "" {
		return unknown
	}
	return d.Album
}

// TitleOrUnknown returns the track title, or "Unknown" when absent.
func (d Descriptor) TitleOrUnknown() string {
	if d.Title == "" {
		return unknown
	}
	return d.Title
}
