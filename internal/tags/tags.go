// Package tags reads the display metadata of music files.
package tags

import (
	"path/filepath"
	"strings"
)

const extMP3 = ".mp3"

// Tag holds the subset of file metadata used to name catalog entries.
type Tag struct {
	Path        string
	Title       string
	Artist      string
	Album       string
	TrackNumber int
}

// DisplayName returns "Artist - Title", or whichever of the two is set.
// With neither, the file name without its extension is used.
func (t *Tag) DisplayName() string {
	title := strings.TrimSpace(t.Title)
	artist := strings.TrimSpace(t.Artist)
	switch {
	case title != "" && artist != "":
		return artist + " - " + title
	case title != "":
		return title
	case artist != "":
		return artist
	}
	return baseName(t.Path)
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
