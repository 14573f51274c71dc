package tags

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Read reads tag metadata from a music file.
// Files without readable tags yield a Tag carrying only the path.
func Read(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if strings.ToLower(filepath.Ext(path)) == extMP3 {
			// dhowden/tag has issues with some UTF-16 encoded ID3 tags
			if t, ferr := readMP3WithID3v2(path); ferr == nil {
				return t, nil
			}
		}
		if errors.Is(err, tag.ErrNoTagsFound) {
			return &Tag{Path: path}, nil
		}
		return nil, err
	}

	track, _ := m.Track()
	return &Tag{
		Path:        path,
		Title:       m.Title(),
		Artist:      m.Artist(),
		Album:       m.Album(),
		TrackNumber: track,
	}, nil
}

// DisplayName reads path and returns its display name, falling back to the
// file name when the tags cannot be read.
func DisplayName(path string) string {
	t, err := Read(path)
	if err != nil {
		return baseName(path)
	}
	return t.DisplayName()
}
