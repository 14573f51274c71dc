package tags

import (
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
)

func readMP3WithID3v2(path string) (*Tag, error) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer id3tag.Close()

	return &Tag{
		Path:        path,
		Title:       id3tag.Title(),
		Artist:      id3tag.Artist(),
		Album:       id3tag.Album(),
		TrackNumber: parseTrackNumber(textFrame(id3tag, "TRCK")),
	}, nil
}

// parseTrackNumber parses "5" or "5/10".
func parseTrackNumber(s string) int {
	num, _, _ := strings.Cut(s, "/")
	n, _ := strconv.Atoi(strings.TrimSpace(num))
	return n
}

func textFrame(id3tag *id3v2.Tag, frameID string) string {
	frames := id3tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}
