package tags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

const (
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
)

// Artwork is an encoded cover image.
type Artwork struct {
	Data     []byte
	MIMEType string
}

// Names checked, in order, next to the audio file.
var folderArtNames = []string{
	"cover.jpg", "cover.jpeg", "cover.png",
	"folder.jpg", "folder.jpeg", "folder.png",
	"front.jpg", "front.png",
}

// ExtractCoverArt returns the embedded picture of path, or a cover image
// from its directory. It returns nil when neither exists.
func ExtractCoverArt(path string) (*Artwork, error) {
	art, err := embeddedArt(path)
	if err != nil {
		return nil, err
	}
	if art != nil {
		return art, nil
	}
	return folderArt(filepath.Dir(path)), nil
}

func embeddedArt(path string) (*Artwork, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// Untagged files can still have folder art.
		return nil, nil //nolint:nilerr,nilnil
	}
	pic := m.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil, nil //nolint:nilnil
	}
	mime := pic.MIMEType
	if mime == "" {
		mime = mimeFromExt(pic.Ext)
	}
	return &Artwork{Data: pic.Data, MIMEType: mime}, nil
}

func folderArt(dir string) *Artwork {
	for _, name := range folderArtNames {
		for _, candidate := range []string{name, strings.ToUpper(name)} {
			data, err := os.ReadFile(filepath.Join(dir, candidate))
			if err != nil {
				continue
			}
			return &Artwork{Data: data, MIMEType: mimeFromExt(filepath.Ext(name))}
		}
	}
	return nil
}

func mimeFromExt(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return mimePNG
	default:
		return mimeJPEG
	}
}
