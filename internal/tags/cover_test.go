package tags

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
)

var testJPEG = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

func TestExtractCoverArt_Embedded(t *testing.T) {
	path := writeTestMP3(t, t.TempDir(), "a.mp3", func(tag *id3v2.Tag) {
		tag.SetTitle("Test")
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    mimeJPEG,
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     testJPEG,
		})
	})

	art, err := ExtractCoverArt(path)
	if err != nil {
		t.Fatalf("ExtractCoverArt() error: %v", err)
	}
	if art == nil {
		t.Fatal("expected embedded art")
	}
	if !bytes.Equal(art.Data, testJPEG) {
		t.Errorf("Data = %v", art.Data)
	}
	if art.MIMEType != mimeJPEG {
		t.Errorf("MIMEType = %q, want %q", art.MIMEType, mimeJPEG)
	}
}

func TestExtractCoverArt_FolderArt(t *testing.T) {
	dir := t.TempDir()
	path := writeTestMP3(t, dir, "a.mp3", func(tag *id3v2.Tag) { tag.SetTitle("Test") })
	if err := os.WriteFile(filepath.Join(dir, "folder.png"), []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}

	art, err := ExtractCoverArt(path)
	if err != nil {
		t.Fatalf("ExtractCoverArt() error: %v", err)
	}
	if art == nil || art.MIMEType != mimePNG {
		t.Fatalf("art = %+v, want folder png", art)
	}
}

func TestExtractCoverArt_UppercaseFolderArt(t *testing.T) {
	dir := t.TempDir()
	path := writeTestMP3(t, dir, "a.mp3", nil)
	if err := os.WriteFile(filepath.Join(dir, "COVER.JPG"), testJPEG, 0o600); err != nil {
		t.Fatal(err)
	}

	art, err := ExtractCoverArt(path)
	if err != nil {
		t.Fatalf("ExtractCoverArt() error: %v", err)
	}
	if art == nil || art.MIMEType != mimeJPEG {
		t.Fatalf("art = %+v, want folder jpeg", art)
	}
}

func TestExtractCoverArt_None(t *testing.T) {
	path := writeTestMP3(t, t.TempDir(), "a.mp3", func(tag *id3v2.Tag) { tag.SetTitle("Test") })

	art, err := ExtractCoverArt(path)
	if err != nil {
		t.Fatalf("ExtractCoverArt() error: %v", err)
	}
	if art != nil {
		t.Errorf("art = %+v, want nil", art)
	}
}
