package player

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"
)

func TestLocatorPath(t *testing.T) {
	tests := []struct {
		name    string
		locator string
		want    string
		wantErr bool
	}{
		{"plain path", "/music/a.mp3", "/music/a.mp3", false},
		{"unclean path", "/music//x/../a.mp3", "/music/a.mp3", false},
		{"file uri", "file:///music/a.mp3", "/music/a.mp3", false},
		{"escaped file uri", "file:///music/my%20song.flac", "/music/my song.flac", false},
		{"empty", "", "", true},
		{"http scheme", "http://example.com/a.mp3", "", true},
		{"file uri without path", "file://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocatorPath(tt.locator)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LocatorPath(%q) error = %v, wantErr %v", tt.locator, err, tt.wantErr)
			}
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("LocatorPath(%q) = %q, want %q", tt.locator, got, tt.want)
			}
		})
	}
}

func TestFileLocator_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my song.mp3")

	loc, err := FileLocator(path)
	if err != nil {
		t.Fatalf("FileLocator() error = %v", err)
	}
	got, err := LocatorPath(loc)
	if err != nil {
		t.Fatalf("LocatorPath(%q) error = %v", loc, err)
	}
	if got != path {
		t.Errorf("round trip = %q, want %q", got, path)
	}
}

func TestIsMusicFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/a.mp3", true},
		{"/a.MP3", true},
		{"/a.flac", true},
		{"/a.wav", true},
		{"/a.ogg", true},
		{"/a.opus", false},
		{"/a.m4a", false},
		{"/a.txt", false},
		{"/noext", false},
	}
	for _, tt := range tests {
		if got := IsMusicFile(tt.path); got != tt.want {
			t.Errorf("IsMusicFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSkipID3v2(t *testing.T) {
	t.Run("no tag rewinds", func(t *testing.T) {
		r := bytes.NewReader([]byte("fLaC0123456789"))
		if err := skipID3v2(r); err != nil {
			t.Fatalf("skipID3v2() error = %v", err)
		}
		pos, _ := r.Seek(0, io.SeekCurrent)
		if pos != 0 {
			t.Errorf("position = %d, want 0", pos)
		}
	})

	t.Run("tag is skipped", func(t *testing.T) {
		// Header declares a 5-byte body (syncsafe 0,0,0,5).
		data := append([]byte("ID3\x04\x00\x00\x00\x00\x00\x05"), []byte("xxxxxfLaC")...)
		r := bytes.NewReader(data)
		if err := skipID3v2(r); err != nil {
			t.Fatalf("skipID3v2() error = %v", err)
		}
		rest, _ := io.ReadAll(r)
		if string(rest) != "fLaC" {
			t.Errorf("remaining = %q, want fLaC", rest)
		}
	})

	t.Run("short input rewinds", func(t *testing.T) {
		r := bytes.NewReader([]byte("ID3"))
		if err := skipID3v2(r); err != nil {
			t.Fatalf("skipID3v2() error = %v", err)
		}
		pos, _ := r.Seek(0, io.SeekCurrent)
		if pos != 0 {
			t.Errorf("position = %d, want 0", pos)
		}
	})
}

func TestLevelToVolume(t *testing.T) {
	tests := []struct {
		level float64
		want  float64
	}{
		{1, 0},
		{2, 0},
		{0.5, -1},
		{0.25, -2},
		{0, -10},
		{-1, -10},
	}
	for _, tt := range tests {
		if got := levelToVolume(tt.level); got != tt.want {
			t.Errorf("levelToVolume(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestOpenStream_UnsupportedFormat(t *testing.T) {
	_, err := ProbeDuration("/music/a.opus")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("ProbeDuration() error = %v, want unsupported format", err)
	}
}
