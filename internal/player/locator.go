package player

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Supported file extensions.
const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
)

// LocatorPath resolves a source locator to a local file path.
// Locators are either plain paths or file:// URIs.
func LocatorPath(locator string) (string, error) {
	if locator == "" {
		return "", fmt.Errorf("empty locator")
	}
	if !strings.Contains(locator, "://") {
		return filepath.Clean(locator), nil
	}

	u, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf("parse locator: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported locator scheme %q", u.Scheme)
	}
	if u.Path == "" {
		return "", fmt.Errorf("locator %q has no path", locator)
	}
	return filepath.Clean(u.Path), nil
}

// FileLocator builds a file:// locator for an absolute or relative path.
func FileLocator(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

// IsMusicFile reports whether path has an extension the Speaker can decode.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3, extFLAC, extWAV, extOGG:
		return true
	}
	return false
}
