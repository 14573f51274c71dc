// Package artwork keeps small PNG thumbnails of track covers on disk, for
// consumers that take an image path (MPRIS artUrl, notification icons).
package artwork

import (
	"bytes"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	_ "image/jpeg" // cover decoders
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"github.com/nfnt/resize"

	"github.com/llehouerou/melodia/internal/catalog"
	"github.com/llehouerou/melodia/internal/player"
	"github.com/llehouerou/melodia/internal/tags"
)

// DefaultSize is the bounding box of generated thumbnails, in pixels.
const DefaultSize = 256

// Cache writes thumbnails under a directory, one file per locator.
type Cache struct {
	dir  string
	size uint

	mu      sync.Mutex
	missing map[string]bool // locators known to have no art
}

// DefaultDir returns the thumbnail directory under the XDG cache dir.
func DefaultDir() string {
	return filepath.Join(xdg.CacheHome, "melodia", "artwork")
}

func New(dir string, size uint) *Cache {
	if size == 0 {
		size = DefaultSize
	}
	return &Cache{dir: dir, size: size, missing: make(map[string]bool)}
}

// Path returns the thumbnail path for track, generating it on first use.
// It returns "" when the track has no cover art.
func (c *Cache) Path(track catalog.Track) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.missing[track.Locator] {
		return "", nil
	}
	out := filepath.Join(c.dir, thumbName(track.Locator))
	if _, err := os.Stat(out); err == nil {
		return out, nil
	}

	src, err := player.LocatorPath(track.Locator)
	if err != nil {
		return "", err
	}
	art, err := tags.ExtractCoverArt(src)
	if err != nil {
		return "", err
	}
	if art == nil {
		c.missing[track.Locator] = true
		return "", nil
	}

	img, _, err := image.Decode(bytes.NewReader(art.Data))
	if err != nil {
		c.missing[track.Locator] = true
		return "", fmt.Errorf("decode cover: %w", err)
	}
	thumb := resize.Thumbnail(c.size, c.size, img, resize.Lanczos3)
	if err := writePNG(out, thumb); err != nil {
		return "", err
	}
	return out, nil
}

func thumbName(locator string) string {
	h := fnv.New64a()
	h.Write([]byte(locator))
	return fmt.Sprintf("%x.png", h.Sum64())
}

// writePNG writes through a temp file so readers never see a partial image.
func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".thumb-*")
	if err != nil {
		return err
	}
	if err := png.Encode(tmp, img); err != nil {
		return errors.Join(err, tmp.Close(), os.Remove(tmp.Name()))
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(err, os.Remove(tmp.Name()))
	}
	return os.Rename(tmp.Name(), path)
}
