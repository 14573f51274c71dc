package artwork

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/melodia/internal/catalog"
)

func writeCover(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestCache_GeneratesThumbnail(t *testing.T) {
	music := t.TempDir()
	track := filepath.Join(music, "a.mp3")
	require.NoError(t, os.WriteFile(track, []byte("not really audio"), 0o600))
	writeCover(t, filepath.Join(music, "cover.png"), 800, 400)

	c := New(t.TempDir(), 128)
	path, err := c.Path(catalog.Track{ID: 1, Locator: track})
	require.NoError(t, err)
	require.NotEmpty(t, path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Width)
	assert.Equal(t, 64, cfg.Height)

	again, err := c.Path(catalog.Track{ID: 1, Locator: track})
	require.NoError(t, err)
	assert.Equal(t, path, again)
}

func TestCache_NoArt(t *testing.T) {
	track := filepath.Join(t.TempDir(), "a.mp3")
	require.NoError(t, os.WriteFile(track, []byte("x"), 0o600))

	c := New(t.TempDir(), 0)
	path, err := c.Path(catalog.Track{Locator: track})
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.True(t, c.missing[track])
}

func TestCache_UndecodableArt(t *testing.T) {
	music := t.TempDir()
	track := filepath.Join(music, "a.mp3")
	require.NoError(t, os.WriteFile(track, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(music, "cover.jpg"), []byte("garbage"), 0o600))

	c := New(t.TempDir(), 0)
	_, err := c.Path(catalog.Track{Locator: track})
	require.Error(t, err)

	path, err := c.Path(catalog.Track{Locator: track})
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestThumbName_Stable(t *testing.T) {
	assert.Equal(t, thumbName("/a.mp3"), thumbName("/a.mp3"))
	assert.NotEqual(t, thumbName("/a.mp3"), thumbName("/b.mp3"))
}
