package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/melodia/internal/state"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	m, err := state.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return New(m.DB())
}

func names(tracks []Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.Name
	}
	return out
}

func TestAdd_AppendsInOrder(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)

	a, err := c.Add(ctx, "Song A", "/music/a.mp3")
	require.NoError(t, err)
	b, err := c.Add(ctx, "Song B", "/music/b.mp3")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	tracks, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Song A", "Song B"}, names(tracks))
	assert.Equal(t, "/music/a.mp3", tracks[0].Locator)
	assert.Zero(t, tracks[0].Duration)
}

func TestAdd_RejectsEmptyFields(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)

	_, err := c.Add(ctx, "  ", "/music/a.mp3")
	require.Error(t, err)
	_, err = c.Add(ctx, "Song", "")
	require.Error(t, err)

	tracks, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestList_Empty(t *testing.T) {
	c := newTestCatalog(t)
	tracks, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestRemove_ClosesGap(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)

	_, _ = c.Add(ctx, "A", "/a.mp3")
	b, _ := c.Add(ctx, "B", "/b.mp3")
	_, _ = c.Add(ctx, "C", "/c.mp3")

	require.NoError(t, c.Remove(ctx, b.ID))
	_, err := c.Add(ctx, "D", "/d.mp3")
	require.NoError(t, err)

	tracks, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "D"}, names(tracks))
}

func TestRemove_NotFound(t *testing.T) {
	c := newTestCatalog(t)
	err := c.Remove(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetDuration(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)
	a, _ := c.Add(ctx, "A", "/a.mp3")

	require.NoError(t, c.SetDuration(ctx, a.ID, 3*time.Minute+250*time.Millisecond))
	tracks, _ := c.List(ctx)
	assert.Equal(t, 3*time.Minute+250*time.Millisecond, tracks[0].Duration)

	assert.ErrorIs(t, c.SetDuration(ctx, 42, time.Second), ErrNotFound)
}

func TestProbe_FillsUnknownDurations(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)
	a, _ := c.Add(ctx, "A", "/a.mp3")
	b, _ := c.Add(ctx, "B", "/b.mp3")
	known, _ := c.Add(ctx, "C", "/c.mp3")
	require.NoError(t, c.SetDuration(ctx, known.ID, time.Minute))

	boom := errors.New("unreadable")
	var probed []string
	res, err := c.Probe(ctx, func(loc string) (time.Duration, error) {
		probed = append(probed, loc)
		if loc == "/b.mp3" {
			return 0, boom
		}
		return 2 * time.Minute, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/a.mp3", "/b.mp3"}, probed, "already-probed tracks are skipped")
	assert.Equal(t, 1, res.Probed)
	assert.ErrorIs(t, res.Failed[b.ID], boom)
	assert.NotContains(t, res.Failed, a.ID)

	tracks, _ := c.List(ctx)
	assert.Equal(t, 2*time.Minute, tracks[0].Duration)
	assert.Zero(t, tracks[1].Duration)
	assert.Equal(t, time.Minute, tracks[2].Duration)
}

func TestProbe_StopsOnCancel(t *testing.T) {
	c := newTestCatalog(t)
	_, _ = c.Add(context.Background(), "A", "/a.mp3")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Probe(ctx, func(string) (time.Duration, error) { return time.Second, nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMock_ListAndRemove(t *testing.T) {
	ctx := context.Background()
	m := NewMock(Track{Name: "A"}, Track{Name: "B"})

	tracks, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tracks[0].ID)
	assert.Equal(t, int64(2), tracks[1].ID)

	require.NoError(t, m.Remove(ctx, 1))
	assert.ErrorIs(t, m.Remove(ctx, 1), ErrNotFound)
	tracks, _ = m.List(ctx)
	assert.Equal(t, []string{"B"}, names(tracks))
}

func TestFingerprint_TracksChanges(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)

	empty, err := c.Fingerprint(ctx)
	require.NoError(t, err)

	a, err := c.Add(ctx, "Song A", "/a.mp3")
	require.NoError(t, err)
	added, err := c.Fingerprint(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, empty, added)

	same, err := c.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, added, same)

	require.NoError(t, c.SetDuration(ctx, a.ID, time.Minute))
	probed, err := c.Fingerprint(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, added, probed)

	require.NoError(t, c.Remove(ctx, a.ID))
	removed, err := c.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, empty, removed)
}
