package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/melodia/internal/catalog"
	"github.com/llehouerou/melodia/internal/playback"
	"github.com/llehouerou/melodia/internal/player"
)

type recordingNotifier struct {
	mu     sync.Mutex
	sent   []Notification
	closed []uint32
	nextID uint32
}

func (r *recordingNotifier) Notify(n Notification) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	if n.ReplacesID != 0 {
		return n.ReplacesID, nil
	}
	r.nextID++
	return r.nextID, nil
}

func (r *recordingNotifier) Close(id uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = append(r.closed, id)
	return nil
}

func (r *recordingNotifier) Closed() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint32(nil), r.closed...)
}

func (r *recordingNotifier) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

type fixedArt string

func (f fixedArt) Path(catalog.Track) (string, error) { return string(f), nil }

func newController(t *testing.T, backend *player.Mock) *playback.Controller {
	t.Helper()
	cat := catalog.NewMock(
		catalog.Track{Name: "Intro", Locator: "/a.mp3", Duration: 65 * time.Second},
		catalog.Track{Name: "Outro", Locator: "/b.mp3"},
	)
	c := playback.New(backend, cat, playback.Options{PollInterval: time.Hour})
	require.NoError(t, c.Refresh(context.Background()))
	return c
}

func TestNowPlaying_AnnouncesTracks(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		c := newController(t, player.NewMock())
		defer c.Close(ctx)

		rec := &recordingNotifier{}
		np := NewNowPlaying(rec, fixedArt("/cache/a.png"), zerolog.Nop())
		go np.Run(ctx, c.Subscribe())

		require.NoError(t, c.LoadAndPlay(ctx, 0))
		synctest.Wait()
		require.NoError(t, c.SkipNext(ctx))
		synctest.Wait()

		sent := rec.Sent()
		require.Len(t, sent, 2)
		assert.Equal(t, "Intro", sent[0].Title)
		assert.Equal(t, "Track 1 · 1:05", sent[0].Body)
		assert.Equal(t, "/cache/a.png", sent[0].Icon)
		assert.Zero(t, sent[0].ReplacesID)

		assert.Equal(t, "Outro", sent[1].Title)
		assert.Equal(t, "Track 2", sent[1].Body)
		assert.Equal(t, uint32(1), sent[1].ReplacesID)
	})
}

func TestNowPlaying_AnnouncesLoadFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		backend := player.NewMock()
		backend.SetLoadError("/a.mp3", errors.New("no such file"))
		c := newController(t, backend)

		rec := &recordingNotifier{}
		done := make(chan struct{})
		go func() {
			NewNowPlaying(rec, nil, zerolog.Nop()).Run(ctx, c.Subscribe())
			close(done)
		}()

		require.Error(t, c.LoadAndPlay(ctx, 0))
		synctest.Wait()

		sent := rec.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "Cannot play track", sent[0].Title)
		assert.Contains(t, sent[0].Body, "no such file")

		require.NoError(t, c.Close(ctx))
		<-done
	})
}

func TestNowPlaying_DismissesOnStop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		c := newController(t, player.NewMock())

		rec := &recordingNotifier{}
		done := make(chan struct{})
		go func() {
			NewNowPlaying(rec, nil, zerolog.Nop()).Run(ctx, c.Subscribe())
			close(done)
		}()

		require.NoError(t, c.LoadAndPlay(ctx, 0))
		synctest.Wait()
		require.NoError(t, c.Stop(ctx))
		synctest.Wait()
		assert.Equal(t, []uint32{1}, rec.Closed())

		// Nothing left to dismiss on shutdown.
		require.NoError(t, c.Close(ctx))
		<-done
		assert.Equal(t, []uint32{1}, rec.Closed())
	})
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", formatDuration(0))
	assert.Equal(t, "3:07", formatDuration(3*time.Minute+7*time.Second))
	assert.Equal(t, "72:00", formatDuration(72*time.Minute))
}
