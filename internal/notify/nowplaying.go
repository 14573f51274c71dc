package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/melodia/internal/catalog"
	"github.com/llehouerou/melodia/internal/errmsg"
	"github.com/llehouerou/melodia/internal/playback"
)

const nowPlayingTimeout = 5000

// ArtResolver maps a track to a cover image path, "" when it has none.
type ArtResolver interface {
	Path(track catalog.Track) (string, error)
}

// NowPlaying announces track changes and load failures. Each notification
// replaces the previous one, and the last one is dismissed when playback
// stops.
type NowPlaying struct {
	notifier Notifier
	art      ArtResolver
	log      zerolog.Logger
	lastID   uint32
}

// NewNowPlaying creates an announcer. art may be nil.
func NewNowPlaying(n Notifier, art ArtResolver, log zerolog.Logger) *NowPlaying {
	return &NowPlaying{
		notifier: n,
		art:      art,
		log:      log.With().Str("component", "notify").Logger(),
	}
}

// Run consumes sub until it is closed or ctx is done.
func (np *NowPlaying) Run(ctx context.Context, sub *playback.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			np.dismiss()
			return
		case e := <-sub.StateChanged:
			if e.Current == playback.StatusIdle {
				np.dismiss()
			}
		case e := <-sub.TrackChanged:
			if e.Current != nil {
				np.send(np.trackNotification(e))
			}
		case e := <-sub.Error:
			if e.Op == errmsg.OpPlaybackLoad {
				np.send(Notification{
					Title:   "Cannot play track",
					Body:    errmsg.Format(e.Op, e.Err),
					Timeout: nowPlayingTimeout,
					Urgency: UrgencyNormal,
				})
			}
		}
	}
}

func (np *NowPlaying) trackNotification(e playback.TrackChange) Notification {
	n := Notification{
		Title:    e.Current.Name,
		Body:     fmt.Sprintf("Track %d", e.Index+1),
		Icon:     "audio-x-generic",
		Category: "x-gnome.music",
		Timeout:  nowPlayingTimeout,
		Urgency:  UrgencyLow,
	}
	if e.Current.Duration > 0 {
		n.Body += " · " + formatDuration(e.Current.Duration)
	}
	if np.art != nil {
		path, err := np.art.Path(*e.Current)
		if err != nil {
			np.log.Debug().Err(err).Str("locator", e.Current.Locator).Msg("cover art")
		}
		if path != "" {
			n.Icon = path
		}
	}
	return n
}

func (np *NowPlaying) send(n Notification) {
	n.ReplacesID = np.lastID
	id, err := np.notifier.Notify(n)
	if err != nil {
		np.log.Warn().Err(err).Msg("send notification")
		return
	}
	np.lastID = id
}

func (np *NowPlaying) dismiss() {
	if np.lastID == 0 {
		return
	}
	if err := np.notifier.Close(np.lastID); err != nil {
		np.log.Debug().Err(err).Msg("close notification")
	}
	np.lastID = 0
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
