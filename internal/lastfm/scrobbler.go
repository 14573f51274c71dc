package lastfm

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/melodia/internal/errmsg"
	"github.com/llehouerou/melodia/internal/playback"
	"github.com/llehouerou/melodia/internal/player"
	"github.com/llehouerou/melodia/internal/state"
	"github.com/llehouerou/melodia/internal/tags"
)

const (
	minTrackLength = 30 * time.Second
	maxThreshold   = 4 * time.Minute

	// Last.fm rejects scrobbles older than two weeks.
	maxPendingAge = 14 * 24 * time.Hour
	maxAttempts   = 10

	jobBufferSize = 32
)

// Submitter sends plays to Last.fm. *Client implements it.
type Submitter interface {
	UpdateNowPlaying(p Play) error
	Scrobble(p Play) error
}

// Queue stores plays that failed to submit. *state.Manager implements it.
type Queue interface {
	AddPendingScrobble(s state.PendingScrobble) error
	GetPendingScrobbles() ([]state.PendingScrobble, error)
	DeletePendingScrobble(id int64) error
	UpdatePendingScrobbleAttempt(id int64, errMsg string) error
	DeleteOldPendingScrobbles(maxAge time.Duration) error
}

// TagReader returns the tags of the file behind a track locator.
type TagReader func(locator string) (*tags.Tag, error)

// ReadLocatorTags is the TagReader for local files.
func ReadLocatorTags(locator string) (*tags.Tag, error) {
	path, err := player.LocatorPath(locator)
	if err != nil {
		return nil, err
	}
	return tags.Read(path)
}

// Scrobbler follows a playback subscription and reports what is played.
// A track is scrobbled once its position passes half its length or four
// minutes, whichever comes first. Tracks shorter than 30 seconds or
// without artist and title tags are never reported.
type Scrobbler struct {
	client   Submitter
	queue    Queue
	readTags TagReader
	log      zerolog.Logger
	now      func() time.Time

	current   *Play
	scrobbled bool
}

func NewScrobbler(client Submitter, queue Queue, readTags TagReader, log zerolog.Logger) *Scrobbler {
	if readTags == nil {
		readTags = ReadLocatorTags
	}
	return &Scrobbler{
		client:   client,
		queue:    queue,
		readTags: readTags,
		log:      log.With().Str("component", "lastfm").Logger(),
		now:      time.Now,
	}
}

// Run consumes sub until it is closed or ctx is done. Network calls run on
// a separate goroutine so a slow Last.fm never stalls event handling;
// Run returns after the submissions already queued have finished.
func (s *Scrobbler) Run(ctx context.Context, sub *playback.Subscription) {
	jobs := make(chan func(), jobBufferSize)
	worker := make(chan struct{})
	go func() {
		defer close(worker)
		for job := range jobs {
			job()
		}
	}()
	defer func() {
		close(jobs)
		<-worker
	}()

	jobs <- s.retryPending

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case e := <-sub.TrackChanged:
			if job := s.trackChanged(e); job != nil {
				s.enqueue(ctx, jobs, job)
			}
		case e := <-sub.PositionChanged:
			if job := s.positionChanged(e); job != nil {
				s.enqueue(ctx, jobs, job)
			}
		}
	}
}

func (s *Scrobbler) enqueue(ctx context.Context, jobs chan<- func(), job func()) {
	select {
	case jobs <- job:
	case <-ctx.Done():
	}
}

func (s *Scrobbler) trackChanged(e playback.TrackChange) func() {
	s.current = nil
	s.scrobbled = false
	if e.Current == nil {
		return nil
	}

	t, err := s.readTags(e.Current.Locator)
	if err != nil {
		s.log.Debug().Err(err).Str("locator", e.Current.Locator).Msg("read tags")
		return nil
	}
	artist := strings.TrimSpace(t.Artist)
	title := strings.TrimSpace(t.Title)
	if artist == "" || title == "" {
		s.log.Debug().Str("locator", e.Current.Locator).Msg("untagged track, not scrobbling")
		return nil
	}

	p := Play{
		Artist:    artist,
		Track:     title,
		Album:     strings.TrimSpace(t.Album),
		Duration:  e.Current.Duration,
		Timestamp: s.now(),
	}
	s.current = &p
	return func() {
		if err := s.client.UpdateNowPlaying(p); err != nil {
			s.log.Warn().Err(err).Str("track", p.Track).Msg("update now playing")
		}
	}
}

func (s *Scrobbler) positionChanged(e playback.PositionChange) func() {
	if s.current == nil || s.scrobbled {
		return nil
	}
	duration := e.Duration
	if duration <= 0 {
		duration = s.current.Duration
	}
	if duration < minTrackLength {
		return nil
	}
	if e.Position < Threshold(duration) {
		return nil
	}

	s.scrobbled = true
	p := *s.current
	p.Duration = duration
	return func() { s.submit(p) }
}

// Threshold is the position at which a track of the given length counts
// as played.
func Threshold(duration time.Duration) time.Duration {
	return min(duration/2, maxThreshold)
}

func (s *Scrobbler) submit(p Play) {
	if err := s.client.Scrobble(p); err != nil {
		s.log.Warn().Err(err).Str("track", p.Track).Msg(string(errmsg.OpLastfmScrobble))
		qerr := s.queue.AddPendingScrobble(state.PendingScrobble{
			Artist:       p.Artist,
			Track:        p.Track,
			Album:        p.Album,
			DurationSecs: int(p.Duration.Seconds()),
			Timestamp:    p.Timestamp,
			LastError:    err.Error(),
		})
		if qerr != nil {
			s.log.Error().Err(qerr).Msg("queue scrobble")
		}
		return
	}
	s.log.Debug().Str("track", p.Track).Msg("scrobbled")
	s.retryPending()
}

// retryPending resubmits queued plays oldest first and stops at the first
// failure.
func (s *Scrobbler) retryPending() {
	if err := s.queue.DeleteOldPendingScrobbles(maxPendingAge); err != nil {
		s.log.Warn().Err(err).Msg("prune pending scrobbles")
	}
	pending, err := s.queue.GetPendingScrobbles()
	if err != nil {
		s.log.Warn().Err(err).Msg("load pending scrobbles")
		return
	}

	for _, ps := range pending {
		if ps.Attempts >= maxAttempts {
			s.drop(ps.ID)
			continue
		}
		err := s.client.Scrobble(Play{
			Artist:    ps.Artist,
			Track:     ps.Track,
			Album:     ps.Album,
			Duration:  time.Duration(ps.DurationSecs) * time.Second,
			Timestamp: ps.Timestamp,
		})
		if err != nil {
			if uerr := s.queue.UpdatePendingScrobbleAttempt(ps.ID, err.Error()); uerr != nil {
				s.log.Warn().Err(uerr).Msg("update pending scrobble")
			}
			return
		}
		s.drop(ps.ID)
	}
}

func (s *Scrobbler) drop(id int64) {
	if err := s.queue.DeletePendingScrobble(id); err != nil {
		s.log.Warn().Err(err).Int64("id", id).Msg("delete pending scrobble")
	}
}
