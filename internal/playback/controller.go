// Package playback implements the playback session engine. It decides which
// track is loaded and keeps the session consistent while user actions race
// backend callbacks.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/melodia/internal/catalog"
	"github.com/llehouerou/melodia/internal/errmsg"
	"github.com/llehouerou/melodia/internal/player"
	"github.com/llehouerou/melodia/internal/playlist"
)

// DefaultPollInterval is how often position is sampled while playing.
const DefaultPollInterval = 500 * time.Millisecond

// anyGeneration disables the generation condition of advanceTo. Generation
// 0 belongs to a fresh session, which has no finishing track.
const anyGeneration uint64 = 0

// Catalog is the part of the track catalog the engine reads.
type Catalog interface {
	List(ctx context.Context) ([]catalog.Track, error)
}

// Options configures a Controller.
type Options struct {
	PollInterval time.Duration
	Logger       *zerolog.Logger
}

// Controller owns the playback session. All session mutation goes through
// its methods; it is safe for concurrent use.
//
// mu guards the session and is never held across a backend call. loadMu
// serializes resource turnover: releasing detached resources and loading
// the next one happen under it, so two loads never succeed without a
// release in between.
type Controller struct {
	backend      player.Backend
	catalog      Catalog
	log          zerolog.Logger
	pollInterval time.Duration

	lifetime context.Context
	shutdown context.CancelFunc

	loadMu sync.Mutex

	mu         sync.Mutex
	session    Session
	list       *playlist.Playlist
	active     *catalog.Track
	detached   []player.Handle // awaiting release under loadMu
	cancelLoad context.CancelFunc
	stopPoll   context.CancelFunc
	resume     *resumePoint
	resumeAt   time.Duration // applied by the load of the current generation
	closed     bool

	subsMu     sync.RWMutex
	subs       []*Subscription
	subsClosed bool
}

type resumePoint struct {
	index    int
	trackID  int64
	position time.Duration
}

// New creates a controller with an empty ordering. Call Refresh to read
// the catalog.
func New(backend player.Backend, cat Catalog, opts Options) *Controller {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "playback").Logger()
	}

	lifetime, shutdown := context.WithCancel(context.Background())
	return &Controller{
		backend:      backend,
		catalog:      cat,
		log:          log,
		pollInterval: opts.PollInterval,
		lifetime:     lifetime,
		shutdown:     shutdown,
		session:      newSession(),
		list:         playlist.New(nil),
	}
}

// Session returns a copy of the current session.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Tracks returns the ordering the session indexes into.
func (c *Controller) Tracks() []catalog.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Tracks()
}

// CurrentTrack returns the loaded track, or nil if none.
func (c *Controller) CurrentTrack() *catalog.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.session.HasResource() || c.active == nil {
		return nil
	}
	t := *c.active
	return &t
}

// Subscribe creates a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	if c.subsClosed {
		sub.close()
		return sub
	}
	c.subs = append(c.subs, sub)
	return sub
}

// LoadAndPlay loads the track at index, replacing whatever is loaded, and
// starts playing it.
func (c *Controller) LoadAndPlay(ctx context.Context, index int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if index < 0 || index >= c.list.Len() {
		n := c.list.Len()
		c.mu.Unlock()
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, n)
	}
	gen := c.beginLoadLocked(index)
	c.mu.Unlock()

	return c.runLoad(ctx, gen)
}

// TogglePlayPause pauses or resumes the loaded track. Without a resource it
// loads the active track (the first one in a fresh session), or retries the
// failed one.
func (c *Controller) TogglePlayPause(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	switch c.session.Status {
	case StatusPlaying:
		h, gen := c.session.resource, c.session.Generation
		c.mu.Unlock()
		return c.pause(ctx, h, gen)
	case StatusPaused:
		h, gen := c.session.resource, c.session.Generation
		c.mu.Unlock()
		return c.play(ctx, h, gen)
	case StatusLoading:
		// The pending load plays on completion; a second load of the same
		// track would only supersede it.
		c.mu.Unlock()
		return nil
	default:
		c.mu.Unlock()
		return c.loadCursor(ctx)
	}
}

// Play resumes a paused track, or loads like TogglePlayPause when nothing
// is loaded. It does nothing while playing or loading.
func (c *Controller) Play(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	switch c.session.Status {
	case StatusPaused:
		h, gen := c.session.resource, c.session.Generation
		c.mu.Unlock()
		return c.play(ctx, h, gen)
	case StatusIdle, StatusError:
		c.mu.Unlock()
		return c.loadCursor(ctx)
	default:
		c.mu.Unlock()
		return nil
	}
}

// Pause pauses a playing track. It does nothing otherwise.
func (c *Controller) Pause(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.session.Status != StatusPlaying {
		c.mu.Unlock()
		return nil
	}
	h, gen := c.session.resource, c.session.Generation
	c.mu.Unlock()
	return c.pause(ctx, h, gen)
}

// SkipNext loads the next track, wrapping to the first.
func (c *Controller) SkipNext(ctx context.Context) error {
	return c.advanceTo(ctx, 1, anyGeneration)
}

// SkipPrevious loads the previous track, wrapping to the last.
func (c *Controller) SkipPrevious(ctx context.Context) error {
	return c.advanceTo(ctx, -1, anyGeneration)
}

// Stop unloads the current track and leaves the session Idle. A load in
// flight is cancelled.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.session.Status == StatusIdle && !c.session.HasResource() {
		c.mu.Unlock()
		return nil
	}
	c.unloadLocked()
	c.mu.Unlock()

	c.releaseDetached(ctx)
	return nil
}

// Refresh re-reads the catalog and installs its ordering. The loaded track
// keeps playing; indexes follow it by id. An empty catalog resets the
// session to Idle.
func (c *Controller) Refresh(ctx context.Context) error {
	if c.isClosed() {
		return ErrClosed
	}
	tracks, err := c.catalog.List(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("list catalog")
		c.publishError(ErrorEvent{Op: errmsg.OpCatalogLoad, Err: err})
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	list := playlist.New(tracks)
	c.list = list
	emptied := list.IsEmpty()
	if emptied {
		c.unloadLocked()
		c.session.ActiveIndex = 0
		c.session.TrackID = 0
		c.session.Duration = 0
		c.active = nil
		c.resume = nil
	} else {
		if c.session.PendingIndex >= 0 {
			c.session.PendingIndex = list.Remap(c.session.PendingIndex, c.session.TrackID)
		}
		var activeID int64
		switch {
		case c.resume != nil:
			activeID = c.resume.trackID
		case c.active != nil:
			activeID = c.active.ID
		}
		c.session.ActiveIndex = list.Remap(c.session.ActiveIndex, activeID)
		if c.resume != nil {
			if i := list.IndexOf(c.resume.trackID); i >= 0 {
				c.resume.index = i
			} else {
				c.resume = nil
				c.session.Position = 0
			}
		}
	}
	c.publishCatalogLocked()
	c.mu.Unlock()

	if emptied {
		c.releaseDetached(ctx)
	}
	return nil
}

// Restore preselects index so the next play resumes it at position. It only
// applies to an Idle session and never loads anything.
func (c *Controller) Restore(index int, position time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if index < 0 || index >= c.list.Len() {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, c.list.Len())
	}
	if c.session.Status != StatusIdle {
		return nil
	}
	track := c.list.Track(index)
	c.session.ActiveIndex = index
	c.session.TrackID = track.ID
	c.session.Duration = track.Duration
	c.session.Position = c.clampLocked(position)
	c.resume = &resumePoint{index: index, trackID: track.ID, position: c.session.Position}
	return nil
}

// Close releases the loaded resource and closes every subscription. It is
// idempotent.
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.unloadLocked()
	c.shutdown()
	c.mu.Unlock()

	c.releaseDetached(ctx)

	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsClosed = true
	c.subsMu.Unlock()
	return nil
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// advanceTo is the one path for skip-next, skip-previous and auto-advance:
// it steps delta from the cursor and loads the result. When from is not
// anyGeneration the step only happens if the session is still at that
// generation, checked together with the increment.
func (c *Controller) advanceTo(ctx context.Context, delta int, from uint64) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if from != anyGeneration && c.session.Generation != from {
		c.mu.Unlock()
		return nil
	}
	if c.list.IsEmpty() {
		c.mu.Unlock()
		return nil
	}
	next := c.list.Step(c.session.cursor(), delta)
	gen := c.beginLoadLocked(next)
	c.mu.Unlock()

	return c.runLoad(ctx, gen)
}

// finished follows the natural end of the track loaded at generation gen.
func (c *Controller) finished(gen uint64) {
	c.log.Debug().Uint64("generation", gen).Msg("track finished")
	if err := c.advanceTo(c.lifetime, 1, gen); err != nil && !errors.Is(err, ErrClosed) {
		c.log.Debug().Err(err).Msg("auto-advance")
	}
}

func (c *Controller) loadCursor(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.list.IsEmpty() {
		c.mu.Unlock()
		return nil
	}
	index := min(max(c.session.cursor(), 0), c.list.Len()-1)
	gen := c.beginLoadLocked(index)
	c.mu.Unlock()

	return c.runLoad(ctx, gen)
}

// beginLoadLocked starts a new generation targeting index. The current
// resource, if any, is detached and queued for release.
func (c *Controller) beginLoadLocked(index int) uint64 {
	c.session.Generation++
	c.stopPollerLocked()
	c.detachLocked()

	track := c.list.Track(index)
	c.session.PendingIndex = index
	c.session.TrackID = track.ID
	c.session.Position = 0
	c.session.Duration = track.Duration
	c.session.LastError = nil

	c.resumeAt = 0
	if c.resume != nil {
		if c.resume.index == index {
			c.resumeAt = c.clampLocked(c.resume.position)
			c.session.Position = c.resumeAt
		}
		c.resume = nil
	}

	c.setStatusLocked(StatusLoading)
	return c.session.Generation
}

// unloadLocked ends the current generation without starting another.
func (c *Controller) unloadLocked() {
	c.session.Generation++
	c.stopPollerLocked()
	if c.cancelLoad != nil {
		c.cancelLoad()
		c.cancelLoad = nil
	}
	c.detachLocked()
	c.session.PendingIndex = -1
	c.session.Position = 0
	c.session.LastError = nil
	c.setStatusLocked(StatusIdle)
}

func (c *Controller) detachLocked() {
	if c.session.resource.Valid() {
		c.detached = append(c.detached, c.session.resource)
		c.session.resource = 0
	}
}

// releaseDetached releases every detached resource.
func (c *Controller) releaseDetached(ctx context.Context) {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	c.releaseDetachedLocked(ctx)
}

// releaseDetachedLocked is releaseDetached for callers holding loadMu.
func (c *Controller) releaseDetachedLocked(ctx context.Context) {
	c.mu.Lock()
	hs := c.detached
	c.detached = nil
	c.mu.Unlock()

	for _, h := range hs {
		c.release(ctx, h)
	}
}

// release unloads h. Failures are logged and reported but never returned:
// a leaked resource is preferred over a stuck transport.
func (c *Controller) release(ctx context.Context, h player.Handle) {
	if err := c.backend.Release(context.WithoutCancel(ctx), h); err != nil {
		rerr := &ReleaseError{Err: err}
		c.log.Warn().Err(err).Uint64("handle", uint64(h)).Msg("release failed")
		c.publishError(ErrorEvent{Op: errmsg.OpPlaybackRelease, Err: rerr})
	}
}

// runLoad performs the load of generation gen. Results that arrive after
// gen was superseded are dropped and their resource released.
func (c *Controller) runLoad(ctx context.Context, gen uint64) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	c.releaseDetachedLocked(ctx)

	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.lifetime, cancel)
	defer stop()

	c.mu.Lock()
	if c.session.Generation != gen {
		c.mu.Unlock()
		return nil
	}
	index := c.session.PendingIndex
	track := *c.list.Track(index)
	resumeAt := c.resumeAt
	c.cancelLoad = cancel
	c.mu.Unlock()

	log := c.log.With().Uint64("generation", gen).Int("index", index).Str("locator", track.Locator).Logger()
	log.Debug().Msg("loading")

	h, err := c.backend.Load(loadCtx, track.Locator)

	c.mu.Lock()
	if c.session.Generation != gen {
		c.mu.Unlock()
		if err == nil {
			log.Debug().Msg("dropping superseded load")
			c.release(ctx, h)
		}
		return nil
	}
	c.cancelLoad = nil
	if err != nil {
		lerr := &LoadError{Index: index, Locator: track.Locator, Err: err}
		c.session.LastError = lerr
		c.setStatusLocked(StatusError)
		c.mu.Unlock()

		log.Warn().Err(err).Msg("load failed")
		c.publishError(ErrorEvent{Op: errmsg.OpPlaybackLoad, Locator: track.Locator, Err: lerr})
		return lerr
	}

	prevTrack, prevIndex := c.active, c.session.ActiveIndex
	c.session.resource = h
	c.session.ActiveIndex = index
	c.session.PendingIndex = -1
	c.active = &track
	c.mu.Unlock()

	c.publishTrack(TrackChange{
		Previous:      prevTrack,
		Current:       &track,
		PreviousIndex: prevIndex,
		Index:         index,
	})

	// A superseding load waits for loadMu, so h stays attached until we
	// return; calls below can only go stale through Stop or Close.
	if err := c.backend.OnFinished(h, func() { c.finished(gen) }); err != nil {
		log.Debug().Err(err).Msg("finish notification unavailable")
	}
	if st, err := c.backend.Status(loadCtx, h); err == nil && st.Duration > 0 {
		// The catalog duration may be stale; the decoder's is authoritative.
		resumeAt = min(resumeAt, st.Duration)
		c.mu.Lock()
		if c.session.Generation == gen {
			c.session.Duration = st.Duration
			c.session.Position = c.clampLocked(c.session.Position)
		}
		c.mu.Unlock()
	}
	if resumeAt > 0 {
		if err := c.backend.SetPosition(loadCtx, h, resumeAt); err != nil {
			log.Warn().Err(err).Dur("position", resumeAt).Msg("resume seek failed")
			c.mu.Lock()
			if c.session.Generation == gen {
				c.session.Position = 0
			}
			c.mu.Unlock()
		}
	}

	err = c.backend.Play(loadCtx, h)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Generation != gen {
		return nil
	}
	if err != nil {
		terr := &TransportError{Op: errmsg.OpPlaybackStart, Err: err}
		c.setStatusLocked(StatusPaused)
		log.Warn().Err(err).Msg("play after load failed")
		c.publishError(ErrorEvent{Op: errmsg.OpPlaybackStart, Locator: track.Locator, Err: terr})
		return terr
	}
	c.setStatusLocked(StatusPlaying)
	c.startPollerLocked(gen, h)
	log.Info().Str("track", track.Name).Msg("playing")
	return nil
}

// play resumes h if it still belongs to generation gen.
func (c *Controller) play(ctx context.Context, h player.Handle, gen uint64) error {
	err := c.backend.Play(ctx, h)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Generation != gen || c.session.resource != h {
		return nil
	}
	if err != nil {
		terr := &TransportError{Op: errmsg.OpPlaybackStart, Err: err}
		c.log.Warn().Err(err).Msg("play failed")
		c.publishError(ErrorEvent{Op: errmsg.OpPlaybackStart, Err: terr})
		return terr
	}
	c.setStatusLocked(StatusPlaying)
	c.startPollerLocked(gen, h)
	return nil
}

// pause pauses h if it still belongs to generation gen.
func (c *Controller) pause(ctx context.Context, h player.Handle, gen uint64) error {
	err := c.backend.Pause(ctx, h)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Generation != gen || c.session.resource != h {
		return nil
	}
	if err != nil {
		terr := &TransportError{Op: errmsg.OpPlaybackPause, Err: err}
		c.log.Warn().Err(err).Msg("pause failed")
		c.publishError(ErrorEvent{Op: errmsg.OpPlaybackPause, Err: terr})
		return terr
	}
	c.stopPollerLocked()
	c.setStatusLocked(StatusPaused)
	return nil
}

// Event publishing. Sends never block, so they are safe under mu.

func (c *Controller) setStatusLocked(s Status) {
	prev := c.session.Status
	if prev == s {
		return
	}
	c.session.Status = s
	c.log.Debug().Stringer("from", prev).Stringer("to", s).Msg("status")
	c.forEachSub(func(sub *Subscription) {
		sub.sendState(StateChange{Previous: prev, Current: s})
	})
}

func (c *Controller) publishPositionLocked() {
	e := PositionChange{Position: c.session.Position, Duration: c.session.Duration}
	c.forEachSub(func(sub *Subscription) { sub.sendPosition(e) })
}

func (c *Controller) publishCatalogLocked() {
	e := CatalogChange{Tracks: c.list.Tracks(), Index: c.session.ActiveIndex}
	c.forEachSub(func(sub *Subscription) { sub.sendCatalog(e) })
}

func (c *Controller) publishTrack(e TrackChange) {
	c.forEachSub(func(sub *Subscription) { sub.sendTrack(e) })
}

func (c *Controller) publishError(e ErrorEvent) {
	c.forEachSub(func(sub *Subscription) { sub.sendError(e) })
}

func (c *Controller) forEachSub(fn func(*Subscription)) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		fn(sub)
	}
}
