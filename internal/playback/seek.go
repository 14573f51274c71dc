package playback

import (
	"context"
	"time"

	"github.com/llehouerou/melodia/internal/errmsg"
)

// SeekTo moves the loaded track to target, clamped to [0, Duration]. It
// does nothing when no resource is loaded. The position is updated before
// the backend call and restored if the backend rejects it.
func (c *Controller) SeekTo(ctx context.Context, target time.Duration) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	h := c.session.resource
	if !h.Valid() {
		c.mu.Unlock()
		return nil
	}
	gen := c.session.Generation
	prev := c.session.Position
	target = c.clampLocked(target)
	c.session.Position = target
	c.publishPositionLocked()
	c.mu.Unlock()

	err := c.backend.SetPosition(ctx, h, target)
	if err == nil {
		return nil
	}

	c.mu.Lock()
	if c.session.Generation == gen && c.session.resource == h {
		c.session.Position = prev
		c.publishPositionLocked()
	}
	c.mu.Unlock()

	terr := &TransportError{Op: errmsg.OpPlaybackSeek, Err: err}
	c.log.Warn().Err(err).Dur("target", target).Msg("seek failed")
	c.publishError(ErrorEvent{Op: errmsg.OpPlaybackSeek, Err: terr})
	return terr
}

// SeekBy moves the loaded track delta from its current position.
func (c *Controller) SeekBy(ctx context.Context, delta time.Duration) error {
	c.mu.Lock()
	pos := c.session.Position
	c.mu.Unlock()
	return c.SeekTo(ctx, pos+delta)
}

// clampLocked bounds pos to [0, Duration]; the upper bound only applies
// once the duration is known.
func (c *Controller) clampLocked(pos time.Duration) time.Duration {
	pos = max(pos, 0)
	if d := c.session.Duration; d > 0 {
		pos = min(pos, d)
	}
	return pos
}
