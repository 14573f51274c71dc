package playback

import (
	"context"
	"time"

	"github.com/llehouerou/melodia/internal/player"
)

// startPollerLocked samples h while generation gen is playing. Any running
// poller is cancelled first.
func (c *Controller) startPollerLocked(gen uint64, h player.Handle) {
	c.stopPollerLocked()
	ctx, cancel := context.WithCancel(c.lifetime)
	c.stopPoll = cancel
	go c.poll(ctx, gen, h)
}

// stopPollerLocked cancels the poller without waiting for it: a sample it
// has already taken is dropped by applySample.
func (c *Controller) stopPollerLocked() {
	if c.stopPoll != nil {
		c.stopPoll()
		c.stopPoll = nil
	}
}

func (c *Controller) poll(ctx context.Context, gen uint64, h player.Handle) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		st, err := c.backend.Status(ctx, h)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Debug().Err(err).Uint64("generation", gen).Msg("status poll")
			continue
		}
		if c.applySample(gen, st) {
			c.finished(gen)
			return
		}
	}
}

// applySample writes a status sample into the session if it still belongs
// to the playing generation. It reports whether the sample shows the track
// ended on its own.
func (c *Controller) applySample(gen uint64, st player.Status) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Generation != gen || c.session.Status != StatusPlaying {
		return false
	}
	if st.Duration > 0 {
		c.session.Duration = st.Duration
	}
	c.session.Position = c.clampLocked(st.Position)
	c.publishPositionLocked()
	return st.DidFinish && !st.Looping
}
