package catalog

import (
	"context"
	"time"
)

// ProbeFunc returns the duration of the audio behind a locator.
type ProbeFunc func(locator string) (time.Duration, error)

// ProbeResult reports what Probe did.
type ProbeResult struct {
	Probed int
	Failed map[int64]error
}

// Probe fills in the cached duration of every track that has none.
// Tracks that cannot be probed keep an unknown duration; their errors are
// collected rather than aborting the pass.
func (c *Catalog) Probe(ctx context.Context, probe ProbeFunc) (ProbeResult, error) {
	tracks, err := c.List(ctx)
	if err != nil {
		return ProbeResult{}, err
	}

	res := ProbeResult{Failed: make(map[int64]error)}
	for _, t := range tracks {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if t.Duration > 0 {
			continue
		}
		d, err := probe(t.Locator)
		if err != nil {
			res.Failed[t.ID] = err
			continue
		}
		if err := c.SetDuration(ctx, t.ID, d); err != nil {
			return res, err
		}
		res.Probed++
	}
	return res, nil
}
