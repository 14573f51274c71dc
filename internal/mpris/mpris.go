//go:build linux

package mpris

import (
	"context"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/events"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"

	"github.com/llehouerou/melodia/internal/playback"
)

// Adapter serves a Player on the session bus and forwards its events as
// PropertiesChanged signals.
type Adapter struct {
	server *server.Server
	events *events.EventHandler
	log    zerolog.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

// New starts serving p. mixer and art may be nil.
func New(p Player, mixer Mixer, art ArtResolver, log zerolog.Logger) (*Adapter, error) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &Adapter{
		log:    log.With().Str("component", "mpris").Logger(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	pa := &playerAdapter{ctx: ctx, player: p, mixer: mixer, art: art}
	a.server = server.NewServer(busName, &rootAdapter{}, pa)
	a.events = events.NewEventHandler(a.server)
	pa.onSeek = a.seeked

	go func() {
		if err := a.server.Listen(); err != nil {
			a.log.Warn().Err(err).Msg("mpris server stopped")
		}
	}()
	go a.forward(ctx, p.Subscribe())
	return a, nil
}

// Close stops the server. Loads started over D-Bus are cancelled.
func (a *Adapter) Close() error {
	a.cancel()
	<-a.done
	return a.server.Stop()
}

func (a *Adapter) forward(ctx context.Context, sub *playback.Subscription) {
	defer close(a.done)
	for {
		var err error
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case <-sub.StateChanged:
			err = a.events.Player.OnPlayPause()
		case <-sub.TrackChanged:
			err = a.events.Player.OnTitle()
		case <-sub.CatalogChanged:
			err = a.events.Player.OnOptions()
		}
		if err != nil {
			a.log.Debug().Err(err).Msg("emit properties changed")
		}
	}
}

func (a *Adapter) seeked(pos time.Duration) {
	if err := a.events.Player.OnSeek(types.Microseconds(pos.Microseconds())); err != nil {
		a.log.Debug().Err(err).Msg("emit seeked")
	}
}
