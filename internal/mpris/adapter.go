// Package mpris exposes the playback controller on the session bus as an
// MPRIS media player.
package mpris

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/melodia/internal/catalog"
	"github.com/llehouerou/melodia/internal/playback"
)

const busName = "melodia"

// Player is the part of playback.Controller driven over D-Bus.
type Player interface {
	Session() playback.Session
	CurrentTrack() *catalog.Track
	Tracks() []catalog.Track
	Subscribe() *playback.Subscription
	TogglePlayPause(ctx context.Context) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Stop(ctx context.Context) error
	SkipNext(ctx context.Context) error
	SkipPrevious(ctx context.Context) error
	SeekTo(ctx context.Context, target time.Duration) error
	SeekBy(ctx context.Context, delta time.Duration) error
}

// Mixer is the optional volume control.
type Mixer interface {
	Volume() float64
	SetVolume(level float64)
}

// ArtResolver maps a track to a local cover image path.
type ArtResolver interface {
	Path(track catalog.Track) (string, error)
}

type rootAdapter struct{}

func (r *rootAdapter) Raise() error { return nil }
func (r *rootAdapter) Quit() error { return nil }
func (r *rootAdapter) CanQuit() (bool, error) { return false, nil }
func (r *rootAdapter) CanRaise() (bool, error) { return false, nil }
func (r *rootAdapter) Identity() (string, error) { return "Melodia", nil }

// The track list is the catalog, which is edited out of band.
func (r *rootAdapter) HasTrackList() (bool, error) { return false, nil }

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and the volume
// extension on top of a Player.
type playerAdapter struct {
	ctx    context.Context
	player Player
	mixer  Mixer
	art    ArtResolver

	// onSeek is called after a successful seek with the new position.
	onSeek func(pos time.Duration)
}

func (p *playerAdapter) Next() error { return p.player.SkipNext(p.ctx) }
func (p *playerAdapter) Previous() error { return p.player.SkipPrevious(p.ctx) }
func (p *playerAdapter) Pause() error { return p.player.Pause(p.ctx) }
func (p *playerAdapter) PlayPause() error { return p.player.TogglePlayPause(p.ctx) }
func (p *playerAdapter) Stop() error { return p.player.Stop(p.ctx) }
func (p *playerAdapter) Play() error { return p.player.Play(p.ctx) }

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	if err := p.player.SeekBy(p.ctx, time.Duration(offset)*time.Microsecond); err != nil {
		return err
	}
	p.seeked()
	return nil
}

// SetPosition is ignored when trackID is not the loaded track.
func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	track := p.player.CurrentTrack()
	if track == nil || trackID != string(trackObjectPath(track.ID)) {
		return nil
	}
	if err := p.player.SeekTo(p.ctx, time.Duration(position)*time.Microsecond); err != nil {
		return err
	}
	p.seeked()
	return nil
}

func (p *playerAdapter) seeked() {
	if p.onSeek != nil {
		p.onSeek(p.player.Session().Position)
	}
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.player.Session().Status), nil
}

func playbackStatus(s playback.Status) types.PlaybackStatus {
	switch s {
	case playback.StatusPlaying, playback.StatusLoading:
		return types.PlaybackStatusPlaying
	case playback.StatusPaused:
		return types.PlaybackStatusPaused
	case playback.StatusIdle, playback.StatusError:
		return types.PlaybackStatusStopped
	}
	return types.PlaybackStatusStopped
}

func (p *playerAdapter) Rate() (float64, error) { return 1.0, nil }
func (p *playerAdapter) SetRate(_ float64) error { return nil }
func (p *playerAdapter) MinimumRate() (float64, error) { return 1.0, nil }
func (p *playerAdapter) MaximumRate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	track := p.player.CurrentTrack()
	if track == nil {
		return types.Metadata{}, nil
	}

	length := p.player.Session().Duration
	if length <= 0 {
		length = track.Duration
	}
	meta := types.Metadata{
		TrackId: trackObjectPath(track.ID),
		Length:  types.Microseconds(length.Microseconds()),
		Title:   track.Name,
	}
	if p.art != nil {
		if path, err := p.art.Path(*track); err == nil && path != "" {
			meta.ArtUrl = "file://" + path
		}
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	if p.mixer == nil {
		return 1.0, nil
	}
	return p.mixer.Volume(), nil
}

func (p *playerAdapter) SetVolume(level float64) error {
	if p.mixer != nil {
		p.mixer.SetVolume(min(max(level, 0), 1))
	}
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.player.Session().Position.Microseconds(), nil
}

// Skips wrap around, so any non-empty catalog can go both ways.
func (p *playerAdapter) CanGoNext() (bool, error) { return len(p.player.Tracks()) > 0, nil }
func (p *playerAdapter) CanGoPrevious() (bool, error) { return len(p.player.Tracks()) > 0, nil }
func (p *playerAdapter) CanPlay() (bool, error) { return len(p.player.Tracks()) > 0, nil }
func (p *playerAdapter) CanPause() (bool, error) { return true, nil }
func (p *playerAdapter) CanSeek() (bool, error) { return p.player.Session().HasResource(), nil }
func (p *playerAdapter) CanControl() (bool, error) { return true, nil }

func trackObjectPath(id int64) dbus.ObjectPath {
	return dbus.ObjectPath(fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%d", id))
}
