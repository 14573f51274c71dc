// Package playlist holds the ordering the playback engine walks: a snapshot
// of the catalog taken when the catalog was last read.
package playlist

import (
	"slices"

	"github.com/llehouerou/melodia/internal/catalog"
)

// Playlist is an immutable ordered snapshot of catalog tracks.
type Playlist struct {
	tracks []catalog.Track
}

// New creates a playlist over a copy of tracks.
func New(tracks []catalog.Track) *Playlist {
	return &Playlist{tracks: slices.Clone(tracks)}
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	if p == nil {
		return 0
	}
	return len(p.tracks)
}

// IsEmpty returns true if the playlist has no tracks.
func (p *Playlist) IsEmpty() bool {
	return p.Len() == 0
}

// Track returns the track at the given index, or nil if out of bounds.
func (p *Playlist) Track(index int) *catalog.Track {
	if index < 0 || index >= p.Len() {
		return nil
	}
	t := p.tracks[index]
	return &t
}

// Tracks returns a copy of all tracks.
func (p *Playlist) Tracks() []catalog.Track {
	if p == nil {
		return []catalog.Track{}
	}
	return slices.Clone(p.tracks)
}

// IndexOf returns the index of the track with the given id, or -1.
func (p *Playlist) IndexOf(id int64) int {
	if p == nil {
		return -1
	}
	return slices.IndexFunc(p.tracks, func(t catalog.Track) bool { return t.ID == id })
}

// Step moves delta positions from index, wrapping at both ends.
// Returns -1 for an empty playlist.
func (p *Playlist) Step(index, delta int) int {
	n := p.Len()
	if n == 0 {
		return -1
	}
	return ((index+delta)%n + n) % n
}

// Remap finds where the track identified by id sits in p, the ordering
// that replaced the one where it was at prev. When the track is gone the
// old index is kept, clamped to the new bounds, so playback resumes at the
// track that slid into its place. Returns -1 for an empty playlist.
func (p *Playlist) Remap(prev int, id int64) int {
	n := p.Len()
	if n == 0 {
		return -1
	}
	if i := p.IndexOf(id); i >= 0 {
		return i
	}
	return min(max(prev, 0), n-1)
}
