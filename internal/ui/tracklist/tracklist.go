// Package tracklist renders the catalog as a scrollable list with a
// cursor and a marker on the playing track.
package tracklist

import (
	"fmt"
	"strings"
	"time"

	"github.com/llehouerou/melodia/internal/catalog"
	"github.com/llehouerou/melodia/internal/ui/cursor"
	"github.com/llehouerou/melodia/internal/ui/render"
	"github.com/llehouerou/melodia/internal/ui/styles"
)

const (
	playingSymbol = "▶"
	scrollMargin  = 2
	durationWidth = 7
)

// Model is the list state. Tracks are replaced wholesale on refresh.
type Model struct {
	tracks []catalog.Track
	cursor cursor.Cursor
	width  int
	height int // rows of tracks, excluding header and borders
}

func New() Model {
	return Model{cursor: cursor.New(scrollMargin)}
}

// SetTracks installs a new list, keeping the cursor on the same track id
// when it is still present.
func (m *Model) SetTracks(tracks []catalog.Track) {
	var selectedID int64
	if t := m.Selected(); t != nil {
		selectedID = t.ID
	}
	m.tracks = tracks
	for i, t := range tracks {
		if t.ID == selectedID {
			m.cursor.Jump(i, len(tracks), m.height)
			return
		}
	}
	m.cursor.Clamp(len(tracks), m.height)
}

// SetSize sets the outer size of the panel.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = max(height-3, 1) // border and header
	m.cursor.EnsureVisible(len(m.tracks), m.height)
}

func (m Model) Len() int { return len(m.tracks) }

// Track returns the track at index i, or nil if out of range.
func (m Model) Track(i int) *catalog.Track {
	if i < 0 || i >= len(m.tracks) {
		return nil
	}
	t := m.tracks[i]
	return &t
}

// Cursor returns the selected index, or -1 when the list is empty.
func (m Model) Cursor() int {
	if len(m.tracks) == 0 {
		return -1
	}
	return m.cursor.Pos()
}

// Selected returns the track under the cursor, or nil.
func (m Model) Selected() *catalog.Track {
	i := m.Cursor()
	if i < 0 {
		return nil
	}
	t := m.tracks[i]
	return &t
}

// HandleKey applies navigation keys.
func (m *Model) HandleKey(key string) bool {
	return m.cursor.HandleKey(key, len(m.tracks), m.height)
}

// JumpTo moves the cursor to index.
func (m *Model) JumpTo(index int) {
	m.cursor.Jump(index, len(m.tracks), m.height)
}

// View renders the panel. playing is the index of the loaded track, -1 if
// none.
func (m Model) View(playing int) string {
	inner := max(m.width-2, 10)

	header := fmt.Sprintf("Tracks (%d)", len(m.tracks))
	if len(m.tracks) == 0 {
		header = "Tracks (empty: add some with melodia-catalog add)"
	}
	lines := make([]string, 0, m.height+1)
	lines = append(lines, styles.Muted.Render(render.Fit(header, inner)))

	start, end := m.cursor.VisibleRange(len(m.tracks), m.height)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderLine(i, playing, inner))
	}
	for len(lines) < m.height+1 {
		lines = append(lines, strings.Repeat(" ", inner))
	}
	return styles.Panel(true).Width(inner).Render(strings.Join(lines, "\n"))
}

func (m Model) renderLine(i, playing, width int) string {
	t := m.tracks[i]
	prefix := "  "
	if i == playing {
		prefix = playingSymbol + " "
	}
	dur := ""
	if t.Duration > 0 {
		dur = formatDuration(t.Duration)
	}
	nameWidth := max(width-2-durationWidth, 1)
	line := prefix + render.Fit(t.Name, nameWidth) + fmt.Sprintf("%*s", durationWidth, dur)

	switch {
	case i == m.cursor.Pos():
		return styles.Cursor.Render(line)
	case i == playing:
		return styles.Playing.Render(line)
	default:
		return styles.Base.Render(line)
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
