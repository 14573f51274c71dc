// internal/app/view.go
package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/melodia/internal/keymap"
	"github.com/llehouerou/melodia/internal/playback"
	"github.com/llehouerou/melodia/internal/ui/playerbar"
	"github.com/llehouerou/melodia/internal/ui/render"
	"github.com/llehouerou/melodia/internal/ui/styles"
)

const statusLineHeight = 1

// View renders the application UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	s := m.session
	bar := playerbar.NewState(s, m.displayTitle(), m.list.Len(), m.mixer.Volume(), m.mixer.Muted())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.list.View(playingIndex(s)),
		playerbar.Render(bar, m.width),
		m.renderStatusLine(),
	)
}

// playingIndex is the row marked as playing: the loaded track, or the
// one being loaded.
func playingIndex(s playback.Session) int {
	switch {
	case s.Status == playback.StatusLoading && s.PendingIndex >= 0:
		return s.PendingIndex
	case s.HasResource():
		return s.ActiveIndex
	}
	return -1
}

// displayTitle names the track the player bar is about: the pending or
// failed load first, then the loaded or preselected track.
func (m Model) displayTitle() string {
	s := m.session
	idx := -1
	switch {
	case s.PendingIndex >= 0:
		idx = s.PendingIndex
	case s.TrackID != 0:
		idx = s.ActiveIndex
	}
	if t := m.list.Track(idx); t != nil {
		return t.Name
	}
	return ""
}

func (m Model) renderStatusLine() string {
	switch {
	case m.adding:
		return m.input.View()
	case m.errMsg != "":
		return styles.Error.Render(render.Fit(m.errMsg, m.width))
	case m.showHelp:
		return styles.Muted.Render(render.Fit(m.helpText(), m.width))
	}
	return styles.Subtle.Render(render.Fit(keymap.HelpLine(keymap.ByContext("global")), m.width))
}

func (m Model) helpText() string {
	parts := []string{
		keymap.HelpLine(keymap.ByContext("playback")),
		keymap.HelpLine(keymap.ByContext("catalog")),
	}
	return strings.Join(parts, " · ")
}
