// internal/app/update.go
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/melodia/internal/errmsg"
	"github.com/llehouerou/melodia/internal/keymap"
	"github.com/llehouerou/melodia/internal/playback"
	"github.com/llehouerou/melodia/internal/ui/playerbar"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case tea.KeyMsg:
		if m.adding {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)

	case PlaybackMessage:
		return m.handlePlaybackMsg(msg)

	case CatalogMessage:
		return m.handleCatalogMsg(msg)

	case ActionErrorMsg:
		return m.handleActionError(msg)

	case ClearErrorMsg:
		if msg.Version == m.errVersion {
			m.errMsg = ""
		}
		return m, nil
	}

	if m.adding {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.list.SetSize(msg.Width, msg.Height-playerbar.Height-statusLineHeight)
	m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 1)
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		path := m.input.Value()
		m.stopInput()
		if path == "" {
			return m, nil
		}
		return m, m.addTrackCmd(path)
	case tea.KeyEsc:
		m.stopInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stopInput() {
	m.adding = false
	m.input.Blur()
	m.input.Reset()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	ctrl := m.ctrl

	switch m.keys.Resolve(key) {
	case keymap.ActionQuit:
		return m, tea.Quit

	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
		return m, nil

	case keymap.ActionPlaySelected:
		idx := m.list.Cursor()
		if idx < 0 {
			return m, nil
		}
		return m, controlCmd(errmsg.OpPlaybackLoad, func(ctx context.Context) error {
			return ctrl.LoadAndPlay(ctx, idx)
		})

	case keymap.ActionPlayPause:
		return m, controlCmd(errmsg.OpPlaybackStart, ctrl.TogglePlayPause)

	case keymap.ActionStop:
		return m, controlCmd(errmsg.OpPlaybackRelease, ctrl.Stop)

	case keymap.ActionNextTrack:
		return m, controlCmd(errmsg.OpPlaybackLoad, ctrl.SkipNext)

	case keymap.ActionPrevTrack:
		return m, controlCmd(errmsg.OpPlaybackLoad, ctrl.SkipPrevious)

	case keymap.ActionSeekForward:
		return m, m.handleSeek(m.seekStep)

	case keymap.ActionSeekBack:
		return m, m.handleSeek(-m.seekStep)

	case keymap.ActionVolumeUp:
		return m.setVolume(m.mixer.Volume()+volumeStep, m.mixer.Muted())

	case keymap.ActionVolumeDown:
		return m.setVolume(m.mixer.Volume()-volumeStep, m.mixer.Muted())

	case keymap.ActionToggleMute:
		return m.setVolume(m.mixer.Volume(), !m.mixer.Muted())

	case keymap.ActionAddTrack:
		m.adding = true
		m.input.Reset()
		return m, tea.Batch(m.input.Focus(), textinput.Blink)

	case keymap.ActionRemoveTrack:
		if t := m.list.Selected(); t != nil {
			return m, m.removeTrackCmd(t.ID)
		}
		return m, nil

	case keymap.ActionRefresh:
		return m, tea.Batch(m.refreshCmd(), m.fingerprintCmd())

	case keymap.ActionJumpPlaying:
		if m.session.TrackID != 0 {
			m.list.JumpTo(m.session.ActiveIndex)
		}
		return m, nil
	}

	m.list.HandleKey(key)
	return m, nil
}

// handleSeek seeks relative to the current position, dropping key-repeat
// bursts.
func (m *Model) handleSeek(delta time.Duration) tea.Cmd {
	if time.Since(m.lastSeek) < seekThrottle {
		return nil
	}
	m.lastSeek = time.Now()
	ctrl := m.ctrl
	return controlCmd(errmsg.OpPlaybackSeek, func(ctx context.Context) error {
		return ctrl.SeekBy(ctx, delta)
	})
}

func (m Model) setVolume(level float64, muted bool) (tea.Model, tea.Cmd) {
	level = min(max(level, 0), 1)
	m.mixer.SetVolume(level)
	m.mixer.SetMuted(muted)
	if err := m.stateMgr.SaveVolume(level, muted); err != nil {
		m.log.Warn().Err(err).Msg("save volume")
		return m, m.showError(errmsg.Format(errmsg.OpVolumeSave, err))
	}
	return m, nil
}

func (m Model) handlePlaybackMsg(msg PlaybackMessage) (tea.Model, tea.Cmd) {
	if _, ok := msg.(ServiceClosedMsg); ok {
		m.sub = nil
		return m, nil
	}

	m.session = m.ctrl.Session()
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case TrackChangedMsg:
		if msg.PreviousIndex == m.list.Cursor() || msg.Previous == nil {
			m.list.JumpTo(msg.Index)
		}
		m.saveSession()
	case PositionChangedMsg:
		m.saveSession()
	case StateChangedMsg:
		if msg.Current == playback.StatusIdle {
			m.saveSession()
		}
	case OrderingChangedMsg:
		m.list.SetTracks(msg.Tracks)
	case PlaybackErrorMsg:
		m.log.Warn().Err(msg.Err).Str("op", string(msg.Op)).Str("locator", msg.Locator).Msg("playback error")
		cmd = m.showError(errmsg.Format(msg.Op, msg.Err))
	}

	return m, tea.Batch(cmd, m.WatchServiceEvents())
}

// saveSession schedules a write of the resumable session. The state
// manager debounces, so calling it on every position sample is fine.
func (m Model) saveSession() {
	m.stateMgr.SaveSession(sessionState(m.session))
}

func (m Model) handleCatalogMsg(msg CatalogMessage) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CatalogDirtyMsg:
		return m, m.fingerprintCmd()

	case FingerprintMsg:
		if msg.Err != nil {
			m.log.Warn().Err(msg.Err).Msg("read catalog fingerprint")
			return m, nil
		}
		known := m.fingerprintKnown
		changed := msg.Value != m.fingerprint
		m.fingerprint = msg.Value
		m.fingerprintKnown = true
		if known && changed {
			m.log.Debug().Msg("catalog changed on disk, refreshing")
			return m, m.refreshCmd()
		}
		return m, nil

	case TrackAddedMsg:
		m.log.Info().Int64("id", msg.Track.ID).Str("name", msg.Track.Name).Msg("track added")
		return m, tea.Batch(m.refreshCmd(), m.fingerprintCmd())

	case TrackRemovedMsg:
		m.log.Info().Int64("id", msg.ID).Msg("track removed")
		return m, tea.Batch(m.refreshCmd(), m.fingerprintCmd())
	}
	return m, nil
}

func (m Model) handleActionError(msg ActionErrorMsg) (tea.Model, tea.Cmd) {
	if msg.Published {
		return m, nil
	}
	m.log.Warn().Err(msg.Err).Str("op", string(msg.Op)).Msg("action failed")
	return m, m.showError(errmsg.Format(msg.Op, msg.Err))
}

// showError puts text in the status line until a timeout or a newer error.
func (m *Model) showError(text string) tea.Cmd {
	m.errVersion++
	m.errMsg = text
	return clearErrorCmd(m.errVersion)
}
