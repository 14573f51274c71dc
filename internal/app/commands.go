// internal/app/commands.go
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/melodia/internal/errmsg"
	"github.com/llehouerou/melodia/internal/playback"
	"github.com/llehouerou/melodia/internal/player"
	"github.com/llehouerou/melodia/internal/tags"
)

// errorDisplayTime is how long an error stays in the status line.
const errorDisplayTime = 5 * time.Second

// WatchServiceEvents waits for the next controller event and converts it
// to a message. It must be re-issued after each message it produces.
func (m Model) WatchServiceEvents() tea.Cmd {
	sub := m.sub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return StateChangedMsg(e)
		case e := <-sub.TrackChanged:
			return TrackChangedMsg(e)
		case e := <-sub.PositionChanged:
			return PositionChangedMsg(e)
		case e := <-sub.CatalogChanged:
			return OrderingChangedMsg(e)
		case e := <-sub.Error:
			return PlaybackErrorMsg(e)
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// controlCmd runs a controller call off the update loop. Loads can block
// on the backend for as long as decoding the file header takes.
//
// The controller publishes its own failures on the subscription; only
// argument errors are reported from here.
func controlCmd(op errmsg.Op, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		err := fn(context.Background())
		if err == nil || errors.Is(err, playback.ErrClosed) {
			return nil
		}
		return ActionErrorMsg{
			Op:        op,
			Err:       err,
			Published: !errors.Is(err, playback.ErrIndexOutOfRange),
		}
	}
}

// refreshCmd makes the controller re-read the catalog.
func (m Model) refreshCmd() tea.Cmd {
	ctrl := m.ctrl
	return controlCmd(errmsg.OpCatalogLoad, ctrl.Refresh)
}

// fingerprintCmd reads the catalog fingerprint.
func (m Model) fingerprintCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		v, err := store.Fingerprint(context.Background())
		return FingerprintMsg{Value: v, Err: err}
	}
}

// addTrackCmd stores the file at path under its tag-derived name.
func (m Model) addTrackCmd(path string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		path = expandHome(strings.TrimSpace(path))
		info, err := os.Stat(path)
		if err != nil {
			return ActionErrorMsg{Op: errmsg.OpCatalogAdd, Err: err}
		}
		if info.IsDir() || !player.IsMusicFile(path) {
			return ActionErrorMsg{Op: errmsg.OpCatalogAdd, Err: fmt.Errorf("%s: %w", filepath.Base(path), player.ErrUnsupportedFormat)}
		}
		locator, err := player.FileLocator(path)
		if err != nil {
			return ActionErrorMsg{Op: errmsg.OpCatalogAdd, Err: err}
		}
		track, err := store.Add(context.Background(), tags.DisplayName(path), locator)
		if err != nil {
			return ActionErrorMsg{Op: errmsg.OpCatalogAdd, Err: err}
		}
		return TrackAddedMsg{Track: track}
	}
}

// removeTrackCmd deletes a track from the catalog.
func (m Model) removeTrackCmd(id int64) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		if err := store.Remove(context.Background(), id); err != nil {
			return ActionErrorMsg{Op: errmsg.OpCatalogRemove, Err: err}
		}
		return TrackRemovedMsg{ID: id}
	}
}

// clearErrorCmd schedules hiding the error with the given version.
func clearErrorCmd(version int) tea.Cmd {
	return tea.Tick(errorDisplayTime, func(_ time.Time) tea.Msg {
		return ClearErrorMsg{Version: version}
	})
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
