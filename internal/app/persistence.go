// internal/app/persistence.go
package app

import (
	"fmt"

	"github.com/llehouerou/melodia/internal/playback"
	"github.com/llehouerou/melodia/internal/state"
)

func sessionState(s playback.Session) state.SessionState {
	return state.SessionState{
		TrackID:  s.TrackID,
		Position: s.Position,
	}
}

// RestoreSession preselects the track saved by the previous run, so the
// first play resumes it where it stopped. A saved track that is no longer
// in the catalog is ignored.
func RestoreSession(ctrl *playback.Controller, stateMgr state.Interface) error {
	saved, err := stateMgr.GetSession()
	if err != nil {
		return fmt.Errorf("read saved session: %w", err)
	}
	if saved == nil || saved.TrackID == 0 {
		return nil
	}
	for i, t := range ctrl.Tracks() {
		if t.ID == saved.TrackID {
			return ctrl.Restore(i, saved.Position)
		}
	}
	return nil
}
