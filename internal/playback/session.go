package playback

import (
	"time"

	"github.com/llehouerou/melodia/internal/player"
)

// Session is the single record describing what the engine has loaded.
// Only the Controller mutates it; callers get copies from
// Controller.Session.
type Session struct {
	// ActiveIndex is the ordering index of the loaded track. It is only
	// meaningful while Status is not Idle.
	ActiveIndex int
	// PendingIndex is the index of the load in flight, or of the last
	// failed one while Status is Error. -1 when there is none.
	PendingIndex int
	// TrackID is the catalog id of the most recent load attempt.
	TrackID  int64
	Status   Status
	Position time.Duration
	Duration time.Duration // 0 while unknown
	// Generation increments on every load attempt and on every unload, so
	// results of superseded operations can be recognized and dropped.
	Generation uint64
	// LastError is the failure that put the session in Error.
	LastError error

	resource player.Handle
}

// HasResource reports whether a backend resource is attached.
func (s Session) HasResource() bool {
	return s.resource.Valid()
}

// cursor is the index skips and retries start from: the pending load if
// there is one, the loaded track otherwise.
func (s Session) cursor() int {
	if s.PendingIndex >= 0 {
		return s.PendingIndex
	}
	return s.ActiveIndex
}

func newSession() Session {
	return Session{PendingIndex: -1, Status: StatusIdle}
}
