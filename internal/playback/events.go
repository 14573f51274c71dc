package playback

import (
	"time"

	"github.com/llehouerou/melodia/internal/catalog"
	"github.com/llehouerou/melodia/internal/errmsg"
)

// StateChange is emitted when the session status changes.
type StateChange struct {
	Previous Status
	Current  Status
}

// TrackChange is emitted when a load succeeds and a track becomes active.
//
// Emitted by LoadAndPlay, skips, retries and auto-advance once the backend
// resource is attached. Loads superseded before completing emit nothing,
// so rapid skipping produces one event for the track that wins.
//
// Previous is nil on the first load of a session.
type TrackChange struct {
	Previous      *catalog.Track
	Current       *catalog.Track
	PreviousIndex int
	Index         int
}

// PositionChange is emitted on poll samples and seeks.
type PositionChange struct {
	Position time.Duration
	Duration time.Duration
}

// CatalogChange is emitted after Refresh installs a new ordering.
type CatalogChange struct {
	Tracks []catalog.Track
	Index  int
}

// ErrorEvent is emitted when an operation fails.
type ErrorEvent struct {
	Op      errmsg.Op
	Locator string // track locator if applicable
	Err     error
}
