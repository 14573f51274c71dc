// internal/app/messages.go
package app

import (
	"github.com/llehouerou/melodia/internal/catalog"
	"github.com/llehouerou/melodia/internal/errmsg"
	"github.com/llehouerou/melodia/internal/playback"
)

// PlaybackMessage marks messages that originate from the playback
// controller's subscription.
type PlaybackMessage interface {
	playbackMessage()
}

// CatalogMessage marks messages about the stored track list.
type CatalogMessage interface {
	catalogMessage()
}

// StateChangedMsg carries a session status change.
type StateChangedMsg playback.StateChange

// TrackChangedMsg carries a newly active track.
type TrackChangedMsg playback.TrackChange

// PositionChangedMsg carries a poll sample or a seek.
type PositionChangedMsg playback.PositionChange

// OrderingChangedMsg is sent after the controller installs a new ordering.
type OrderingChangedMsg playback.CatalogChange

// PlaybackErrorMsg carries an error published by the controller.
type PlaybackErrorMsg playback.ErrorEvent

// ServiceClosedMsg is sent once the controller closed the subscription.
type ServiceClosedMsg struct{}

func (StateChangedMsg) playbackMessage()    {}
func (TrackChangedMsg) playbackMessage()    {}
func (PositionChangedMsg) playbackMessage() {}
func (OrderingChangedMsg) playbackMessage() {}
func (PlaybackErrorMsg) playbackMessage()   {}
func (ServiceClosedMsg) playbackMessage()   {}

// CatalogDirtyMsg reports that the database may have been changed by
// another process.
type CatalogDirtyMsg struct{}

// FingerprintMsg carries the catalog fingerprint read after a change.
type FingerprintMsg struct {
	Value uint64
	Err   error
}

// TrackAddedMsg is sent after a file was added from the prompt.
type TrackAddedMsg struct {
	Track catalog.Track
}

// TrackRemovedMsg is sent after the selected track was removed.
type TrackRemovedMsg struct {
	ID int64
}

func (CatalogDirtyMsg) catalogMessage() {}
func (FingerprintMsg) catalogMessage()  {}
func (TrackAddedMsg) catalogMessage()   {}
func (TrackRemovedMsg) catalogMessage() {}

// ActionErrorMsg reports a failed user action.
type ActionErrorMsg struct {
	Op        errmsg.Op
	Err       error
	Published bool // already sent as a PlaybackErrorMsg
}

// ClearErrorMsg hides the status line error if no newer one replaced it.
type ClearErrorMsg struct {
	Version int
}
