package playback

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/llehouerou/melodia/internal/errmsg"
)

var (
	// ErrIndexOutOfRange is returned by LoadAndPlay for an index outside
	// the current ordering.
	ErrIndexOutOfRange = errors.New("track index out of range")
	// ErrClosed is returned by operations on a closed controller.
	ErrClosed = errors.New("playback controller closed")
)

// LoadError reports that the backend could not load a track. The session
// is left in Error with no resource.
type LoadError struct {
	Index   int
	Locator string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load track %d (%s): %v", e.Index, e.Locator, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Subject is the file name of the track, for display.
func (e *LoadError) Subject() string {
	if e.Locator == "" {
		return ""
	}
	return filepath.Base(e.Locator)
}

// TransportError reports that the backend rejected a play, pause or seek.
// The session keeps its last known-good state.
type TransportError struct {
	Op  errmsg.Op
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Subject() string { return "" }

// ReleaseError reports a failed unload. It never blocks the next load.
type ReleaseError struct {
	Err error
}

func (e *ReleaseError) Error() string {
	return fmt.Sprintf("release audio: %v", e.Err)
}

func (e *ReleaseError) Unwrap() error { return e.Err }

func (e *ReleaseError) Subject() string { return "" }
