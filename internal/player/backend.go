// Package player provides the audio backend used by the playback engine.
//
// A Backend owns decoded audio resources addressed by opaque handles. It
// knows nothing about playlists or sessions; callers load a resource, drive
// it, then release it.
package player

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnknownHandle is returned for handles that were never loaded or
	// have already been released.
	ErrUnknownHandle = errors.New("unknown audio handle")
	// ErrUnsupportedFormat is returned when a locator points to a file the
	// backend cannot decode.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// Handle identifies a loaded audio resource. The zero Handle is never
// returned by a successful Load.
type Handle uint64

// Valid reports whether h refers to a resource (loaded or not).
func (h Handle) Valid() bool {
	return h != 0
}

// Status is a snapshot of a loaded resource.
type Status struct {
	Position  time.Duration
	Duration  time.Duration
	Loaded    bool
	DidFinish bool
	Looping   bool
}

// Backend defines the audio backend contract for dependency injection and
// testing.
type Backend interface {
	// Load decodes the source behind locator into a paused resource.
	Load(ctx context.Context, locator string) (Handle, error)
	Play(ctx context.Context, h Handle) error
	Pause(ctx context.Context, h Handle) error
	SetPosition(ctx context.Context, h Handle, pos time.Duration) error
	Release(ctx context.Context, h Handle) error
	Status(ctx context.Context, h Handle) (Status, error)
	// OnFinished registers fn to be called once when h reaches its natural
	// end. fn is invoked on a goroutine owned by the backend.
	OnFinished(h Handle, fn func()) error
}

// Verify implementations at compile time.
var (
	_ Backend = (*Speaker)(nil)
	_ Backend = (*Mock)(nil)
)
