// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"errors"
	"fmt"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpCatalogLoad   Op = "load track list"
	OpCatalogAdd    Op = "add track"
	OpCatalogRemove Op = "remove track"
	OpCatalogProbe  Op = "read track duration"
	OpTagsRead      Op = "read file tags"

	// Playback operations
	OpPlaybackLoad    Op = "load track"
	OpPlaybackStart   Op = "start playback"
	OpPlaybackPause   Op = "pause playback"
	OpPlaybackSeek    Op = "seek"
	OpPlaybackRelease Op = "release audio"
	OpPlaybackStatus  Op = "read playback status"

	// Session operations
	OpSessionRestore Op = "restore last session"
	OpVolumeSave     Op = "save volume"

	// Last.fm
	OpLastfmLogin    Op = "link Last.fm account"
	OpLastfmScrobble Op = "scrobble"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize application"
)

// subjectError is an error that names what the failed operation acted
// on and wraps the underlying cause.
type subjectError interface {
	error
	Subject() string
	Unwrap() error
}

// Format creates a user-facing message. Errors carrying a subject are
// reduced to "Failed to <op> '<subject>': <cause>" so the operation is not
// repeated.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	var se subjectError
	if errors.As(err, &se) && se.Unwrap() != nil {
		return FormatWith(op, se.Subject(), se.Unwrap())
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith is Format with an explicit subject, typically a file name.
func FormatWith(op Op, subject string, err error) string {
	if err == nil {
		return ""
	}
	if subject == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, subject, err)
}
