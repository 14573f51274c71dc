// internal/state/interface.go
package state

import (
	"database/sql"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB
	SaveSession(state SessionState)
	GetSession() (*SessionState, error)
	GetVolume() (*VolumeState, error)
	SaveVolume(volume float64, muted bool) error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
