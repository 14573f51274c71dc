package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/melodia/internal/db"
)

// SessionState is the resumable part of a playback session.
type SessionState struct {
	TrackID  int64 // 0 if nothing was loaded
	Position time.Duration
}

func getSession(db *sql.DB) (*SessionState, error) {
	var trackID sql.NullInt64
	var positionMs int64
	row := db.QueryRow(`SELECT track_id, position_ms FROM session_state WHERE id = 1`)
	err := row.Scan(&trackID, &positionMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved session is valid on first run
	}
	if err != nil {
		return nil, err
	}
	return &SessionState{
		TrackID:  dbutil.NullInt64Value(trackID),
		Position: time.Duration(positionMs) * time.Millisecond,
	}, nil
}

func saveSession(db *sql.DB, state SessionState) error {
	var trackID any
	if state.TrackID > 0 {
		trackID = state.TrackID
	}
	_, err := db.Exec(`
		INSERT INTO session_state (id, track_id, position_ms)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			track_id = excluded.track_id,
			position_ms = excluded.position_ms
	`, trackID, state.Position.Milliseconds())
	return err
}
