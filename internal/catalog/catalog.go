// Package catalog stores the ordered list of track references the user has
// picked. It never touches audio: a track is a display name plus a locator.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	dbutil "github.com/llehouerou/melodia/internal/db"
)

// ErrNotFound is returned when a track id does not exist.
var ErrNotFound = errors.New("track not found")

// Track is a named reference to a playable audio source.
type Track struct {
	ID       int64
	Name     string
	Locator  string
	Duration time.Duration // 0 if not probed yet
	AddedAt  time.Time
}

// Catalog provides database operations on the track list.
type Catalog struct {
	db *sql.DB
}

// New creates a catalog over an initialized database.
func New(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// List returns every track in catalog order.
func (c *Catalog) List(ctx context.Context) ([]Track, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, locator, duration_ms, added_at
		FROM tracks
		ORDER BY position, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		var t Track
		var durationMs sql.NullInt64
		var addedAt int64
		if err := rows.Scan(&t.ID, &t.Name, &t.Locator, &durationMs, &addedAt); err != nil {
			return nil, err
		}
		t.Duration = time.Duration(dbutil.NullInt64Value(durationMs)) * time.Millisecond
		t.AddedAt = time.Unix(addedAt, 0)
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// Add appends a track at the end of the list.
func (c *Catalog) Add(ctx context.Context, name, locator string) (Track, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Track{}, errors.New("track name is empty")
	}
	if locator == "" {
		return Track{}, errors.New("track locator is empty")
	}

	t := Track{Name: name, Locator: locator, AddedAt: time.Unix(time.Now().Unix(), 0)}
	err := dbutil.WithTx(ctx, c.db, func(tx *sql.Tx) error {
		var maxPos sql.NullInt64
		if err := tx.QueryRowContext(ctx, `SELECT MAX(position) FROM tracks`).Scan(&maxPos); err != nil {
			return err
		}
		nextPos := int64(0)
		if maxPos.Valid {
			nextPos = maxPos.Int64 + 1
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO tracks (position, name, locator, added_at)
			VALUES (?, ?, ?, ?)
		`, nextPos, t.Name, t.Locator, t.AddedAt.Unix())
		if err != nil {
			return err
		}
		t.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return Track{}, fmt.Errorf("add track: %w", err)
	}
	return t, nil
}

// Remove deletes a track and closes the gap in positions.
func (c *Catalog) Remove(ctx context.Context, id int64) error {
	return dbutil.WithTx(ctx, c.db, func(tx *sql.Tx) error {
		var pos int64
		err := tx.QueryRowContext(ctx, `SELECT position FROM tracks WHERE id = ?`, id).Scan(&pos)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("remove track %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE tracks SET position = position - 1 WHERE position > ?
		`, pos)
		return err
	})
}

// SetDuration caches the probed duration of a track.
func (c *Catalog) SetDuration(ctx context.Context, id int64, d time.Duration) error {
	res, err := c.db.ExecContext(ctx, `
		UPDATE tracks SET duration_ms = ? WHERE id = ?
	`, d.Milliseconds(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("set duration of track %d: %w", id, ErrNotFound)
	}
	return nil
}

// Fingerprint summarizes the stored list. It changes whenever a track is
// added, removed, renamed, reordered or probed.
func (c *Catalog) Fingerprint(ctx context.Context) (uint64, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, position, COALESCE(duration_ms, 0), name
		FROM tracks
		ORDER BY position, id
	`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	h := fnv.New64a()
	for rows.Next() {
		var id, position, durationMs int64
		var name string
		if err := rows.Scan(&id, &position, &durationMs, &name); err != nil {
			return 0, err
		}
		fmt.Fprintf(h, "%d:%d:%d:%s\n", id, position, durationMs, name)
	}
	return h.Sum64(), rows.Err()
}
