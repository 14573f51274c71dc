// Package state owns the application database: it opens SQLite, applies the
// schema, and persists the resumable playback session.
package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "melodia"
	dbFileName   = "melodia.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *SessionState
}

// Open opens the database at path, or at the default data location when
// path is empty.
func Open(path string) (*Manager, error) {
	if path == "" {
		var err error
		path, err = DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return newManager(db)
}

// OpenMemory opens a private in-memory database.
func OpenMemory() (*Manager, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Each pooled connection would get its own empty database.
	db.SetMaxOpenConns(1)
	return newManager(db)
}

func newManager(db *sql.DB) (*Manager, error) {
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Manager{db: db}, nil
}

// DefaultDBPath returns the database location under the XDG data dir.
func DefaultDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// Close flushes a pending session save and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending != nil {
		_ = saveSession(m.db, *pending)
	}

	return m.db.Close()
}

func (m *Manager) GetSession() (*SessionState, error) {
	return getSession(m.db)
}

// SaveSession schedules a debounced write; bursts of position updates
// collapse into one write.
func (m *Manager) SaveSession(state SessionState) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &state

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			_ = saveSession(m.db, *pending)
		}
	})
}
