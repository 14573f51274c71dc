// internal/state/mock.go
package state

import (
	"database/sql"
	"sync"
)

// Mock is a test double for Manager.
type Mock struct {
	mu      sync.Mutex
	session *SessionState
	volume  *VolumeState
	saves   int
	closed  bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) SaveSession(state SessionState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &state
	m.saves++
}

func (m *Mock) GetSession() (*SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil //nolint:nilnil // mirrors Manager on first run
	}
	s := *m.session
	return &s, nil
}

func (m *Mock) GetVolume() (*VolumeState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.volume == nil {
		return nil, nil //nolint:nilnil // mirrors Manager on first run
	}
	v := *m.volume
	return &v, nil
}

func (m *Mock) SaveVolume(volume float64, muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = &VolumeState{Volume: volume, Muted: muted}
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
