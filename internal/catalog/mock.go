package catalog

import (
	"context"
	"fmt"
	"hash/fnv"
	"slices"
	"sync"
	"time"
)

// Mock is an in-memory catalog for tests.
type Mock struct {
	mu      sync.Mutex
	tracks  []Track
	nextID  int64
	listErr error
}

// NewMock creates a mock catalog holding tracks. Tracks without an ID are
// assigned sequential ids starting at 1.
func NewMock(tracks ...Track) *Mock {
	m := &Mock{}
	for _, t := range tracks {
		m.nextID++
		if t.ID == 0 {
			t.ID = m.nextID
		}
		m.tracks = append(m.tracks, t)
	}
	return m
}

func (m *Mock) List(_ context.Context) ([]Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return slices.Clone(m.tracks), nil
}

func (m *Mock) Add(_ context.Context, name, locator string) (Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t := Track{ID: m.nextID, Name: name, Locator: locator, AddedAt: time.Now()}
	m.tracks = append(m.tracks, t)
	return t, nil
}

func (m *Mock) Remove(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.tracks, func(t Track) bool { return t.ID == id })
	if i < 0 {
		return fmt.Errorf("remove track %d: %w", id, ErrNotFound)
	}
	m.tracks = slices.Delete(m.tracks, i, i+1)
	return nil
}

// Fingerprint changes whenever the held list does.
func (m *Mock) Fingerprint(_ context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := fnv.New64a()
	for i, t := range m.tracks {
		fmt.Fprintf(h, "%d:%d:%d:%s\n", t.ID, i, t.Duration.Milliseconds(), t.Name)
	}
	return h.Sum64(), nil
}

// Test helpers

func (m *Mock) SetListError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

func (m *Mock) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracks = nil
}
