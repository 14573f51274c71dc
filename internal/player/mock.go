// internal/player/mock.go
package player

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

type mockResource struct {
	locator    string
	playing    bool
	position   time.Duration
	duration   time.Duration
	finished   bool
	onFinished func()
}

// Mock is a test double for Backend. It is safe for concurrent use and
// records every call so tests can assert ordering and resource lifetimes.
type Mock struct {
	mu        sync.Mutex
	next      Handle
	live      map[Handle]*mockResource
	maxLive   int
	calls     []string
	durations map[string]time.Duration
	loadErrs  map[string]error
	gates     map[string]chan struct{}

	playErr    error
	pauseErr   error
	seekErr    error
	releaseErr error
	statusErr  error

	loadStarted chan string
}

// NewMock creates a new mock backend for testing.
func NewMock() *Mock {
	return &Mock{
		live:        make(map[Handle]*mockResource),
		durations:   make(map[string]time.Duration),
		loadErrs:    make(map[string]error),
		gates:       make(map[string]chan struct{}),
		loadStarted: make(chan string, 64),
	}
}

func (m *Mock) Load(ctx context.Context, locator string) (Handle, error) {
	m.mu.Lock()
	m.calls = append(m.calls, "load "+locator)
	gate := m.gates[locator]
	m.mu.Unlock()

	select {
	case m.loadStarted <- locator:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadErrs[locator]; err != nil {
		return 0, err
	}
	m.next++
	h := m.next
	m.live[h] = &mockResource{
		locator:  locator,
		duration: m.durations[locator],
	}
	m.maxLive = max(m.maxLive, len(m.live))
	return h, nil
}

func (m *Mock) Play(_ context.Context, h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fmt.Sprintf("play %d", h))
	r, ok := m.live[h]
	if !ok {
		return ErrUnknownHandle
	}
	if m.playErr != nil {
		return m.playErr
	}
	r.playing = true
	return nil
}

func (m *Mock) Pause(_ context.Context, h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fmt.Sprintf("pause %d", h))
	r, ok := m.live[h]
	if !ok {
		return ErrUnknownHandle
	}
	if m.pauseErr != nil {
		return m.pauseErr
	}
	r.playing = false
	return nil
}

func (m *Mock) SetPosition(_ context.Context, h Handle, pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fmt.Sprintf("seek %d %v", h, pos))
	r, ok := m.live[h]
	if !ok {
		return ErrUnknownHandle
	}
	if m.seekErr != nil {
		return m.seekErr
	}
	r.position = pos
	return nil
}

func (m *Mock) Release(_ context.Context, h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fmt.Sprintf("release %d", h))
	if _, ok := m.live[h]; !ok {
		return ErrUnknownHandle
	}
	// The resource is gone even when the release reports a failure.
	delete(m.live, h)
	return m.releaseErr
}

func (m *Mock) Status(_ context.Context, h Handle) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statusErr != nil {
		return Status{}, m.statusErr
	}
	r, ok := m.live[h]
	if !ok {
		return Status{}, ErrUnknownHandle
	}
	return Status{
		Position:  r.position,
		Duration:  r.duration,
		Loaded:    true,
		DidFinish: r.finished,
	}, nil
}

func (m *Mock) OnFinished(h Handle, fn func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.live[h]
	if !ok {
		return ErrUnknownHandle
	}
	r.onFinished = fn
	return nil
}

// Test helpers

// SetDuration sets the duration reported for resources loaded from locator.
func (m *Mock) SetDuration(locator string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations[locator] = d
}

// SetLoadError makes loads of locator fail with err (nil clears it).
func (m *Mock) SetLoadError(locator string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.loadErrs, locator)
		return
	}
	m.loadErrs[locator] = err
}

// Hold makes loads of locator block until the returned function is called.
func (m *Mock) Hold(locator string) (release func()) {
	gate := make(chan struct{})
	m.mu.Lock()
	m.gates[locator] = gate
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			if m.gates[locator] == gate {
				delete(m.gates, locator)
			}
			m.mu.Unlock()
			close(gate)
		})
	}
}

// LoadStarted receives the locator of every Load as it begins.
func (m *Mock) LoadStarted() <-chan string { return m.loadStarted }

func (m *Mock) SetPlayError(err error) { m.setErr(&m.playErr, err) }

func (m *Mock) SetPauseError(err error) { m.setErr(&m.pauseErr, err) }

func (m *Mock) SetSeekError(err error) { m.setErr(&m.seekErr, err) }

func (m *Mock) SetReleaseError(err error) { m.setErr(&m.releaseErr, err) }

func (m *Mock) SetStatusError(err error) { m.setErr(&m.statusErr, err) }

func (m *Mock) setErr(dst *error, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*dst = err
}

// Advance sets the live position of h.
func (m *Mock) Advance(h Handle, pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.live[h]; ok {
		r.position = pos
	}
}

// MarkFinished flags h as finished without firing the push callback, so the
// end is only observable through Status.
func (m *Mock) MarkFinished(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.live[h]; ok {
		r.finished = true
		r.playing = false
	}
}

// Finish simulates h reaching its natural end and fires the registered
// callback synchronously on the caller's goroutine.
func (m *Mock) Finish(h Handle) {
	m.mu.Lock()
	r, ok := m.live[h]
	var fn func()
	if ok {
		r.finished = true
		r.playing = false
		fn = r.onFinished
	}
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Live returns the handles currently loaded, in ascending order.
func (m *Mock) Live() []Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Handle, 0, len(m.live))
	for h := range m.live {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

// MaxLive returns the largest number of simultaneously loaded resources.
func (m *Mock) MaxLive() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxLive
}

// IsPlaying reports whether h is loaded and playing.
func (m *Mock) IsPlaying(h Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.live[h]
	return ok && r.playing
}

// Locator returns the locator h was loaded from, or "" if h is not live.
func (m *Mock) Locator(h Handle) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.live[h]; ok {
		return r.locator
	}
	return ""
}

// Calls returns the recorded call log.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}
