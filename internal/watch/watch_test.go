package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "melodia.db")
	require.NoError(t, os.WriteFile(db, nil, 0o600))

	var calls atomic.Int32
	w, err := New(db, 50*time.Millisecond, func() { calls.Add(1) }, zerolog.Nop())
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	for i := range 5 {
		require.NoError(t, os.WriteFile(db+"-wal", []byte{byte(i)}, 0o600))
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "melodia.db")

	var calls atomic.Int32
	w, err := New(db, 20*time.Millisecond, func() { calls.Add(1) }, zerolog.Nop())
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestWatcher_StopDropsPending(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "melodia.db")

	var calls atomic.Int32
	w, err := New(db, time.Hour, func() { calls.Add(1) }, zerolog.Nop())
	require.NoError(t, err)
	w.Start()

	w.schedule()
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	assert.Zero(t, calls.Load())
}

func TestWatcher_Matches(t *testing.T) {
	w := &Watcher{base: "melodia.db"}

	assert.True(t, w.matches(fsnotify.Event{Name: "/d/melodia.db", Op: fsnotify.Write}))
	assert.True(t, w.matches(fsnotify.Event{Name: "/d/melodia.db-wal", Op: fsnotify.Create}))
	assert.False(t, w.matches(fsnotify.Event{Name: "/d/melodia.db", Op: fsnotify.Chmod}))
	assert.False(t, w.matches(fsnotify.Event{Name: "/d/other.db", Op: fsnotify.Write}))
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "melodia.db"), 0, func() {}, zerolog.Nop())
	assert.Error(t, err)
}
