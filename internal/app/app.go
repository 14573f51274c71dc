// internal/app/app.go
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/melodia/internal/catalog"
	"github.com/llehouerou/melodia/internal/keymap"
	"github.com/llehouerou/melodia/internal/playback"
	"github.com/llehouerou/melodia/internal/state"
	"github.com/llehouerou/melodia/internal/ui/tracklist"
)

const (
	// seekThrottle drops seeks fired faster than this by key repeat.
	seekThrottle = 150 * time.Millisecond
	volumeStep   = 0.05
)

// Store is the catalog as the front-end uses it.
type Store interface {
	List(ctx context.Context) ([]catalog.Track, error)
	Add(ctx context.Context, name, locator string) (catalog.Track, error)
	Remove(ctx context.Context, id int64) error
	Fingerprint(ctx context.Context) (uint64, error)
}

// Mixer is the output level control of the audio backend.
type Mixer interface {
	Volume() float64
	SetVolume(level float64)
	Muted() bool
	SetMuted(muted bool)
}

// Options configures the front-end.
type Options struct {
	SeekStep time.Duration
	Logger   *zerolog.Logger
}

// Model is the root application model.
type Model struct {
	ctrl     *playback.Controller
	store    Store
	stateMgr state.Interface
	mixer    Mixer
	sub      *playback.Subscription
	log      zerolog.Logger

	keys     *keymap.Resolver
	list     tracklist.Model
	input    textinput.Model
	adding   bool
	showHelp bool

	session     playback.Session
	seekStep    time.Duration
	lastSeek    time.Time
	fingerprint uint64
	// false until the first fingerprint read completes
	fingerprintKnown bool

	errMsg     string
	errVersion int

	width  int
	height int
}

// New creates the model. The controller should already hold the catalog
// ordering; the model subscribes to it immediately.
func New(ctrl *playback.Controller, store Store, stateMgr state.Interface, mixer Mixer, opts Options) Model {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	if opts.SeekStep <= 0 {
		opts.SeekStep = 5 * time.Second
	}

	input := textinput.New()
	input.Prompt = "Add file: "
	input.Placeholder = "~/Music/track.mp3"
	input.CharLimit = 4096

	list := tracklist.New()
	list.SetTracks(ctrl.Tracks())

	m := Model{
		ctrl:     ctrl,
		store:    store,
		stateMgr: stateMgr,
		mixer:    mixer,
		sub:      ctrl.Subscribe(),
		log:      log,
		keys:     keymap.NewResolver(keymap.All),
		list:     list,
		input:    input,
		session:  ctrl.Session(),
		seekStep: opts.SeekStep,
	}
	if s := m.session; s.TrackID != 0 {
		m.list.JumpTo(s.ActiveIndex)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.WatchServiceEvents(), m.fingerprintCmd())
}

// Session returns the last session snapshot the model rendered.
func (m Model) Session() playback.Session {
	return m.session
}

// Err returns the error shown in the status line, if any.
func (m Model) Err() string {
	return m.errMsg
}
