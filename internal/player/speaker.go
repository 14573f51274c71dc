package player

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// speakerBuffer is the speaker's buffer length.
const speakerBuffer = time.Second / 10

// resource is one decoded file attached (or about to be attached) to the
// speaker mixer.
type resource struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	// guarded by Speaker.mu
	started    bool
	finished   bool
	onFinished func()
}

// Speaker is a Backend playing through the system audio device via beep.
//
// Lock order: s.mu is never held while acquiring the speaker lock, because
// the end-of-stream callback runs with the speaker lock held and takes s.mu.
type Speaker struct {
	mu          sync.Mutex
	next        Handle
	resources   map[Handle]*resource
	rate        beep.SampleRate
	initialized bool
	volumeLevel float64
	muted       bool
}

// NewSpeaker creates a speaker backend. The audio device is initialized
// lazily on the first Load, using that file's sample rate.
func NewSpeaker() *Speaker {
	return &Speaker{
		resources:   make(map[Handle]*resource),
		volumeLevel: 1,
	}
}

// Load decodes the file behind locator. The resource starts paused and is
// attached to the mixer on the first Play.
func (s *Speaker) Load(ctx context.Context, locator string) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	path, err := LocatorPath(locator)
	if err != nil {
		return 0, err
	}

	streamer, format, err := openStream(path)
	if err != nil {
		return 0, err
	}

	rate, err := s.ensureSpeaker(format.SampleRate)
	if err != nil {
		streamer.Close()
		return 0, err
	}

	// The load may have been abandoned while decoding.
	if err := ctx.Err(); err != nil {
		streamer.Close()
		return 0, err
	}

	var out beep.Streamer = streamer
	if format.SampleRate != rate {
		out = beep.Resample(4, format.SampleRate, rate, streamer)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	h := s.next
	r := &resource{
		streamer: streamer,
		format:   format,
	}
	r.volume = &effects.Volume{
		Streamer: out,
		Base:     2,
		Volume:   levelToVolume(s.volumeLevel),
		Silent:   s.muted,
	}
	r.ctrl = &beep.Ctrl{
		Streamer: beep.Seq(r.volume, beep.Callback(func() { s.finish(h) })),
		Paused:   true,
	}
	s.resources[h] = r
	return h, nil
}

// Play starts or resumes h.
func (s *Speaker) Play(_ context.Context, h Handle) error {
	s.mu.Lock()
	r, ok := s.resources[h]
	first := ok && !r.started
	if first {
		r.started = true
	}
	s.mu.Unlock()
	if !ok {
		return ErrUnknownHandle
	}

	speaker.Lock()
	r.ctrl.Paused = false
	speaker.Unlock()

	if first {
		speaker.Play(r.ctrl)
	}
	return nil
}

// Pause pauses h. Pausing a paused resource is a no-op.
func (s *Speaker) Pause(_ context.Context, h Handle) error {
	r, err := s.lookup(h)
	if err != nil {
		return err
	}
	speaker.Lock()
	r.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

// SetPosition moves h to pos, clamped to the stream length.
func (s *Speaker) SetPosition(_ context.Context, h Handle, pos time.Duration) error {
	r, err := s.lookup(h)
	if err != nil {
		return err
	}

	speaker.Lock()
	defer speaker.Unlock()

	n := r.format.SampleRate.N(pos)
	n = max(n, 0)
	n = min(n, r.streamer.Len())

	// Mute around the seek to avoid a click from the buffered samples.
	silent := r.volume.Silent
	r.volume.Silent = true
	err = r.streamer.Seek(n)
	r.volume.Silent = silent
	return err
}

// Release detaches h from the mixer and closes its decoder.
func (s *Speaker) Release(_ context.Context, h Handle) error {
	s.mu.Lock()
	r, ok := s.resources[h]
	if ok {
		delete(s.resources, h)
		r.onFinished = nil
	}
	s.mu.Unlock()
	if !ok {
		return ErrUnknownHandle
	}

	speaker.Lock()
	// A Ctrl without a streamer drains out of the mixer.
	r.ctrl.Streamer = nil
	speaker.Unlock()

	return r.streamer.Close()
}

// Status returns the live position and duration of h.
func (s *Speaker) Status(_ context.Context, h Handle) (Status, error) {
	s.mu.Lock()
	r, ok := s.resources[h]
	finished := ok && r.finished
	s.mu.Unlock()
	if !ok {
		return Status{}, ErrUnknownHandle
	}

	speaker.Lock()
	pos := r.streamer.Position()
	length := r.streamer.Len()
	speaker.Unlock()

	return Status{
		Position:  r.format.SampleRate.D(pos),
		Duration:  r.format.SampleRate.D(length),
		Loaded:    true,
		DidFinish: finished,
	}, nil
}

// OnFinished registers the end-of-stream callback for h.
func (s *Speaker) OnFinished(h Handle, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[h]
	if !ok {
		return ErrUnknownHandle
	}
	r.onFinished = fn
	return nil
}

// Close releases every resource and shuts the audio device down.
func (s *Speaker) Close() error {
	s.mu.Lock()
	handles := make([]Handle, 0, len(s.resources))
	for h := range s.resources {
		handles = append(handles, h)
	}
	initialized := s.initialized
	s.mu.Unlock()

	for _, h := range handles {
		_ = s.Release(context.Background(), h)
	}
	if initialized {
		speaker.Close()
	}
	return nil
}

// finish runs on the speaker goroutine with the speaker lock held.
func (s *Speaker) finish(h Handle) {
	s.mu.Lock()
	r, ok := s.resources[h]
	var fn func()
	if ok {
		r.finished = true
		fn = r.onFinished
	}
	s.mu.Unlock()

	if fn != nil {
		go fn()
	}
}

func (s *Speaker) lookup(h Handle) (*resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[h]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return r, nil
}

func (s *Speaker) ensureSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return s.rate, nil
	}
	if err := speaker.Init(rate, rate.N(speakerBuffer)); err != nil {
		return 0, fmt.Errorf("init speaker: %w", err)
	}
	s.rate = rate
	s.initialized = true
	return rate, nil
}

// openStream opens and decodes path. The returned streamer owns the file.
func openStream(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsMusicFile(path) {
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext {
	case extMP3:
		streamer, format, err = decodeMP3(f)
	case extFLAC:
		// Some taggers prepend ID3v2 to FLAC files.
		if err = skipID3v2(f); err == nil {
			streamer, format, err = flac.Decode(f)
		}
	case extWAV:
		streamer, format, err = wav.Decode(f)
	case extOGG:
		streamer, format, err = vorbis.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	return streamer, format, nil
}

// ProbeDuration decodes the header of the file behind locator and returns
// its length without touching the audio device.
func ProbeDuration(locator string) (time.Duration, error) {
	path, err := LocatorPath(locator)
	if err != nil {
		return 0, err
	}
	streamer, format, err := openStream(path)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len()), nil
}

// skipID3v2 positions r after a leading ID3v2 tag, or at the start if
// there is none.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && n < len(header) {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}
	if string(header[:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}
	// Syncsafe integer: 7 bits per byte.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
