package player

import (
	"math"

	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// SetVolume sets the output level (0.0 to 1.0) for current and future
// resources. While muted the level is stored but not applied.
func (s *Speaker) SetVolume(level float64) {
	level = min(max(level, 0), 1)

	s.mu.Lock()
	s.volumeLevel = level
	muted := s.muted
	volumes := s.volumesLocked()
	s.mu.Unlock()

	if muted {
		return
	}
	speaker.Lock()
	for _, v := range volumes {
		v.Volume = levelToVolume(level)
	}
	speaker.Unlock()
}

// Volume returns the output level (0.0 to 1.0).
func (s *Speaker) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volumeLevel
}

// SetMuted silences or restores output.
func (s *Speaker) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	volumes := s.volumesLocked()
	s.mu.Unlock()

	speaker.Lock()
	for _, v := range volumes {
		v.Silent = muted
	}
	speaker.Unlock()
}

// Muted reports whether output is silenced.
func (s *Speaker) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

func (s *Speaker) volumesLocked() []*effects.Volume {
	out := make([]*effects.Volume, 0, len(s.resources))
	for _, r := range s.resources {
		out = append(out, r.volume)
	}
	return out
}

// levelToVolume maps a linear 0..1 level onto beep's base-2 volume scale:
// 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10 (inaudible).
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
