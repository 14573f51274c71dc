package playback

// Status is the transport state of a playback session.
//
//	       load           ok            toggle
//	Idle ───────▶ Loading ─────▶ Playing ◀──────▶ Paused
//	 ▲              │  ▲            │                │
//	 │         fail │  │ retry      └──── skip ──────┤
//	 │              ▼  │             auto-advance    │
//	 │            Error             (back to Loading)│
//	 │              │                                │
//	 └──── stop ────┴──────────── stop ──────────────┘
//
// Valid transitions:
//   - Idle    → Loading (LoadAndPlay, TogglePlayPause, skip)
//   - Loading → Playing (load succeeded)
//   - Loading → Paused  (load succeeded, backend refused to start)
//   - Loading → Error   (load failed)
//   - Error   → Loading (any transport action retries)
//   - Playing ↔ Paused  (TogglePlayPause, Play, Pause)
//   - Playing/Paused → Loading (skip, auto-advance)
//   - any     → Idle    (Stop, Close, catalog emptied)
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusPlaying
	StatusPaused
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusLoading:
		return "Loading"
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a resource is loaded (playing or paused).
func (s Status) IsActive() bool {
	return s == StatusPlaying || s == StatusPaused
}
