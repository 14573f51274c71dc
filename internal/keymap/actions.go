package keymap

// Action is something a key can trigger.
type Action string

const (
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Playback
	ActionPlaySelected Action = "play_selected"
	ActionPlayPause    Action = "play_pause"
	ActionStop         Action = "stop"
	ActionNextTrack    Action = "next_track"
	ActionPrevTrack    Action = "prev_track"
	ActionSeekForward  Action = "seek_forward"
	ActionSeekBack     Action = "seek_back"
	ActionVolumeUp     Action = "volume_up"
	ActionVolumeDown   Action = "volume_down"
	ActionToggleMute   Action = "toggle_mute"

	// Catalog
	ActionAddTrack    Action = "add_track"
	ActionRemoveTrack Action = "remove_track"
	ActionRefresh     Action = "refresh"
	ActionJumpPlaying Action = "jump_playing"
)
