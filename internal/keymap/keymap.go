// Package keymap maps keys to actions and describes them for the help
// line.
package keymap

import "strings"

// Binding binds keys to an action.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback" or "catalog"
}

// All contains every binding, in help order.
var All = []Binding{
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},

	{ActionPlaySelected, []string{"enter"}, "Play selected", "playback"},
	{ActionPlayPause, []string{" ", "space"}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionNextTrack, []string{"n", "pgdown"}, "Next track", "playback"},
	{ActionPrevTrack, []string{"p", "pgup"}, "Previous track", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek forward", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Seek back", "playback"},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "playback"},
	{ActionToggleMute, []string{"m"}, "Mute", "playback"},

	{ActionAddTrack, []string{"a"}, "Add file", "catalog"},
	{ActionRemoveTrack, []string{"d", "delete"}, "Remove selected", "catalog"},
	{ActionRefresh, []string{"r"}, "Reload catalog", "catalog"},
	{ActionJumpPlaying, []string{"."}, "Jump to playing", "catalog"},
}

// ByContext returns the bindings of one context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, b := range All {
		if b.Context == context {
			result = append(result, b)
		}
	}
	return result
}

// HelpLine renders bindings as "key desc · key desc", using the first key
// of each binding.
func HelpLine(bindings []Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if len(b.Keys) == 0 {
			continue
		}
		parts = append(parts, displayKey(b.Keys[0])+" "+strings.ToLower(b.Description))
	}
	return strings.Join(parts, " · ")
}

func displayKey(key string) string {
	if key == " " {
		return "space"
	}
	return key
}
