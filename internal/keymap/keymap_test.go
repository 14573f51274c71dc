package keymap

import (
	"strings"
	"testing"
)

func TestByContext(t *testing.T) {
	for _, ctx := range []string{"global", "playback", "catalog"} {
		got := ByContext(ctx)
		if len(got) == 0 {
			t.Errorf("ByContext(%q) is empty", ctx)
		}
		for _, b := range got {
			if b.Context != ctx {
				t.Errorf("binding %s has context %q, want %q", b.Action, b.Context, ctx)
			}
		}
	}
	if got := ByContext("unknown"); len(got) != 0 {
		t.Errorf("ByContext(unknown) = %v", got)
	}
}

func TestAll_NoDuplicateKeys(t *testing.T) {
	seen := map[string]Action{}
	for _, b := range All {
		for _, k := range b.Keys {
			if prev, ok := seen[k]; ok {
				t.Errorf("key %q bound to %s and %s", k, prev, b.Action)
			}
			seen[k] = b.Action
		}
	}
}

func TestAll_EveryActionBound(t *testing.T) {
	r := NewResolver(All)
	actions := []Action{
		ActionQuit, ActionHelp, ActionPlaySelected, ActionPlayPause, ActionStop,
		ActionNextTrack, ActionPrevTrack, ActionSeekForward, ActionSeekBack,
		ActionVolumeUp, ActionVolumeDown, ActionToggleMute, ActionAddTrack,
		ActionRemoveTrack, ActionRefresh, ActionJumpPlaying,
	}
	for _, a := range actions {
		if len(r.KeysFor(a)) == 0 {
			t.Errorf("action %s has no key", a)
		}
	}
}

func TestHelpLine(t *testing.T) {
	got := HelpLine([]Binding{
		{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
		{ActionStop, []string{"s"}, "Stop", "playback"},
		{ActionHelp, nil, "Ignored", "global"},
	})
	if got != "space play/pause · s stop" {
		t.Errorf("HelpLine = %q", got)
	}
	if !strings.Contains(HelpLine(All), "q quit") {
		t.Error("full help line misses quit")
	}
}
