package playerbar

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/melodia/internal/playback"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{65*time.Second + 900*time.Millisecond, "1:05"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderProgressBar(t *testing.T) {
	bar := ansi.Strip(RenderProgressBar(30*time.Second, time.Minute, 30))
	if w := lipgloss.Width(bar); w != 30 {
		t.Errorf("width = %d, want 30", w)
	}
	if !strings.HasPrefix(bar, "0:30  ") || !strings.HasSuffix(bar, "  1:00") {
		t.Errorf("bar = %q", bar)
	}
	if got := strings.Count(bar, filledBlock); got != 9 {
		t.Errorf("filled = %d, want 9", got)
	}
}

func TestRenderProgressBar_UnknownDuration(t *testing.T) {
	bar := ansi.Strip(RenderProgressBar(10*time.Second, 0, 30))
	if !strings.HasSuffix(bar, "--:--") {
		t.Errorf("bar = %q", bar)
	}
	if strings.Contains(bar, filledBlock) {
		t.Error("unknown duration should not fill the bar")
	}
}

func TestRenderProgressBar_Narrow(t *testing.T) {
	if got := RenderProgressBar(0, time.Minute, 8); got != "0:00 / 1:00" {
		t.Errorf("got %q", got)
	}
}

func TestRender(t *testing.T) {
	s := State{
		Status:   playback.StatusPlaying,
		Title:    "Miles Davis - So What",
		Index:    2,
		Total:    10,
		Position: time.Minute,
		Duration: 9 * time.Minute,
		Volume:   0.8,
	}
	out := ansi.Strip(Render(s, 80))

	if h := lipgloss.Height(out); h != Height {
		t.Errorf("height = %d, want %d", h, Height)
	}
	if w := lipgloss.Width(out); w != 80 {
		t.Errorf("width = %d, want 80", w)
	}
	for _, want := range []string{"▶", "So What", "3/10", "vol  80%", "9:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRender_Error(t *testing.T) {
	s := NewState(playback.Session{
		Status:       playback.StatusError,
		PendingIndex: 1,
		LastError:    errors.New("cannot open file"),
	}, "Broken", 3, 1, true)

	out := ansi.Strip(Render(s, 60))
	for _, want := range []string{"✗", "cannot open file", "2/3", "vol mute"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRender_Idle(t *testing.T) {
	out := ansi.Strip(Render(State{Status: playback.StatusIdle, Volume: 1}, 40))
	if !strings.Contains(out, "Nothing playing") {
		t.Errorf("got:\n%s", out)
	}
}
