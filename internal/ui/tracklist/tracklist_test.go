package tracklist

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/melodia/internal/catalog"
)

func tracks(n int) []catalog.Track {
	out := make([]catalog.Track, n)
	for i := range out {
		out[i] = catalog.Track{ID: int64(i + 1), Name: fmt.Sprintf("Song %02d", i+1)}
	}
	return out
}

func TestSetTracks_KeepsCursorOnSameTrack(t *testing.T) {
	m := New()
	m.SetSize(60, 20)
	m.SetTracks(tracks(5))
	m.JumpTo(3)

	list := tracks(5)
	reordered := []catalog.Track{list[3], list[0], list[1], list[2], list[4]}
	m.SetTracks(reordered)
	if m.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor())
	}
}

func TestSetTracks_ClampsWhenSelectedRemoved(t *testing.T) {
	m := New()
	m.SetSize(60, 20)
	m.SetTracks(tracks(5))
	m.JumpTo(4)

	m.SetTracks(tracks(3))
	if m.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", m.Cursor())
	}

	m.SetTracks(nil)
	if m.Cursor() != -1 || m.Selected() != nil {
		t.Errorf("empty list cursor = %d", m.Cursor())
	}
}

func TestView_Layout(t *testing.T) {
	m := New()
	m.SetSize(40, 8)
	list := tracks(10)
	list[1].Duration = 3*time.Minute + 5*time.Second
	m.SetTracks(list)

	out := ansi.Strip(m.View(1))
	if h := lipgloss.Height(out); h != 8 {
		t.Errorf("height = %d, want 8", h)
	}
	if w := lipgloss.Width(out); w != 40 {
		t.Errorf("width = %d, want 40", w)
	}
	if !strings.Contains(out, "Tracks (10)") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "▶ Song 02") || !strings.Contains(out, "3:05") {
		t.Errorf("missing playing row:\n%s", out)
	}
	if strings.Contains(out, "Song 06") {
		t.Errorf("row beyond viewport rendered:\n%s", out)
	}
}

func TestView_Empty(t *testing.T) {
	m := New()
	m.SetSize(70, 6)
	out := ansi.Strip(m.View(-1))
	if !strings.Contains(out, "melodia-catalog add") {
		t.Errorf("got:\n%s", out)
	}
}

func TestHandleKey(t *testing.T) {
	m := New()
	m.SetSize(40, 8)
	m.SetTracks(tracks(10))

	m.HandleKey("j")
	m.HandleKey("j")
	if got := m.Selected(); got == nil || got.ID != 3 {
		t.Errorf("selected = %+v, want id 3", got)
	}
	m.HandleKey("G")
	if m.Cursor() != 9 {
		t.Errorf("cursor = %d, want 9", m.Cursor())
	}
}
