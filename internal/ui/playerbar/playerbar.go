// Package playerbar renders the now-playing panel at the bottom of the
// screen.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/melodia/internal/playback"
	"github.com/llehouerou/melodia/internal/ui/render"
	"github.com/llehouerou/melodia/internal/ui/styles"
)

// Height is the rendered height including borders.
const Height = 4

// State holds everything needed to render the bar.
type State struct {
	Status   playback.Status
	Title    string
	Index    int // 0-based position in the list
	Total    int
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Muted    bool
	Err      string // last error, shown in place of the title
}

// NewState builds a State from a session snapshot. track may be nil.
func NewState(s playback.Session, title string, total int, volume float64, muted bool) State {
	st := State{
		Status:   s.Status,
		Title:    title,
		Index:    s.ActiveIndex,
		Total:    total,
		Position: s.Position,
		Duration: s.Duration,
		Volume:   volume,
		Muted:    muted,
	}
	if s.PendingIndex >= 0 {
		st.Index = s.PendingIndex
	}
	if s.LastError != nil {
		st.Err = s.LastError.Error()
	}
	return st
}

func statusSymbol(s playback.Status) string {
	switch s {
	case playback.StatusPlaying:
		return "▶"
	case playback.StatusPaused:
		return "⏸"
	case playback.StatusLoading:
		return "…"
	case playback.StatusError:
		return "✗"
	case playback.StatusIdle:
		return "■"
	}
	return "■"
}

// Render returns the bordered bar, width cells wide.
func Render(s State, width int) string {
	inner := max(width-4, 10) // border and padding

	right := renderVolume(s.Volume, s.Muted)
	if s.Total > 0 {
		right = fmt.Sprintf("%d/%d   %s", s.Index+1, s.Total, right)
	}
	left := statusSymbol(s.Status) + "  "
	titleWidth := max(inner-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)

	var title string
	switch {
	case s.Status == playback.StatusError && s.Err != "":
		title = styles.Error.Render(render.Truncate(s.Err, titleWidth))
	case s.Title == "":
		title = styles.Muted.Render("Nothing playing")
	case s.Status == playback.StatusPlaying:
		title = styles.Gradient(render.Truncate(s.Title, titleWidth), styles.T().Primary, styles.T().Secondary)
	default:
		title = styles.Base.Render(render.Truncate(s.Title, titleWidth))
	}

	lines := []string{
		render.Row(left+title, styles.Muted.Render(right), inner),
		RenderProgressBar(s.Position, s.Duration, inner),
	}
	return styles.Panel(false).Padding(0, 1).Width(inner + 2).Render(strings.Join(lines, "\n"))
}

func renderVolume(volume float64, muted bool) string {
	if muted {
		return "vol mute"
	}
	return fmt.Sprintf("vol %3d%%", int(volume*100+0.5))
}

func formatDuration(d time.Duration) string {
	d = max(d, 0).Truncate(time.Second)
	if d >= time.Hour {
		return fmt.Sprintf("%d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
	}
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
