package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/melodia/internal/ui/styles"
)

const (
	filledBlock = "━"
	emptyBlock  = "─"
)

// RenderProgressBar renders "1:23  ━━━━───────  4:56" in width cells.
// An unknown duration shows "--:--" and an empty bar.
func RenderProgressBar(position, duration time.Duration, width int) string {
	posStr := formatDuration(position)
	durStr := "--:--"
	if duration > 0 {
		durStr = formatDuration(duration)
	}

	barWidth := width - lipgloss.Width(posStr) - lipgloss.Width(durStr) - 4
	if barWidth < 3 {
		return posStr + " / " + durStr
	}

	var ratio float64
	if duration > 0 {
		ratio = min(float64(position)/float64(duration), 1)
	}
	filled := int(float64(barWidth) * ratio)

	bar := styles.Playing.Render(strings.Repeat(filledBlock, filled)) +
		styles.Subtle.Render(strings.Repeat(emptyBlock, barWidth-filled))
	return posStr + "  " + bar + "  " + durStr
}
