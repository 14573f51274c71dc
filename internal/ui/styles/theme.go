// Package styles holds the color palette and shared lipgloss styles.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette.
type Theme struct {
	Primary   lipgloss.Color // playing track, focused border
	Secondary lipgloss.Color // gradient end, volume

	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	BgCursor lipgloss.Color
	Border   lipgloss.Color

	Error   lipgloss.Color
	Warning lipgloss.Color
}

var palette = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),
	FgBase:    lipgloss.Color("#c0c0c0"),
	FgMuted:   lipgloss.Color("#808080"),
	FgSubtle:  lipgloss.Color("#585858"),
	BgCursor:  lipgloss.Color("#303030"),
	Border:    lipgloss.Color("#585858"),
	Error:     lipgloss.Color("#ff5555"),
	Warning:   lipgloss.Color("#f1a208"),
}

// T returns the palette.
func T() Theme {
	return palette
}

var (
	Base    = lipgloss.NewStyle().Foreground(palette.FgBase)
	Muted   = lipgloss.NewStyle().Foreground(palette.FgMuted)
	Subtle  = lipgloss.NewStyle().Foreground(palette.FgSubtle)
	Playing = lipgloss.NewStyle().Foreground(palette.Primary).Bold(true)
	Cursor  = lipgloss.NewStyle().Background(palette.BgCursor).Foreground(palette.FgBase)
	Error   = lipgloss.NewStyle().Foreground(palette.Error)
	Warning = lipgloss.NewStyle().Foreground(palette.Warning)
)

// Panel is a rounded border box.
func Panel(focused bool) lipgloss.Style {
	border := palette.Border
	if focused {
		border = palette.Primary
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border)
}
