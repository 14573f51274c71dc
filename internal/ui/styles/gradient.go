package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Gradient renders text bold with its foreground blended from one color
// to another, one step per grapheme cluster. Colors must be #rrggbb.
func Gradient(text string, from, to lipgloss.Color) string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}
	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return lipgloss.NewStyle().Bold(true).Foreground(from).Render(text)
	}

	var b strings.Builder
	for i, hex := range Blend(len(clusters), from, to) {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(hex)).Render(clusters[i]))
	}
	return b.String()
}

// Blend returns n hex colors from one color to another, interpolated in
// HCL space. Colors that do not parse are treated as mid gray.
func Blend(n int, from, to lipgloss.Color) []string {
	if n <= 0 {
		return nil
	}
	c1, c2 := parseHex(from), parseHex(to)
	if n == 1 {
		return []string{c1.Hex()}
	}
	out := make([]string, n)
	for i := range n {
		out[i] = c1.BlendHcl(c2, float64(i)/float64(n-1)).Clamped().Hex()
	}
	return out
}

func parseHex(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	return col
}
