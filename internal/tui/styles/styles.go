package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/sst/multipick/internal/tui/theme"
)

// BaseStyle returns the base style with background and foreground colors
func BaseStyle() lipgloss.Style {
	t := theme.CurrentTheme()
	return lipgloss.NewStyle().
		Background(t.Background()).
		Foreground(t.Text())
}

// Regular returns a basic unstyled lipgloss.Style
func Regular() lipgloss.Style {
	return lipgloss.NewStyle()
}

func Muted() lipgloss.Style {
	t := theme.CurrentTheme()
	return lipgloss.NewStyle().Foreground(t.TextMuted())
}

func Bold() lipgloss.Style {
	return Regular().Bold(true)
}

// Padded returns a style with horizontal padding
func Padded() lipgloss.Style {
	return BaseStyle().Padding(0, 1)
}

func Border() lipgloss.Style {
	t := theme.CurrentTheme()
	return Regular().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border())
}

// FocusedBorder returns a style with a border using the focused border color
func FocusedBorder() lipgloss.Style {
	t := theme.CurrentTheme()
	return Regular().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderActive())
}

// Dropdown is the frame around suggestion lists.
func Dropdown() lipgloss.Style {
	t := theme.CurrentTheme()
	return Regular().
		Border(lipgloss.NormalBorder()).
		BorderForeground(t.BorderSubtle()).
		Background(t.BackgroundPanel())
}

// Blend mixes two theme colors, t=0 giving a and t=1 giving b. A side that
// is not a hex color is left as a.
func Blend(a, b lipgloss.AdaptiveColor, t float64) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{
		Light: blendHex(a.Light, b.Light, t),
		Dark:  blendHex(a.Dark, b.Dark, t),
	}
}

func blendHex(a, b string, t float64) string {
	c1, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	c2, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return c1.BlendRgb(c2, t).Clamped().Hex()
}
