package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// OpenCodeTheme is the default palette, with dark and light variants.
type OpenCodeTheme struct {
	BaseTheme
}

func NewOpenCodeTheme() *OpenCodeTheme {
	darkStep1 := "#0a0a0a"  // App background
	darkStep2 := "#141414"  // Subtle background
	darkStep3 := "#1e1e1e"  // UI element background
	darkStep6 := "#3c3c3c"  // Subtle borders and separators
	darkStep7 := "#484848"  // UI element border and focus rings
	darkStep8 := "#606060"  // Hovered UI element border
	darkStep9 := "#fab283"  // Solid backgrounds
	darkStep11 := "#808080" // Low-contrast text
	darkStep12 := "#eeeeee" // High-contrast text

	lightStep1 := "#ffffff"
	lightStep2 := "#fafafa"
	lightStep3 := "#f5f5f5"
	lightStep6 := "#d4d4d4"
	lightStep7 := "#b8b8b8"
	lightStep8 := "#a0a0a0"
	lightStep9 := "#3b7dd8"
	lightStep11 := "#8a8a8a"
	lightStep12 := "#1a1a1a"

	theme := &OpenCodeTheme{}

	theme.PrimaryColor = lipgloss.AdaptiveColor{Dark: darkStep9, Light: lightStep9}
	theme.SecondaryColor = lipgloss.AdaptiveColor{Dark: "#5c9cf5", Light: "#7b5bb6"}
	theme.AccentColor = lipgloss.AdaptiveColor{Dark: "#9d7cd8", Light: "#d68c27"}

	theme.ErrorColor = lipgloss.AdaptiveColor{Dark: "#e06c75", Light: "#d1383d"}
	theme.WarningColor = lipgloss.AdaptiveColor{Dark: "#f5a742", Light: "#d68c27"}
	theme.SuccessColor = lipgloss.AdaptiveColor{Dark: "#7fd88f", Light: "#3d9a57"}
	theme.InfoColor = lipgloss.AdaptiveColor{Dark: "#56b6c2", Light: "#318795"}

	theme.TextColor = lipgloss.AdaptiveColor{Dark: darkStep12, Light: lightStep12}
	theme.TextMutedColor = lipgloss.AdaptiveColor{Dark: darkStep11, Light: lightStep11}

	theme.BackgroundColor = lipgloss.AdaptiveColor{Dark: darkStep1, Light: lightStep1}
	theme.BackgroundPanelColor = lipgloss.AdaptiveColor{Dark: darkStep2, Light: lightStep2}
	theme.BackgroundElementColor = lipgloss.AdaptiveColor{Dark: darkStep3, Light: lightStep3}

	theme.BorderSubtleColor = lipgloss.AdaptiveColor{Dark: darkStep6, Light: lightStep6}
	theme.BorderColor = lipgloss.AdaptiveColor{Dark: darkStep7, Light: lightStep7}
	theme.BorderActiveColor = lipgloss.AdaptiveColor{Dark: darkStep8, Light: lightStep8}

	return theme
}

func (t *OpenCodeTheme) Name() string {
	return "opencode"
}
