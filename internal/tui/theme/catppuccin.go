package theme

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// CatppuccinTheme uses Mocha on dark terminals and Latte on light ones.
type CatppuccinTheme struct {
	BaseTheme
}

func NewCatppuccinTheme() *CatppuccinTheme {
	dark := catppuccin.Mocha
	light := catppuccin.Latte
	pick := func(f func(catppuccin.Flavor) catppuccin.Color) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Dark: f(dark).Hex, Light: f(light).Hex}
	}

	theme := &CatppuccinTheme{}

	theme.PrimaryColor = pick(catppuccin.Flavor.Mauve)
	theme.SecondaryColor = pick(catppuccin.Flavor.Blue)
	theme.AccentColor = pick(catppuccin.Flavor.Peach)

	theme.ErrorColor = pick(catppuccin.Flavor.Red)
	theme.WarningColor = pick(catppuccin.Flavor.Yellow)
	theme.SuccessColor = pick(catppuccin.Flavor.Green)
	theme.InfoColor = pick(catppuccin.Flavor.Sky)

	theme.TextColor = pick(catppuccin.Flavor.Text)
	theme.TextMutedColor = pick(catppuccin.Flavor.Overlay1)

	theme.BackgroundColor = pick(catppuccin.Flavor.Base)
	theme.BackgroundPanelColor = pick(catppuccin.Flavor.Mantle)
	theme.BackgroundElementColor = pick(catppuccin.Flavor.Surface0)

	theme.BorderSubtleColor = pick(catppuccin.Flavor.Surface1)
	theme.BorderColor = pick(catppuccin.Flavor.Surface2)
	theme.BorderActiveColor = pick(catppuccin.Flavor.Lavender)

	return theme
}

func (t *CatppuccinTheme) Name() string {
	return "catppuccin"
}
