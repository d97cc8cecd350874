package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors used by the picker UI. All colors are adaptive
// so both light and dark terminal backgrounds are supported.
type Theme interface {
	Name() string

	// Background colors
	Background() lipgloss.AdaptiveColor
	BackgroundPanel() lipgloss.AdaptiveColor
	BackgroundElement() lipgloss.AdaptiveColor

	// Border colors
	BorderSubtle() lipgloss.AdaptiveColor
	Border() lipgloss.AdaptiveColor
	BorderActive() lipgloss.AdaptiveColor

	// Brand colors
	Primary() lipgloss.AdaptiveColor
	Secondary() lipgloss.AdaptiveColor
	Accent() lipgloss.AdaptiveColor

	// Text colors
	TextMuted() lipgloss.AdaptiveColor
	Text() lipgloss.AdaptiveColor

	// Status colors
	Error() lipgloss.AdaptiveColor
	Warning() lipgloss.AdaptiveColor
	Success() lipgloss.AdaptiveColor
	Info() lipgloss.AdaptiveColor
}

// BaseTheme implements Theme from plain fields and is embedded by the
// concrete themes.
type BaseTheme struct {
	BackgroundColor        lipgloss.AdaptiveColor
	BackgroundPanelColor   lipgloss.AdaptiveColor
	BackgroundElementColor lipgloss.AdaptiveColor

	BorderSubtleColor lipgloss.AdaptiveColor
	BorderColor       lipgloss.AdaptiveColor
	BorderActiveColor lipgloss.AdaptiveColor

	PrimaryColor   lipgloss.AdaptiveColor
	SecondaryColor lipgloss.AdaptiveColor
	AccentColor    lipgloss.AdaptiveColor

	TextMutedColor lipgloss.AdaptiveColor
	TextColor      lipgloss.AdaptiveColor

	ErrorColor   lipgloss.AdaptiveColor
	WarningColor lipgloss.AdaptiveColor
	SuccessColor lipgloss.AdaptiveColor
	InfoColor    lipgloss.AdaptiveColor
}

func (t *BaseTheme) Primary() lipgloss.AdaptiveColor   { return t.PrimaryColor }
func (t *BaseTheme) Secondary() lipgloss.AdaptiveColor { return t.SecondaryColor }
func (t *BaseTheme) Accent() lipgloss.AdaptiveColor    { return t.AccentColor }

func (t *BaseTheme) Error() lipgloss.AdaptiveColor   { return t.ErrorColor }
func (t *BaseTheme) Warning() lipgloss.AdaptiveColor { return t.WarningColor }
func (t *BaseTheme) Success() lipgloss.AdaptiveColor { return t.SuccessColor }
func (t *BaseTheme) Info() lipgloss.AdaptiveColor    { return t.InfoColor }

func (t *BaseTheme) Text() lipgloss.AdaptiveColor      { return t.TextColor }
func (t *BaseTheme) TextMuted() lipgloss.AdaptiveColor { return t.TextMutedColor }

func (t *BaseTheme) Background() lipgloss.AdaptiveColor        { return t.BackgroundColor }
func (t *BaseTheme) BackgroundPanel() lipgloss.AdaptiveColor   { return t.BackgroundPanelColor }
func (t *BaseTheme) BackgroundElement() lipgloss.AdaptiveColor { return t.BackgroundElementColor }

func (t *BaseTheme) Border() lipgloss.AdaptiveColor       { return t.BorderColor }
func (t *BaseTheme) BorderActive() lipgloss.AdaptiveColor { return t.BorderActiveColor }
func (t *BaseTheme) BorderSubtle() lipgloss.AdaptiveColor { return t.BorderSubtleColor }
