// Package chip renders selected values as removable tokens and resolves
// mouse events back to them.
package chip

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"
)

type Part int

const (
	PartNone Part = iota
	PartLabel
	PartClose
)

func (p Part) String() string {
	switch p {
	case PartLabel:
		return "label"
	case PartClose:
		return "close"
	default:
		return "none"
	}
}

const (
	CloseMarker = "×"
	Ellipsis    = "…"
	// frameTolerance is kept free at the end of a line.
	frameTolerance = 2
)

type Styles struct {
	Label       lipgloss.Style
	Highlighted lipgloss.Style
	Close       lipgloss.Style
}

// DefaultStyles builds uncolored styles on re. Hosts normally derive
// styles from the active theme instead.
func DefaultStyles(re *lipgloss.Renderer) Styles {
	return Styles{
		Label:       re.NewStyle().PaddingLeft(1),
		Highlighted: re.NewStyle().PaddingLeft(1).Reverse(true),
		Close:       re.NewStyle().PaddingLeft(1).PaddingRight(1),
	}
}

// Token is a chip handed out by the last render pass.
type Token struct {
	Index     int
	Label     string
	Visible   string
	Truncated bool
}

type Renderer struct {
	zones      *zone.Manager
	prefix     string
	styles     Styles
	frameWidth int
	ellipsis   bool
	checkedOut map[int]Token
}

// NewRenderer returns a renderer marking zones on zones. A nil manager
// disables hit-testing.
func NewRenderer(zones *zone.Manager, styles Styles) *Renderer {
	r := &Renderer{
		zones:      zones,
		styles:     styles,
		ellipsis:   true,
		checkedOut: make(map[int]Token),
	}
	if zones != nil {
		r.prefix = zones.NewPrefix()
	}
	return r
}

func (r *Renderer) SetStyles(styles Styles) {
	r.styles = styles
}

// SetFrameWidth sets the width chips must fit in. 0 disables the ellipsis.
func (r *Renderer) SetFrameWidth(width int) {
	r.frameWidth = max(width, 0)
}

func (r *Renderer) SetEllipsis(enabled bool) {
	r.ellipsis = enabled
}

// Sanitize strips escape sequences and control characters from a label so
// it cannot alter the terminal state.
func Sanitize(label string) string {
	return strings.Map(func(c rune) rune {
		switch {
		case c == '\n' || c == '\t' || c == '\r':
			return ' '
		case unicode.IsControl(c):
			return -1
		}
		return c
	}, ansi.Strip(label))
}

// Reset returns all checked-out tokens. Call it before a new render pass.
func (r *Renderer) Reset() {
	clear(r.checkedOut)
}

// ZoneID is the zone marking part of the chip at the 1-based index.
func (r *Renderer) ZoneID(index int, part Part) string {
	return fmt.Sprintf("%schip-%d-%s", r.prefix, index, part)
}

// Render draws the chip at the 1-based index and checks out its token.
func (r *Renderer) Render(index int, label string, highlighted bool) string {
	clean := Sanitize(label)
	visible := clean

	labelStyle := r.styles.Label
	if highlighted {
		labelStyle = r.styles.Highlighted
	}
	closeView := r.styles.Close.Render(CloseMarker)

	truncated := false
	if r.ellipsis && r.frameWidth > 0 {
		room := r.frameWidth - frameTolerance - labelStyle.GetHorizontalFrameSize() - lipgloss.Width(closeView)
		if room > 0 && ansi.StringWidth(clean) > room {
			visible = truncate.StringWithTail(clean, uint(room), Ellipsis)
			truncated = true
		}
	}

	r.checkedOut[index] = Token{Index: index, Label: clean, Visible: visible, Truncated: truncated}
	return r.mark(index, PartLabel, labelStyle.Render(visible)) + r.mark(index, PartClose, closeView)
}

func (r *Renderer) mark(index int, part Part, s string) string {
	if r.zones == nil {
		return s
	}
	return r.zones.Mark(r.ZoneID(index, part), s)
}

// Title returns the full label of a checked-out chip.
func (r *Renderer) Title(index int) (string, bool) {
	t, ok := r.checkedOut[index]
	return t.Label, ok
}

// Tokens returns the checked-out tokens in index order.
func (r *Renderer) Tokens() []Token {
	tokens := make([]Token, 0, len(r.checkedOut))
	for _, t := range r.checkedOut {
		tokens = append(tokens, t)
	}
	slices.SortFunc(tokens, func(a, b Token) int { return a.Index - b.Index })
	return tokens
}

// HitTest resolves a mouse event to the chip and part under it.
func (r *Renderer) HitTest(msg tea.MouseMsg) (int, Part, bool) {
	if r.zones == nil {
		return 0, PartNone, false
	}
	for index := range r.checkedOut {
		if r.zones.Get(r.ZoneID(index, PartClose)).InBounds(msg) {
			return index, PartClose, true
		}
		if r.zones.Get(r.ZoneID(index, PartLabel)).InBounds(msg) {
			return index, PartLabel, true
		}
	}
	return 0, PartNone, false
}
