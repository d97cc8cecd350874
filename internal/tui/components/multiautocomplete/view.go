package multiautocomplete

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sst/multipick/internal/tui/styles"
	"github.com/sst/multipick/internal/tui/theme"
)

const minFieldWidth = 12

func (m *Model) View() string {
	inner := max(m.width-4, minFieldWidth)

	m.chips.Reset()
	m.chips.SetStyles(ChipStyles())
	m.chips.SetFrameWidth(inner)

	labels := m.picker.Labels()
	highlighted := m.picker.Highlight()
	entry := m.picker.Entry()

	parts := make([]string, 0, len(labels)+2)
	for i, label := range labels {
		if i == entry.Slot {
			parts = append(parts, m.entryView())
		}
		parts = append(parts, m.chips.Render(i+1, label, slices.Contains(highlighted, i+1)))
	}
	if entry.Slot >= len(labels) {
		parts = append(parts, m.entryView())
	}
	if m.opts.ExpandButton {
		parts = append(parts, m.mark(m.expandID, styles.Muted().Render(styles.ExpandIcon)))
	}

	frame := styles.Border()
	if m.focused {
		frame = styles.FocusedBorder()
	}
	field := m.mark(m.frameID, frame.Width(inner+2).Padding(0, 1).Render(wrap(parts, inner)))

	if m.mode == dropdownClosed {
		return field
	}
	dropdown, above, ok := m.dropdownView(inner)
	if !ok {
		return field
	}
	if above {
		return lipgloss.JoinVertical(lipgloss.Left, dropdown, field)
	}
	return lipgloss.JoinVertical(lipgloss.Left, field, dropdown)
}

func (m *Model) entryView() string {
	return m.mark(m.picker.ValidationAnchor(), m.input.View())
}

// dropdownView renders the open dropdown. It is skipped while the entry has
// no known position on screen.
func (m *Model) dropdownView(inner int) (string, bool, bool) {
	placement, err := Place(m.geometry, m.picker.ValidationAnchor(), m.opts.MinHeight, m.opts.MaxHeight)
	if err != nil {
		m.logger.Debug("Dropdown placement skipped", "error", err)
		return "", false, false
	}

	l := m.active()
	l.SetMaxVisibleItems(placement.Height)
	if l.IsMultiSelect() {
		l.SetMaxWidth(max(inner-4, 1))
	} else {
		l.SetMaxWidth(inner)
	}

	t := theme.CurrentTheme()
	body := l.View()
	if l.IsEmpty() {
		body = lipgloss.NewStyle().Foreground(t.TextMuted()).PaddingLeft(1).Render(body)
	}
	return styles.Dropdown().Width(inner + 2).Render(body), placement.Above, true
}

func (m *Model) mark(id, s string) string {
	if m.zones == nil {
		return s
	}
	return m.zones.Mark(id, s)
}

// wrap lays parts out left to right, one space apart, starting a new line
// whenever the next part would not fit in width.
func wrap(parts []string, width int) string {
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, p := range parts {
		w := lipgloss.Width(p)
		if lineWidth > 0 && lineWidth+1+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteString(" ")
			lineWidth++
		}
		line.WriteString(p)
		lineWidth += w
	}
	lines = append(lines, line.String())
	return strings.Join(lines, "\n")
}
