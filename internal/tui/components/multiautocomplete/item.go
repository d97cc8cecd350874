package multiautocomplete

import (
	"github.com/muesli/reflow/truncate"
	"github.com/sst/multipick/internal/chip"
	"github.com/sst/multipick/internal/selection"
	"github.com/sst/multipick/internal/tui/styles"
	"github.com/sst/multipick/internal/tui/theme"
)

// suggestionItem is a dropdown row.
type suggestionItem struct {
	selection.Suggestion
}

func toItems(values []selection.Suggestion) []suggestionItem {
	items := make([]suggestionItem, len(values))
	for i, v := range values {
		items[i] = suggestionItem{v}
	}
	return items
}

func fromItems(items []suggestionItem) []selection.Suggestion {
	values := make([]selection.Suggestion, len(items))
	for i, item := range items {
		values[i] = item.Suggestion.Clone()
	}
	return values
}

func (s suggestionItem) Render(selected, checked bool, width int) string {
	t := theme.CurrentTheme()

	text := chip.Sanitize(s.Label)
	if s.Code != "" && s.Code != s.Label {
		text += " (" + chip.Sanitize(s.Code) + ")"
	}
	text = truncate.StringWithTail(text, uint(max(width-1, 0)), chip.Ellipsis)

	style := styles.Regular().Foreground(t.TextMuted()).PaddingLeft(1)
	switch {
	case selected:
		style = styles.Regular().
			Background(t.Primary()).
			Foreground(t.BackgroundElement()).
			Width(width).
			PaddingLeft(1)
	case checked:
		style = style.Foreground(t.Text())
	}
	return style.Render(text)
}

// ChipStyles derives chip styles from the active theme.
func ChipStyles() chip.Styles {
	t := theme.CurrentTheme()
	label := styles.Regular().
		Foreground(t.Text()).
		Background(t.BackgroundElement()).
		PaddingLeft(1)
	return chip.Styles{
		Label: label,
		Highlighted: label.
			Foreground(t.Text()).
			Background(styles.Blend(t.BackgroundElement(), t.Primary(), 0.6)),
		Close: styles.Regular().
			Foreground(t.TextMuted()).
			Background(t.BackgroundElement()).
			PaddingLeft(1).
			PaddingRight(1),
	}
}
