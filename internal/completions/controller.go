// Package completions is the bundled autocomplete: a static candidate pool
// matched with fuzzy search.
package completions

import (
	"slices"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sst/multipick/internal/picker"
	"github.com/sst/multipick/internal/selection"
)

type Controller struct {
	pool     []selection.Suggestion
	freeText bool
}

var _ picker.Autocomplete = (*Controller)(nil)

func NewController(pool []selection.Suggestion, freeText bool) *Controller {
	c := &Controller{freeText: freeText}
	c.SetPool(pool)
	return c
}

// SetPool replaces the candidates. Candidates sharing a label with an
// earlier one (ignoring case) are dropped.
func (c *Controller) SetPool(pool []selection.Suggestion) {
	c.pool = c.pool[:0:0]
	for _, s := range pool {
		if strings.TrimSpace(s.Label) == "" {
			continue
		}
		if _, ok := c.lookup(s.Label); ok {
			continue
		}
		s.Structured = true
		c.pool = append(c.pool, s.Clone())
	}
}

func (c *Controller) Pool() []selection.Suggestion {
	out := make([]selection.Suggestion, len(c.pool))
	for i, s := range c.pool {
		out[i] = s.Clone()
	}
	return out
}

func (c *Controller) FreeText() bool {
	return c.freeText
}

func (c *Controller) EmptyMessage() string {
	if c.freeText {
		return "no matches, press tab to add as typed"
	}
	return "no matching suggestions"
}

func (c *Controller) lookup(label string) (selection.Suggestion, bool) {
	for _, s := range c.pool {
		if strings.EqualFold(s.Label, label) {
			return s.Clone(), true
		}
	}
	return selection.Suggestion{}, false
}

// CheckText resolves typed text: a candidate whose label matches ignoring
// case, the text itself when free text is allowed, nothing otherwise.
func (c *Controller) CheckText(text string, initial bool) *picker.Report {
	report := &picker.Report{Text: &text}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return report
	}
	if s, ok := c.lookup(trimmed); ok {
		report.Value = s
		report.SuggestionsToAdd = s
		return report
	}
	if c.freeText {
		report.Value = trimmed
		report.SuggestionsToAdd = trimmed
	}
	return report
}

// CheckValue resolves a value handed over programmatically: a label, a
// suggestion or a list of either. Unknown shapes are passed through and
// left for the picker to reject.
func (c *Controller) CheckValue(value any, initial bool) *picker.Report {
	switch v := value.(type) {
	case nil:
		return &picker.Report{}
	case string:
		return c.CheckText(v, initial)
	case selection.Suggestion:
		if s, ok := c.lookup(v.Label); ok && v.Structured {
			v = s
		}
		label := v.Label
		return &picker.Report{Value: v, SuggestionsToAdd: v, Text: &label}
	case []selection.Suggestion:
		return c.checkList(v)
	case []string:
		values := make([]selection.Suggestion, len(v))
		for i, label := range v {
			values[i] = selection.Text(label)
		}
		return c.checkList(values)
	case []any:
		values, _ := selection.FromAnySlice(v)
		return c.checkList(values)
	default:
		return &picker.Report{Value: value, SuggestionsToAdd: value}
	}
}

// checkList maps labels found in the pool onto their candidates. Other
// plain labels are only kept when free text is allowed.
func (c *Controller) checkList(values []selection.Suggestion) *picker.Report {
	empty := ""
	out := make([]selection.Suggestion, 0, len(values))
	for _, v := range values {
		if s, ok := c.lookup(v.Label); ok {
			out = append(out, s)
			continue
		}
		if v.Structured || c.freeText {
			out = append(out, v)
		}
	}
	return &picker.Report{Value: out, SuggestionsToAdd: out, Text: &empty}
}

// Suggest ranks the pool against query. An empty query returns the pool in
// order. limit <= 0 returns every match.
func (c *Controller) Suggest(query string, limit int) []selection.Suggestion {
	var out []selection.Suggestion
	if strings.TrimSpace(query) == "" {
		out = c.Pool()
	} else {
		labels := selection.Labels(c.pool)
		matches := fuzzy.RankFindFold(query, labels)
		sort.Stable(matches)
		for _, m := range matches {
			out = append(out, c.pool[m.OriginalIndex].Clone())
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Without drops the candidates whose label is in labels.
func Without(values []selection.Suggestion, labels []string) []selection.Suggestion {
	return slices.DeleteFunc(slices.Clone(values), func(s selection.Suggestion) bool {
		return slices.Contains(labels, s.Label)
	})
}
