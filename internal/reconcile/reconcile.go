// Package reconcile turns the full checked-set reported by a multi-select
// dropdown into additions and removals against the current chips.
package reconcile

import (
	"slices"
	"strings"

	"github.com/sst/multipick/internal/selection"
)

// Delta is the outcome of a reconciliation. Remove holds chip labels to
// deselect; Add holds candidates to pass through the accept path, in the
// order the dropdown reported them.
type Delta struct {
	Remove []string
	Add    []selection.Suggestion
}

// Empty reports whether the delta changes nothing.
func (d Delta) Empty() bool {
	return len(d.Remove) == 0 && len(d.Add) == 0
}

// InPool reports whether label matches a pool candidate, ignoring case.
func InPool(label string, pool []selection.Suggestion) bool {
	return slices.ContainsFunc(pool, func(s selection.Suggestion) bool {
		return strings.EqualFold(s.Label, label)
	})
}

// PoolLabels returns the selected labels that belong to the pool, keeping
// selection order. Chips without a pool match are free text entries and
// never take part in a reconciliation.
func PoolLabels(selected []string, pool []selection.Suggestion) []string {
	out := make([]string, 0, len(selected))
	for _, label := range selected {
		if InPool(label, pool) {
			out = append(out, label)
		}
	}
	return out
}

// Reconcile compares checked against the selected labels. count is the
// current number of selected values and maxCount the store limit (0 for
// unbounded); additions stop once count plus the additions so far reaches it.
func Reconcile(selected []string, pool []selection.Suggestion, checked []selection.Suggestion, count, maxCount int) Delta {
	current := PoolLabels(selected, pool)
	checkedLabels := selection.Labels(checked)

	switch {
	case len(checked) == 0:
		return Delta{Remove: current}
	case len(checked) < len(current):
		var remove []string
		for _, label := range current {
			if !slices.Contains(checkedLabels, label) {
				remove = append(remove, label)
			}
		}
		return Delta{Remove: remove}
	case len(checked) > len(current):
		var add []selection.Suggestion
		for _, candidate := range checked {
			if slices.Contains(current, candidate.Label) {
				continue
			}
			if maxCount > 0 && count+len(add) >= maxCount {
				continue
			}
			add = append(add, candidate)
		}
		return Delta{Add: add}
	default:
		return Delta{}
	}
}
