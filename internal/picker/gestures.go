package picker

import (
	"strings"

	"github.com/sst/multipick/internal/reconcile"
	"github.com/sst/multipick/internal/selection"
)

// Chip positions taken by the gesture methods are 1-based, in chip order.

// ClickClose removes the chip whose close marker was clicked.
func (c *Controller) ClickClose(pos int) {
	c.run("click_close", func() {
		i := c.resolvePendingEdit(pos - 1)
		c.removeAt(i)
	})
}

// ClickLabel highlights the chip, or starts editing it when free text is
// allowed and it already is the only highlighted chip.
func (c *Controller) ClickLabel(pos int) {
	c.run("click_label", func() {
		i := c.resolvePendingEdit(pos - 1)
		if i < 0 || i >= c.state.Store.Count() {
			return
		}
		if c.state.FreeText && c.state.Highlight.Only(i+1) {
			c.enterEdit(i)
			return
		}
		c.state.Highlight.Set(i + 1)
	})
}

// DoubleClickLabel starts editing the chip when free text is allowed.
func (c *Controller) DoubleClickLabel(pos int) {
	if !c.state.FreeText {
		return
	}
	c.run("double_click_label", func() {
		c.enterEdit(c.resolvePendingEdit(pos - 1))
	})
}

// Tab accepts the entry as free text, or moves an empty entry back after
// the last chip. It reports whether focus should stay on the picker.
func (c *Controller) Tab() bool {
	handled := false
	c.run("tab", func() {
		st := &c.state
		if strings.TrimSpace(st.Entry.Text) != "" {
			if !st.FreeText {
				return
			}
			handled = true
			if err := c.reactToReport(c.ac.CheckText(st.Entry.Text, false)); err != nil {
				c.logger.Debug("Tab did not accept the entry", "error", err)
			}
			return
		}
		if st.Entry.Slot < st.Store.Count() {
			handled = true
			st.EditMode = false
			st.Edited = nil
			st.Entry = Entry{Slot: st.Store.Count()}
			c.changed()
		}
	})
	return handled
}

// Submit accepts the entry text when it names a candidate or free text is
// allowed.
func (c *Controller) Submit() bool {
	accepted := false
	c.run("submit", func() {
		text := c.state.Entry.Text
		if strings.TrimSpace(text) == "" {
			return
		}
		rev := c.revision
		if err := c.reactToReport(c.ac.CheckText(text, false)); err != nil {
			c.logger.Debug("Entry not accepted", "error", err)
		}
		accepted = c.revision != rev
	})
	return accepted
}

// Backspace on an empty entry removes the first highlighted chip and
// moves the highlight to its neighbour, or removes the chip right before
// the entry when nothing is highlighted.
func (c *Controller) Backspace() bool {
	removed := false
	c.run("backspace", func() {
		st := &c.state
		if strings.TrimSpace(st.Entry.Text) != "" {
			return
		}
		if k, ok := st.Highlight.First(); ok {
			if k == 1 {
				st.Highlight.Add(k + 1)
			} else {
				st.Highlight.Add(k - 1)
			}
			removed = c.removeAt(k - 1)
			return
		}
		if st.Entry.Slot > 0 {
			removed = c.removeAt(st.Entry.Slot - 1)
		}
	})
	return removed
}

// Delete on an empty entry removes the first highlighted chip and
// highlights the chip that took its place.
func (c *Controller) Delete() bool {
	removed := false
	c.run("delete", func() {
		st := &c.state
		if strings.TrimSpace(st.Entry.Text) != "" {
			return
		}
		k, ok := st.Highlight.First()
		if !ok {
			return
		}
		st.Highlight.Add(k + 1)
		removed = c.removeAt(k - 1)
	})
	return removed
}

// Blur commits a pending edit and moves an empty entry after the last chip.
func (c *Controller) Blur() {
	c.run("blur", func() {
		c.resolvePendingEdit(0)
		st := &c.state
		if st.Entry.Text == "" && st.Entry.Slot < st.Store.Count() {
			st.Entry.Slot = st.Store.Count()
		}
	})
}

// Left highlights the chip before the entry, or moves a highlight one chip
// to the left.
func (c *Controller) Left() bool {
	moved := false
	c.run("left", func() {
		st := &c.state
		if st.Entry.Text != "" {
			return
		}
		if k, ok := st.Highlight.First(); ok {
			if k > 1 {
				st.Highlight.Set(k - 1)
				moved = true
			}
			return
		}
		if st.Entry.Slot > 0 {
			st.Highlight.Set(st.Entry.Slot)
			moved = true
		}
	})
	return moved
}

// Right moves a highlight one chip to the right and clears it past the last chip.
func (c *Controller) Right() bool {
	moved := false
	c.run("right", func() {
		st := &c.state
		if st.Entry.Text != "" {
			return
		}
		k, ok := st.Highlight.First()
		if !ok {
			return
		}
		moved = true
		if k < st.Store.Count() {
			st.Highlight.Set(k + 1)
			return
		}
		st.Highlight.Clear()
	})
	return moved
}

// Escape clears the highlight. It reports whether anything was highlighted.
func (c *Controller) Escape() bool {
	had := !c.state.Highlight.Empty()
	c.state.Highlight.Clear()
	return had
}

// SetText records what the user typed. Once the limit is reached the entry
// stays empty.
func (c *Controller) SetText(text string) string {
	if c.state.Store.Full() {
		text = ""
	}
	c.state.Entry.Text = text
	c.state.Entry.SelStart, c.state.Entry.SelEnd = 0, 0
	return text
}

// ClickItem accepts a suggestion picked in the single-select dropdown.
// During an edit the suggestion replaces the edited text at the edit slot.
func (c *Controller) ClickItem(s selection.Suggestion) {
	c.run("click_item", func() {
		if !c.state.EditMode {
			c.resolvePendingEdit(0)
		}
		if err := c.reactToReport(c.ac.CheckValue(s, false)); err != nil {
			c.logger.Debug("Dropdown item not accepted", "label", s.Label, "error", err)
		}
	})
}

// ChangeItems reconciles the chips against the full set of items checked
// in the expanded dropdown and returns the applied delta.
func (c *Controller) ChangeItems(checked []selection.Suggestion) reconcile.Delta {
	var delta reconcile.Delta
	c.run("change_items", func() {
		c.resolvePendingEdit(0)
		st := &c.state
		delta = reconcile.Reconcile(st.Store.Labels(), c.ac.Pool(), checked, st.Store.Count(), st.Store.MaxCount())
		for _, label := range delta.Remove {
			if i := st.Store.IndexOf(label); i >= 0 {
				c.removeAt(i)
			}
		}
		if len(delta.Add) == 0 {
			return
		}
		st.Entry.Slot = st.Store.Count()
		if err := c.reactToReport(c.ac.CheckValue(delta.Add, false)); err != nil {
			c.logger.Debug("Checked items not accepted", "error", err)
		}
	})
	return delta
}
