package picker_test

import (
	"testing"

	"github.com/sst/multipick/internal/completions"
	"github.com/sst/multipick/internal/picker"
	"github.com/sst/multipick/internal/pubsub"
	"github.com/sst/multipick/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []pubsub.Event[[]selection.Suggestion]
}

func (r *recorder) Publish(t pubsub.EventType, payload []selection.Suggestion) {
	r.events = append(r.events, pubsub.Event[[]selection.Suggestion]{Type: t, Payload: payload})
}

// reentrant fires another gesture from inside the value subscriber.
type reentrant struct {
	c     *picker.Controller
	calls int
}

func (r *reentrant) Publish(pubsub.EventType, []selection.Suggestion) {
	r.calls++
	r.c.Backspace()
}

func pool() []selection.Suggestion {
	return []selection.Suggestion{
		selection.Record("Paris", "PAR"),
		selection.Record("Rome", "ROM"),
		selection.Record("Madrid", "MAD"),
	}
}

func newPicker(t *testing.T, freeText bool, initial []string, opts ...picker.Option) *picker.Controller {
	t.Helper()
	opts = append([]picker.Option{picker.WithFreeText(freeText)}, opts...)
	c := picker.New(completions.NewController(pool(), freeText), opts...)
	if initial != nil {
		c.Init(initial)
	}
	require.Len(t, c.Labels(), len(initial))
	return c
}

func TestInitReplaysValue(t *testing.T) {
	t.Parallel()

	c := newPicker(t, true, []string{"paris", "Oslo"})
	assert.Equal(t, []selection.Suggestion{
		selection.Record("Paris", "PAR"),
		selection.Text("Oslo"),
	}, c.Value())
	assert.Equal(t, picker.Entry{Slot: 2}, c.Entry())
	assert.Equal(t, 1, c.Revision())
}

func TestMaxCount(t *testing.T) {
	t.Parallel()

	c := picker.New(completions.NewController(pool(), true), picker.WithFreeText(true), picker.WithMaxOptions(2))
	c.Init([]string{"a", "b", "c"})
	assert.Equal(t, []string{"a", "b"}, c.Labels())
	assert.True(t, c.Full())

	assert.Equal(t, "", c.SetText("d"))
	c.ReactToReport(&picker.Report{Value: "d", SuggestionsToAdd: "d"})
	assert.Equal(t, []string{"a", "b"}, c.Labels())
	assert.Equal(t, "", c.Entry().Text)

	c.ClickClose(1)
	assert.Equal(t, "d", c.SetText("d"))
	assert.True(t, c.Tab())
	assert.Equal(t, []string{"b", "d"}, c.Labels())
}

func TestReactToReportShapes(t *testing.T) {
	t.Parallel()

	t.Run("unknown shape", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, true, []string{"a"})
		err := c.ReactToReport(&picker.Report{Value: 42, SuggestionsToAdd: 42})
		require.ErrorIs(t, err, selection.ErrInvalidSuggestionShape)
		assert.Equal(t, []string{"a"}, c.Labels())
	})

	t.Run("plain string without free text", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, false, []string{"Rome"})
		err := c.ReactToReport(&picker.Report{Value: "x", SuggestionsToAdd: "x"})
		require.ErrorIs(t, err, selection.ErrInvalidSuggestionShape)
		assert.Equal(t, []string{"Rome"}, c.Labels())
	})

	t.Run("nil report and nil value are ignored", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, true, []string{"a"})
		require.NoError(t, c.ReactToReport(nil))
		text := "typed"
		require.NoError(t, c.ReactToReport(&picker.Report{Text: &text}))
		assert.Equal(t, "typed", c.Entry().Text)
		assert.Equal(t, []string{"a"}, c.Labels())
	})

	t.Run("duplicate label is not added twice", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, false, []string{"Rome"})
		c.ClickItem(selection.Record("Rome", "ROM"))
		assert.Equal(t, []string{"Rome"}, c.Labels())
		assert.Equal(t, 1, c.Revision())
	})
}

func TestBackspace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		highlight     []int
		wantLabels    []string
		wantHighlight []int
	}{
		{name: "nothing highlighted removes the chip before the entry", wantLabels: []string{"a", "b"}},
		{name: "first chip highlighted moves highlight to the next chip", highlight: []int{1}, wantLabels: []string{"b", "c"}, wantHighlight: []int{1}},
		{name: "middle chip highlighted moves highlight to the previous chip", highlight: []int{2}, wantLabels: []string{"a", "c"}, wantHighlight: []int{1}},
		{name: "last chip highlighted", highlight: []int{3}, wantLabels: []string{"a", "b"}, wantHighlight: []int{2}},
		{name: "several highlighted removes the first", highlight: []int{2, 3}, wantLabels: []string{"a", "c"}, wantHighlight: []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newPicker(t, true, []string{"a", "b", "c"})
			c.AddHighlight(tt.highlight...)
			assert.True(t, c.Backspace())
			assert.Equal(t, tt.wantLabels, c.Labels())
			assert.Equal(t, tt.wantHighlight, c.Highlight())
		})
	}

	t.Run("single chip", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, true, []string{"a"})
		c.AddHighlight(1)
		assert.True(t, c.Backspace())
		assert.Empty(t, c.Labels())
		assert.Empty(t, c.Highlight())
		assert.False(t, c.Backspace())
	})

	t.Run("non-empty entry", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, true, []string{"a"})
		c.SetText("x")
		assert.False(t, c.Backspace())
		assert.Equal(t, []string{"a"}, c.Labels())
	})

	t.Run("whitespace entry counts as empty", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, true, []string{"a", "b"})
		c.SetText("  ")
		assert.True(t, c.Backspace())
		assert.Equal(t, []string{"a"}, c.Labels())
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()

	c := newPicker(t, true, []string{"a", "b", "c"})
	assert.False(t, c.Delete(), "nothing highlighted")

	c.AddHighlight(2)
	assert.True(t, c.Delete())
	assert.Equal(t, []string{"a", "c"}, c.Labels())
	assert.Equal(t, []int{2}, c.Highlight())

	assert.True(t, c.Delete())
	assert.Equal(t, []string{"a"}, c.Labels())
	assert.Empty(t, c.Highlight())

	c.AddHighlight(1)
	c.SetText(" ")
	assert.True(t, c.Delete(), "whitespace entry counts as empty")
	assert.Empty(t, c.Labels())
}

func TestClickClosePublishesValue(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := newPicker(t, true, []string{"a", "b"}, picker.WithPublisher(rec))
	c.ClickClose(1)

	require.Len(t, rec.events, 2)
	last := rec.events[1]
	assert.Equal(t, pubsub.EventValueChanged, last.Type)
	assert.Equal(t, []selection.Suggestion{selection.Text("b")}, last.Payload)

	c.ClickClose(5)
	assert.Len(t, rec.events, 2, "out of range close is a no-op")
}

func TestClickLabel(t *testing.T) {
	t.Parallel()

	t.Run("second click edits with free text", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, true, []string{"a", "Berlin", "c"})
		c.AddHighlight(1, 3)
		c.ClickLabel(2)
		assert.Equal(t, []int{2}, c.Highlight())
		assert.False(t, c.EditMode())

		c.ClickLabel(2)
		assert.True(t, c.EditMode())
		assert.Equal(t, []string{"a", "c"}, c.Labels())
		assert.Equal(t, picker.Entry{Text: "Berlin", SelStart: 0, SelEnd: 6, Slot: 1}, c.Entry())
		assert.Empty(t, c.Highlight())
	})

	t.Run("second click keeps highlight without free text", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, false, []string{"Paris", "Rome"})
		c.ClickLabel(2)
		c.ClickLabel(2)
		assert.False(t, c.EditMode())
		assert.Equal(t, []int{2}, c.Highlight())
	})

	t.Run("double click needs free text", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, false, []string{"Paris", "Rome"})
		c.DoubleClickLabel(1)
		assert.False(t, c.EditMode())
		assert.Equal(t, []string{"Paris", "Rome"}, c.Labels())
	})
}

func TestEditRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("unchanged text restores the original value", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, true, []string{"x", "Paris", "y"})
		before := c.Value()

		c.DoubleClickLabel(2)
		require.True(t, c.EditMode())
		assert.Equal(t, 1, c.Entry().Slot)

		assert.True(t, c.Tab())
		assert.False(t, c.EditMode())
		assert.Equal(t, before, c.Value())
		assert.Equal(t, picker.Entry{Slot: 3}, c.Entry())
	})

	t.Run("changed text is inserted at the slot", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, true, []string{"Paris", "Oslo"})
		c.DoubleClickLabel(1)
		c.SetText("Lyon")
		assert.True(t, c.Tab())
		assert.Equal(t, []selection.Suggestion{selection.Text("Lyon"), selection.Text("Oslo")}, c.Value())
	})

	t.Run("typing a pool label yields the record", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, true, []string{"Oslo"})
		c.DoubleClickLabel(1)
		c.SetText("rome")
		assert.True(t, c.Tab())
		assert.Equal(t, []selection.Suggestion{selection.Record("Rome", "ROM")}, c.Value())
	})
}

func TestPickingItemWhileEditingReplacesEdit(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := newPicker(t, true, []string{"Oslo", "Paris"}, picker.WithPublisher(rec))
	c.DoubleClickLabel(2)
	c.SetText("Ro")
	c.ClickItem(selection.Record("Rome", "ROM"))

	assert.Equal(t, []string{"Oslo", "Rome"}, c.Labels())
	assert.False(t, c.EditMode())
	assert.Equal(t, picker.Entry{Slot: 2}, c.Entry())
	require.NotEmpty(t, rec.events)
	assert.Equal(t, []string{"Oslo", "Rome"}, selection.Labels(rec.events[len(rec.events)-1].Payload))
}

func TestPendingEditIsResolvedBeforeOtherGestures(t *testing.T) {
	t.Parallel()

	t.Run("commit shifts the target chip", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, true, []string{"a", "b", "c"})
		c.DoubleClickLabel(1)
		require.Equal(t, []string{"b", "c"}, c.Labels())

		c.ClickClose(2)
		assert.False(t, c.EditMode())
		assert.Equal(t, []string{"a", "b"}, c.Labels())
	})

	t.Run("blank edit is discarded", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, true, []string{"a", "b", "c"})
		c.DoubleClickLabel(1)
		c.SetText("")
		c.ClickLabel(1)
		assert.False(t, c.EditMode())
		assert.Equal(t, []string{"b", "c"}, c.Labels())
		assert.Equal(t, []int{1}, c.Highlight())
		assert.Equal(t, 2, c.Entry().Slot)
	})

	t.Run("blur commits", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, true, []string{"a", "b"})
		c.DoubleClickLabel(2)
		c.SetText("z")
		c.Blur()
		assert.False(t, c.EditMode())
		assert.Equal(t, []string{"a", "z"}, c.Labels())
	})
}

func TestNestedGestureIsDropped(t *testing.T) {
	t.Parallel()

	pub := &reentrant{}
	c := picker.New(completions.NewController(pool(), true), picker.WithFreeText(true), picker.WithPublisher(pub))
	pub.c = c
	c.Init([]string{"a", "b", "c"})
	require.Equal(t, 1, pub.calls)
	assert.Equal(t, []string{"a", "b", "c"}, c.Labels())

	c.ClickClose(1)
	assert.Equal(t, 2, pub.calls)
	assert.Equal(t, []string{"b", "c"}, c.Labels())
}

func TestTabWithEmptyEntry(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := newPicker(t, true, []string{"a", "b"}, picker.WithPublisher(rec))
	assert.False(t, c.Tab(), "entry already after the last chip")

	c.DoubleClickLabel(1)
	c.SetText("")
	events := len(rec.events)
	assert.True(t, c.Tab())
	assert.False(t, c.EditMode())
	assert.Equal(t, picker.Entry{Slot: 1}, c.Entry())
	assert.Len(t, rec.events, events+1, "value is republished")
}

func TestTabWithoutFreeText(t *testing.T) {
	t.Parallel()
	c := newPicker(t, false, nil)
	c.SetText("rome")
	assert.False(t, c.Tab())
	assert.Empty(t, c.Labels())

	assert.True(t, c.Submit())
	assert.Equal(t, []string{"Rome"}, c.Labels())
}

func TestChangeItems(t *testing.T) {
	t.Parallel()

	t.Run("select all keeps free text chips", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, true, []string{"Paris", "Oslo"})
		delta := c.ChangeItems(pool())
		assert.Equal(t, []string{"Rome", "Madrid"}, selection.Labels(delta.Add))
		assert.Equal(t, []string{"Paris", "Oslo", "Rome", "Madrid"}, c.Labels())
	})

	t.Run("deselect all", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, true, []string{"Paris", "Oslo", "Rome"})
		delta := c.ChangeItems(nil)
		assert.Equal(t, []string{"Paris", "Rome"}, delta.Remove)
		assert.Equal(t, []string{"Oslo"}, c.Labels())
	})

	t.Run("deselect one", func(t *testing.T) {
		t.Parallel()
		c := newPicker(t, false, []string{"Paris", "Rome", "Madrid"})
		c.ChangeItems([]selection.Suggestion{selection.Record("Paris", "PAR"), selection.Record("Madrid", "MAD")})
		assert.Equal(t, []string{"Paris", "Madrid"}, c.Labels())
	})

	t.Run("additions stop at the limit in report order", func(t *testing.T) {
		t.Parallel()
		c := picker.New(completions.NewController(pool(), true), picker.WithFreeText(true), picker.WithMaxOptions(3))
		c.Init([]string{"Oslo"})
		c.ChangeItems(pool())
		assert.Equal(t, []string{"Oslo", "Paris", "Rome"}, c.Labels())
	})
}

func TestDropdownMaxOptions(t *testing.T) {
	t.Parallel()

	c := picker.New(completions.NewController(pool(), true), picker.WithFreeText(true), picker.WithMaxOptions(2))
	assert.Equal(t, 2, c.DropdownMaxOptions())
	c.Init([]string{"Oslo"})
	assert.Equal(t, 2, c.DropdownMaxOptions())
	c.ClickItem(selection.Record("Rome", "ROM"))
	assert.Equal(t, 1, c.DropdownMaxOptions())

	unbounded := newPicker(t, true, nil)
	assert.Equal(t, 0, unbounded.DropdownMaxOptions())
}

func TestHighlightNavigation(t *testing.T) {
	t.Parallel()

	c := newPicker(t, true, []string{"a", "b", "c"})
	c.AddHighlight(0, 4, 9)
	assert.Empty(t, c.Highlight())

	assert.True(t, c.Left())
	assert.Equal(t, []int{3}, c.Highlight())
	assert.True(t, c.Left())
	assert.True(t, c.Left())
	assert.Equal(t, []int{1}, c.Highlight())
	assert.False(t, c.Left())

	assert.True(t, c.Right())
	assert.Equal(t, []int{2}, c.Highlight())
	c.AddHighlight(3)
	c.RemoveHighlight(2)
	assert.True(t, c.Right())
	assert.Empty(t, c.Highlight())
	assert.False(t, c.Right())

	c.AddHighlight(1, 2)
	assert.True(t, c.Escape())
	assert.Empty(t, c.Highlight())
	c.AddHighlight(1, 2)
	c.RemoveHighlight()
	assert.Empty(t, c.Highlight())
}
