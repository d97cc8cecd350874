package picker

import (
	"github.com/sst/multipick/internal/highlight"
	"github.com/sst/multipick/internal/selection"
)

// Report is what an autocomplete returns after checking typed text or a
// value. Value is nil when nothing should be accepted. SuggestionsToAdd
// holds a string, a selection.Suggestion or a []selection.Suggestion.
type Report struct {
	Value            any
	Text             *string
	SuggestionsToAdd any
	CaretPosStart    *int
	CaretPosEnd      *int
}

// Autocomplete looks up candidates for the picker.
type Autocomplete interface {
	CheckValue(value any, initial bool) *Report
	CheckText(text string, initial bool) *Report
	Pool() []selection.Suggestion
}

// Entry is the live text entry: its text, selected range (in runes) and
// the number of chips rendered before it.
type Entry struct {
	Text     string
	SelStart int
	SelEnd   int
	Slot     int
}

// State owns everything a picker mutates.
type State struct {
	Store     *selection.Store
	Highlight *highlight.Cursor
	EditMode  bool
	// Edited is the value pulled back into the entry by the last edit.
	Edited   *selection.Suggestion
	FreeText bool
	Entry    Entry
}

func ptr[T any](v T) *T {
	return &v
}
