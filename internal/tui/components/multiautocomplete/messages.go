package multiautocomplete

import "github.com/sst/multipick/internal/selection"

// ItemClickedMsg is sent when a suggestion is picked in the single-select dropdown.
type ItemClickedMsg struct {
	Suggestion selection.Suggestion
}

// SelectionChangedMsg carries every item checked in the expanded dropdown.
type SelectionChangedMsg struct {
	Checked []selection.Suggestion
}

type DropdownClosedMsg struct{}

// ValueChangedMsg is sent after the selected values changed.
type ValueChangedMsg struct {
	Value    []selection.Suggestion
	Revision int
}

// PoolReloadedMsg replaces the candidate pool.
type PoolReloadedMsg struct {
	Pool []selection.Suggestion
}

// TabOutMsg asks the host to move focus past the picker.
type TabOutMsg struct{}

// DoneMsg is sent on enter with an empty entry and no open dropdown.
type DoneMsg struct{}
