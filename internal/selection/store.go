package selection

import (
	"fmt"
	"slices"
)

// Store keeps the selected suggestions in chip order together with a
// label cache. Both slices always have the same length and are
// index-aligned.
type Store struct {
	suggestions []Suggestion
	labels      []string
	maxCount    int
}

// NewStore creates an empty store. A maxCount of 0 means unbounded.
func NewStore(maxCount int) *Store {
	return &Store{maxCount: max(maxCount, 0)}
}

// Add appends v. Adding a label that is already selected is a no-op.
func (s *Store) Add(v Suggestion) error {
	return s.Insert(len(s.suggestions), v)
}

// Insert places v at position at (0-based, clamped to the store bounds).
func (s *Store) Insert(at int, v Suggestion) error {
	if s.IndexOf(v.Label) >= 0 {
		return nil
	}
	if s.Full() {
		return fmt.Errorf("add %q: %w", v.Label, ErrMaxCountExceeded)
	}
	at = min(max(at, 0), len(s.suggestions))
	s.suggestions = slices.Insert(s.suggestions, at, v.Clone())
	s.labels = slices.Insert(s.labels, at, v.Label)
	return nil
}

// RemoveByLabel removes the first entry whose label matches exactly.
func (s *Store) RemoveByLabel(label string) (Suggestion, error) {
	i := s.IndexOf(label)
	if i < 0 {
		return Suggestion{}, fmt.Errorf("remove %q: %w", label, ErrNotFound)
	}
	removed := s.suggestions[i]
	s.suggestions = slices.Delete(s.suggestions, i, i+1)
	s.labels = slices.Delete(s.labels, i, i+1)
	return removed, nil
}

// IndexOf returns the 0-based index of label, or -1.
func (s *Store) IndexOf(label string) int {
	return slices.Index(s.labels, label)
}

// At returns the entry at the 0-based index i.
func (s *Store) At(i int) (Suggestion, bool) {
	if i < 0 || i >= len(s.suggestions) {
		return Suggestion{}, false
	}
	return s.suggestions[i].Clone(), true
}

// Snapshot returns a deep copy of the selected values.
func (s *Store) Snapshot() []Suggestion {
	out := make([]Suggestion, len(s.suggestions))
	for i, v := range s.suggestions {
		out[i] = v.Clone()
	}
	return out
}

// Labels returns a copy of the label cache.
func (s *Store) Labels() []string {
	return slices.Clone(s.labels)
}

func (s *Store) Count() int {
	return len(s.suggestions)
}

func (s *Store) MaxCount() int {
	return s.maxCount
}

// Full reports whether MaxCount is set and reached.
func (s *Store) Full() bool {
	return s.maxCount > 0 && len(s.suggestions) >= s.maxCount
}

// Remaining returns how many more entries fit, or -1 when unbounded.
func (s *Store) Remaining() int {
	if s.maxCount == 0 {
		return -1
	}
	return max(s.maxCount-len(s.suggestions), 0)
}
