package selection

import "errors"

var (
	// ErrMaxCountExceeded is returned when an addition would grow the store past its limit.
	ErrMaxCountExceeded = errors.New("maximum selection count exceeded")
	// ErrNotFound is returned when a removal names a label that is not selected.
	ErrNotFound = errors.New("label not selected")
	// ErrInvalidSuggestionShape is returned for values that are neither text nor records.
	ErrInvalidSuggestionShape = errors.New("invalid suggestion shape")
)
