// Package selection holds the ordered set of values picked in a multi-value picker.
package selection

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Suggestion is a value the user can select. Free text entries are plain
// strings (Structured false); candidates from a pool are structured records.
type Suggestion struct {
	Label      string
	Code       string
	Extra      map[string]string
	Structured bool
}

// Text returns a free text suggestion.
func Text(label string) Suggestion {
	return Suggestion{Label: label}
}

// Record returns a structured suggestion.
func Record(label, code string) Suggestion {
	return Suggestion{Label: label, Code: code, Structured: true}
}

// Clone returns a deep copy of s.
func (s Suggestion) Clone() Suggestion {
	c := s
	if s.Extra != nil {
		c.Extra = maps.Clone(s.Extra)
	}
	return c
}

type suggestionJSON struct {
	Label string            `json:"label"`
	Code  string            `json:"code,omitempty"`
	Extra map[string]string `json:"extra,omitempty"`
}

func (s Suggestion) MarshalJSON() ([]byte, error) {
	if !s.Structured {
		return json.Marshal(s.Label)
	}
	return json.Marshal(suggestionJSON{Label: s.Label, Code: s.Code, Extra: s.Extra})
}

func (s *Suggestion) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = Text(text)
		return nil
	}
	var rec suggestionJSON
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSuggestionShape, err)
	}
	*s = Suggestion{Label: rec.Label, Code: rec.Code, Extra: rec.Extra, Structured: true}
	return nil
}

// FromAny converts a decoded configuration value (string or map with a
// "label" key) into a Suggestion.
func FromAny(v any) (Suggestion, error) {
	switch v := v.(type) {
	case string:
		return Text(v), nil
	case Suggestion:
		return v, nil
	case map[string]any:
		label, ok := v["label"].(string)
		if !ok {
			return Suggestion{}, fmt.Errorf("%w: record without label", ErrInvalidSuggestionShape)
		}
		s := Suggestion{Label: label, Structured: true}
		for k, raw := range v {
			switch k {
			case "label":
			case "code":
				s.Code = fmt.Sprint(raw)
			default:
				if s.Extra == nil {
					s.Extra = make(map[string]string)
				}
				s.Extra[k] = fmt.Sprint(raw)
			}
		}
		return s, nil
	default:
		return Suggestion{}, fmt.Errorf("%w: %T", ErrInvalidSuggestionShape, v)
	}
}

// FromAnySlice converts every element with FromAny, skipping invalid ones.
// The returned error reports the first skipped element.
func FromAnySlice(values []any) ([]Suggestion, error) {
	var firstErr error
	out := make([]Suggestion, 0, len(values))
	for i, v := range values {
		s, err := FromAny(v)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("value %d: %w", i, err)
			}
			continue
		}
		out = append(out, s)
	}
	return out, firstErr
}

// Labels returns the labels of values in order.
func Labels(values []Suggestion) []string {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = v.Label
	}
	return labels
}
