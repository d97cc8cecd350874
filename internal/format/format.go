package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sst/multipick/internal/selection"
)

// OutputFormat is how the final selection is printed
type OutputFormat string

const (
	// TextFormat prints one label per line (default)
	TextFormat OutputFormat = "text"

	// JSONFormat prints a JSON array of labels and records
	JSONFormat OutputFormat = "json"
)

// IsValid checks if the output format is valid
func (f OutputFormat) IsValid() bool {
	return f == TextFormat || f == JSONFormat
}

func (f OutputFormat) String() string {
	return string(f)
}

// Parse validates a format given on the command line.
func Parse(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return TextFormat, nil
	}
	if !f.IsValid() {
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
	return f, nil
}

// FormatOutput renders the selected values according to format
func FormatOutput(values []selection.Suggestion, format OutputFormat) (string, error) {
	switch format {
	case TextFormat:
		return strings.Join(selection.Labels(values), "\n"), nil
	case JSONFormat:
		if values == nil {
			values = []selection.Suggestion{}
		}
		jsonBytes, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(jsonBytes), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}
