package styles

const (
	AppIcon string = "⌬"

	CheckIcon     string = "✓"
	ErrorIcon     string = "✖"
	WarningIcon   string = "⚠"
	InfoIcon      string = "ℹ"
	CheckedIcon   string = "[x]"
	UncheckedIcon string = "[ ]"
	ExpandIcon    string = "▾"
)
